package render

import (
	"errors"
	"fmt"
)

// State is the terminal state of a composition run.
type State string

const (
	// StateCompleted means every slot was rendered, possibly with reported
	// placeholder substitutions.
	StateCompleted State = "completed"
	// StateAborted means the output as a whole is unusable.
	StateAborted State = "aborted"
)

// ErrRenderAborted marks unrecoverable failures: unreadable audio,
// unwritable output, or a zero-duration timeline handed in together with a
// non-empty asset list.
var ErrRenderAborted = errors.New("render aborted")

// AssetUnavailableError is a per-slot, recoverable condition. It never
// propagates out of Render; it is absorbed by placeholder substitution and
// surfaces in the diagnostic report.
type AssetUnavailableError struct {
	Slot   int
	Reason string
}

func (e *AssetUnavailableError) Error() string {
	return fmt.Sprintf("asset for slot %d unavailable: %s", e.Slot, e.Reason)
}
