package timeline

import "errors"

// Tolerance absorbs float rounding when checking that a schedule sums to the
// audio duration.
const Tolerance = 0.001

// ErrInvalidAllocation marks a caller contract violation: negative asset
// count or negative audio duration.
var ErrInvalidAllocation = errors.New("invalid allocation input")
