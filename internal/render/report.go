package render

import (
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fj223/music-slideshow-1/internal/timeline"
)

// Report is the per-run diagnostic surfaced to the caller: which slots were
// substituted, which transitions were clamped, which overlays were skipped.
// Silent degradation is never truly silent.
type Report struct {
	RunID         string  `yaml:"run_id"`
	State         State   `yaml:"state"`
	AudioDuration float64 `yaml:"audio_duration"`

	Substitutions   []Substitution   `yaml:"substitutions,omitempty"`
	Clamps          []timeline.Clamp `yaml:"clamped_transitions,omitempty"`
	SkippedOverlays []SkippedOverlay `yaml:"skipped_overlays,omitempty"`
}

// Substitution records one slot rendered from a placeholder instead of its
// bound asset.
type Substitution struct {
	Slot   int    `yaml:"slot"`
	Reason string `yaml:"reason"`
	Source string `yaml:"source,omitempty"`
}

type SkippedOverlay struct {
	Index  int    `yaml:"index"`
	Reason string `yaml:"reason"`
}

func NewReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Write serializes the report as YAML for the surrounding CLI.
func (r *Report) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
