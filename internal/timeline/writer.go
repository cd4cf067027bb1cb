package timeline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a finalized schedule.
type Document struct {
	Version  string          `yaml:"version"`
	Timeline *Timeline       `yaml:"timeline"`
	Overlays []OverlayWindow `yaml:"overlays,omitempty"`
}

// WriteTimeline dumps a finalized timeline to a YAML file.
func WriteTimeline(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTimeline reads a timeline document back from a YAML file.
func ReadTimeline(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
