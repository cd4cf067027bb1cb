package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Mode != ModeFixed {
		t.Errorf("Default mode = %s", cfg.Mode)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("Default resolution = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TransitionStyle != "crossfade" {
		t.Errorf("Default transition = %s", cfg.TransitionStyle)
	}
}

func TestLoadPreset(t *testing.T) {
	preset := `
mode: beat-sync
width: 1080
height: 1920
transition_style: slide
qr_link: https://example.com
`
	path := filepath.Join(t.TempDir(), "vertical.yaml")
	if err := os.WriteFile(path, []byte(preset), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeBeatSync {
		t.Errorf("Mode = %s", cfg.Mode)
	}
	if cfg.Width != 1080 || cfg.Height != 1920 {
		t.Errorf("Resolution = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TransitionStyle != "slide" {
		t.Errorf("Transition = %s", cfg.TransitionStyle)
	}
	// Не заданные в пресете поля остаются дефолтными.
	if cfg.FPS != 24 {
		t.Errorf("FPS = %d, want default 24", cfg.FPS)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	if _, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing preset")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPreset(bad); err == nil {
		t.Error("Expected error for malformed preset")
	}
}
