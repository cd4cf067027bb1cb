package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScheduleMode определяет, как нарезается таймлайн по аудио.
type ScheduleMode string

const (
	ModeFixed    ScheduleMode = "fixed"
	ModeBeatSync ScheduleMode = "beat-sync"
)

type Config struct {
	AudioPath   string `yaml:"audio"`
	ImagesPath  string `yaml:"images"`
	OutputVideo string `yaml:"output"`

	Mode          ScheduleMode `yaml:"mode"`
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	FPS           int          `yaml:"fps"`
	Workers       int          `yaml:"workers"`
	MaxImages     int          `yaml:"max_images"`
	ImageDuration float64      `yaml:"image_duration"` // 0 = auto (audioDuration/N)

	TransitionDuration float64 `yaml:"transition_duration"`
	TransitionStyle    string  `yaml:"transition_style"` // cut, crossfade, slide

	ZoomMode  string  `yaml:"zoom_mode"`
	ZoomSpeed float64 `yaml:"zoom_speed"`

	VideoEncoder string `yaml:"video_encoder"`
	Quality      int    `yaml:"quality"`

	TextOverlay   bool          `yaml:"text_overlay"`
	QRLink        string        `yaml:"qr_link"` // непустая строка добавляет QR-слайд в конце
	DecodeTimeout time.Duration `yaml:"decode_timeout"`

	ReportPath   string `yaml:"report"`
	TimelinePath string `yaml:"timeline"`
	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`
}

// SegmentParams carries per-slot parameters into filter generation and
// segment encoding.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	ZoomMode      string
	ZoomSpeed     float64
	FadeDuration  float64
	SlotIndex     int
}

// Default returns the baseline configuration used when no preset is given.
func Default() *Config {
	return &Config{
		Mode:               ModeFixed,
		Width:              1280,
		Height:             720,
		FPS:                24,
		MaxImages:          8,
		TransitionDuration: 1.0,
		TransitionStyle:    "crossfade",
		ZoomMode:           "center",
		ZoomSpeed:          0.001,
		Quality:            23,
		VideoEncoder:       "libx264",
		DecodeTimeout:      15 * time.Second,
	}
}

// LoadPreset reads a YAML preset file on top of the defaults.
func LoadPreset(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора пресета %s: %w", path, err)
	}
	return cfg, nil
}
