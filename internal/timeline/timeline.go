package timeline

// TransitionStyle is a tagged variant resolved only at render time; the
// scheduler cares about overlap magnitude, never about pixels.
type TransitionStyle string

const (
	StyleCut       TransitionStyle = "cut"
	StyleCrossfade TransitionStyle = "crossfade"
	StyleSlide     TransitionStyle = "slide"
)

// Slot is a contiguous time interval assigned to one visual asset.
type Slot struct {
	Index int     `yaml:"index"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Duration returns the display window length of the slot in seconds.
func (s Slot) Duration() float64 {
	return s.End - s.Start
}

// TransitionWindow is an intentional overlap between two adjacent slots.
type TransitionWindow struct {
	From     int             `yaml:"from"`
	To       int             `yaml:"to"`
	Start    float64         `yaml:"start"`
	Duration float64         `yaml:"duration"`
	Style    TransitionStyle `yaml:"style"`
}

// Timeline is the finalized schedule for one pipeline run. Slots cover
// [0, AudioDuration] with no gaps; adjacent slots overlap exactly by their
// transition window, so sum(slot durations) - sum(overlaps) == AudioDuration.
type Timeline struct {
	AudioDuration float64            `yaml:"audio_duration"`
	Slots         []Slot             `yaml:"slots"`
	Transitions   []TransitionWindow `yaml:"transitions,omitempty"`
}

// TotalOverlap returns the summed transition overlap of the timeline.
func (t *Timeline) TotalOverlap() float64 {
	total := 0.0
	for _, tr := range t.Transitions {
		total += tr.Duration
	}
	return total
}

// OverlayWindow is a visible text window. Overlays share the time axis with
// slots but are scheduled independently and may span several of them.
type OverlayWindow struct {
	Text  string  `yaml:"text"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}
