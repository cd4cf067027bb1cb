package render

import (
	"strings"
	"testing"

	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/timeline"
)

func segmentParams(slot int) config.SegmentParams {
	return config.SegmentParams{
		Width:     1280,
		Height:    720,
		FPS:       30,
		Duration:  3.0,
		ZoomMode:  "random",
		ZoomSpeed: 0.0005,
		SlotIndex: slot,
	}
}

func TestGenerateFilterDeterministic(t *testing.T) {
	first := GenerateFilter(segmentParams(3))
	second := GenerateFilter(segmentParams(3))
	if first != second {
		t.Errorf("Same params produced different filters:\n%s\n%s", first, second)
	}
}

func TestGenerateFilterRandomModePerSlot(t *testing.T) {
	// "random" выбирается по индексу слота, а не по времени.
	a := GenerateFilter(segmentParams(0))
	b := GenerateFilter(segmentParams(1))
	if a == b {
		t.Error("Adjacent slots should get different zoom anchors in random mode")
	}
}

func TestGenerateFilterStructure(t *testing.T) {
	f := GenerateFilter(segmentParams(0))
	for _, part := range []string{"zoompan=", "scale=2560:1440", "scale=1280:720", "d=90", "fps=30"} {
		if !strings.Contains(f, part) {
			t.Errorf("Filter missing %q:\n%s", part, f)
		}
	}
}

func TestXfadeName(t *testing.T) {
	if got := XfadeName(timeline.StyleSlide); got != "slideleft" {
		t.Errorf("StyleSlide = %s", got)
	}
	if got := XfadeName(timeline.StyleCrossfade); got != "fade" {
		t.Errorf("StyleCrossfade = %s", got)
	}
}

func TestBuildDrawtext(t *testing.T) {
	f, err := BuildDrawtext(timeline.OverlayWindow{Text: "Hello world", Start: 1.5, End: 4.0})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f, "drawtext=text='Hello world'") {
		t.Errorf("Missing text in filter: %s", f)
	}
	if !strings.Contains(f, "enable='between(t,1.5") {
		t.Errorf("Missing enable window in filter: %s", f)
	}
}

func TestBuildDrawtextEscaping(t *testing.T) {
	f, err := BuildDrawtext(timeline.OverlayWindow{Text: `it's 50%: a,b`, Start: 0, End: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, esc := range []string{`\'`, `\%`, `\:`, `\,`} {
		if !strings.Contains(f, esc) {
			t.Errorf("Expected escape %q in filter: %s", esc, f)
		}
	}
}

func TestBuildDrawtextErrors(t *testing.T) {
	if _, err := BuildDrawtext(timeline.OverlayWindow{Text: "   ", Start: 0, End: 1}); err == nil {
		t.Error("Expected error for blank text")
	}
	if _, err := BuildDrawtext(timeline.OverlayWindow{Text: "ok", Start: 2, End: 2}); err == nil {
		t.Error("Expected error for empty window")
	}
}
