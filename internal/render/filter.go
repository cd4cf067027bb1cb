package render

import (
	"fmt"
	"strings"

	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/timeline"
)

// GenerateFilter builds the per-segment ffmpeg filter: aspect correction at
// 2x for zoom quality, a slow zoompan, then scale to the target resolution.
// The "random" zoom mode is derived from the slot index so reruns are
// reproducible.
func GenerateFilter(p config.SegmentParams) string {
	mode := strings.ToLower(p.ZoomMode)
	if mode == "random" {
		modes := []string{"center", "top-left", "top-right", "bottom-left", "bottom-right"}
		mode = modes[p.SlotIndex%len(modes)]
	}

	var zoomX, zoomY string
	switch mode {
	case "top-left":
		zoomX, zoomY = "0", "0"
	case "top-right":
		zoomX, zoomY = "iw-(iw/zoom)", "0"
	case "bottom-left":
		zoomX, zoomY = "0", "ih-(ih/zoom)"
	case "bottom-right":
		zoomX, zoomY = "iw-(iw/zoom)", "ih-(ih/zoom)"
	default: // center
		zoomX, zoomY = "iw/2-(iw/zoom/2)", "ih/2-(ih/zoom/2)"
	}

	zSpeed := p.ZoomSpeed
	if zSpeed <= 0 {
		zSpeed = 0.001
	}

	fTotal := p.Duration * float64(p.FPS)
	zFormula := fmt.Sprintf("min(1.0+(%f*on),1.5)", zSpeed)

	aspectFilter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		p.Width*2, p.Height*2, p.Width*2, p.Height*2,
	)

	zoomFilter := fmt.Sprintf(
		"zoompan=z='%s':d=%d:s=%dx%d:x='%s':y='%s':fps=%d",
		zFormula, int(fTotal), p.Width, p.Height, zoomX, zoomY, p.FPS,
	)

	return fmt.Sprintf("%s,%s,scale=%d:%d", aspectFilter, zoomFilter, p.Width, p.Height)
}

// XfadeName maps a scheduled transition style onto an ffmpeg xfade
// transition. Cut windows never reach here: they carry no overlap.
func XfadeName(style timeline.TransitionStyle) string {
	switch style {
	case timeline.StyleSlide:
		return "slideleft"
	default:
		return "fade"
	}
}

var overlayEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`%`, `\%`,
	`,`, `\,`,
)

// BuildDrawtext renders one overlay window as a drawtext filter pinned to
// the bottom of the frame, visible only inside its scheduled window.
func BuildDrawtext(w timeline.OverlayWindow) (string, error) {
	text := overlayEscaper.Replace(strings.TrimSpace(w.Text))
	if text == "" {
		return "", fmt.Errorf("overlay text empty after sanitizing")
	}
	if w.End <= w.Start {
		return "", fmt.Errorf("overlay window [%f, %f] is empty", w.Start, w.End)
	}

	return fmt.Sprintf(
		"drawtext=text='%s':enable='between(t,%f,%f)':x=(w-text_w)/2:y=h-text_h-40:fontsize=36:fontcolor=white:box=1:boxcolor=black@0.5:boxborderw=8",
		text, w.Start, w.End,
	), nil
}
