package render

import (
	"strings"
	"testing"

	"github.com/fj223/music-slideshow-1/internal/timeline"
)

func argAfter(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestConcatArgsSingleSegmentWithAudio(t *testing.T) {
	// Один слайд плюс аудио: filter_complex не нужен, и метка [0:v] без
	// него не существует.
	tl, _ := timeline.ApplyTransitions([]float64{5.0}, 1.0, timeline.StyleCrossfade)
	args := concatArgs(ConcatSpec{
		SegmentPaths: []string{"s000.mp4"},
		AudioPath:    "track.mp3",
		FinalPath:    "final.mp4",
		Timeline:     tl,
		EncoderName:  "libx264",
		Quality:      23,
	})

	for _, a := range args {
		if a == "-filter_complex" {
			t.Fatalf("Single plain segment must not carry a filter graph: %v", args)
		}
	}

	videoMap, ok := argAfter(args, "-map")
	if !ok || videoMap != "0:v" {
		t.Errorf("Video map = %q, want plain stream specifier 0:v", videoMap)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-map 1:a") {
		t.Errorf("Audio stream not mapped: %s", joined)
	}
	if !strings.Contains(joined, "-i track.mp3") {
		t.Errorf("Audio input missing: %s", joined)
	}
}

func TestConcatArgsSingleSegmentWithOverlay(t *testing.T) {
	tl, _ := timeline.ApplyTransitions([]float64{5.0}, 0, timeline.StyleCut)
	args := concatArgs(ConcatSpec{
		SegmentPaths:   []string{"s000.mp4"},
		AudioPath:      "track.mp3",
		FinalPath:      "final.mp4",
		Timeline:       tl,
		OverlayFilters: []string{"drawtext=text='hi'"},
		EncoderName:    "libx264",
	})

	graph, ok := argAfter(args, "-filter_complex")
	if !ok {
		t.Fatalf("Overlay run must carry a filter graph: %v", args)
	}
	if !strings.Contains(graph, "[0:v]drawtext") || !strings.HasSuffix(graph, "[vtext]") {
		t.Errorf("Overlay graph malformed: %s", graph)
	}
	if videoMap, _ := argAfter(args, "-map"); videoMap != "[vtext]" {
		t.Errorf("Video map = %q, want [vtext]", videoMap)
	}
}

func TestConcatArgsXfadeChain(t *testing.T) {
	tl, _ := timeline.ApplyTransitions([]float64{3.0, 3.0, 3.0}, 1.0, timeline.StyleCrossfade)
	args := concatArgs(ConcatSpec{
		SegmentPaths: []string{"s000.mp4", "s001.mp4", "s002.mp4"},
		AudioPath:    "track.mp3",
		FinalPath:    "final.mp4",
		Timeline:     tl,
		EncoderName:  "libx264",
	})

	graph, ok := argAfter(args, "-filter_complex")
	if !ok {
		t.Fatalf("Xfade run must carry a filter graph: %v", args)
	}
	if strings.Count(graph, "xfade=transition=fade") != 2 {
		t.Errorf("Expected 2 xfade stages: %s", graph)
	}
	if videoMap, _ := argAfter(args, "-map"); videoMap != "[v2]" {
		t.Errorf("Video map = %q, want final xfade label", videoMap)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-map 3:a") {
		t.Errorf("Audio must map input after the 3 segments: %s", joined)
	}
}

func TestConcatArgsCutSegmentsWithAudio(t *testing.T) {
	// Переходы в стиле cut не создают окон: сегменты склеиваются concat.
	tl, _ := timeline.ApplyTransitions([]float64{3.0, 3.0}, 1.0, timeline.StyleCut)
	args := concatArgs(ConcatSpec{
		SegmentPaths: []string{"s000.mp4", "s001.mp4"},
		AudioPath:    "track.mp3",
		FinalPath:    "final.mp4",
		Timeline:     tl,
		EncoderName:  "libx264",
	})

	graph, ok := argAfter(args, "-filter_complex")
	if !ok {
		t.Fatalf("Multi-segment concat must carry a filter graph: %v", args)
	}
	if !strings.Contains(graph, "concat=n=2:v=1:a=0[vconcat]") {
		t.Errorf("Concat stage missing: %s", graph)
	}
	if videoMap, _ := argAfter(args, "-map"); videoMap != "[vconcat]" {
		t.Errorf("Video map = %q, want [vconcat]", videoMap)
	}
}
