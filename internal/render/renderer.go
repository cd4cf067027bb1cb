package render

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fj223/music-slideshow-1/internal/asset"
	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/system"
	"github.com/fj223/music-slideshow-1/internal/timeline"
)

// encodeWorkers caps parallel ffmpeg encoders; the final concat is a single
// ordered writer and is never parallelized.
const encodeWorkers = 4

// Renderer enforces a finalized timeline: it decodes assets concurrently,
// substitutes placeholders for missing or corrupt slots, encodes one segment
// per slot and writes the composed video in slot order.
type Renderer struct {
	Config  *config.Config
	Encoder Encoder
}

func NewRenderer(cfg *config.Config, enc Encoder) *Renderer {
	return &Renderer{Config: cfg, Encoder: enc}
}

// Result carries the terminal state and the per-run diagnostic report.
type Result struct {
	State      State
	OutputPath string
	Report     *Report
}

// Render produces the output video for a finalized timeline. Per-slot asset
// problems are absorbed by substitution and reported; only conditions that
// make the entire output unusable return an error.
func (r *Renderer) Render(ctx context.Context, tl *timeline.Timeline, set *asset.Set, audioPath string, overlays []timeline.OverlayWindow) (*Result, error) {
	rep := NewReport()
	rep.AudioDuration = tl.AudioDuration
	res := &Result{State: StateAborted, Report: rep}
	rep.State = StateAborted

	if len(tl.Slots) == 0 {
		if set.Len() > 0 {
			return res, fmt.Errorf("пустой таймлайн при %d ассетах (нарушение контракта выше по конвейеру): %w", set.Len(), ErrRenderAborted)
		}
		// Нечего рендерить — считаем завершенным без артефакта.
		res.State = StateCompleted
		rep.State = StateCompleted
		return res, nil
	}

	if set.Len() != len(tl.Slots) {
		return res, fmt.Errorf("слотов %d, ассетов %d: %w", len(tl.Slots), set.Len(), ErrRenderAborted)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return res, fmt.Errorf("аудио недоступно: %v: %w", err, ErrRenderAborted)
	}
	if err := os.MkdirAll(filepath.Dir(r.Config.OutputVideo), 0755); err != nil {
		return res, fmt.Errorf("выходная директория недоступна: %v: %w", err, ErrRenderAborted)
	}

	tempDir, err := os.MkdirTemp("", "slideshow_")
	if err != nil {
		return res, fmt.Errorf("%v: %w", err, ErrRenderAborted)
	}
	defer os.RemoveAll(tempDir)

	frames, decodeErrs := r.decodeAll(ctx, set)
	r.substitute(frames, decodeErrs, rep)

	segments, err := r.encodeAll(ctx, tl, frames, tempDir)
	if err != nil {
		return res, fmt.Errorf("%v: %w", err, ErrRenderAborted)
	}

	overlayFilters := r.buildOverlays(overlays, rep)

	err = r.Encoder.Concatenate(ctx, ConcatSpec{
		SegmentPaths:   segments,
		AudioPath:      audioPath,
		FinalPath:      r.Config.OutputVideo,
		TmpDir:         tempDir,
		Timeline:       tl,
		OverlayFilters: overlayFilters,
		EncoderName:    r.Config.VideoEncoder,
		Quality:        r.Config.Quality,
	})
	if err != nil {
		return res, fmt.Errorf("%v: %w", err, ErrRenderAborted)
	}

	res.State = StateCompleted
	res.OutputPath = r.Config.OutputVideo
	rep.State = StateCompleted
	return res, nil
}

// decodeAll decodes assets concurrently, one bounded worker per slot. Every
// decode is capped by the configured timeout; a stuck asset becomes Corrupt
// instead of stalling the run.
func (r *Renderer) decodeAll(ctx context.Context, set *asset.Set) ([]*image.RGBA, []error) {
	n := set.Len()
	frames := make([]*image.RGBA, n)
	errs := make([]error, n)

	workers := r.Config.Workers
	if workers <= 0 {
		workers = system.DecideWorkers(r.Config.Width, r.Config.Height)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		a := set.At(i)
		g.Go(func() error {
			if a.Status != asset.StatusReady {
				errs[i] = &AssetUnavailableError{Slot: i, Reason: a.Status.String()}
				return nil
			}
			img, err := r.decodeOne(gctx, a.SourcePath)
			if err != nil {
				set.MarkCorrupt(i)
				errs[i] = &AssetUnavailableError{Slot: i, Reason: err.Error()}
				return nil
			}
			frames[i] = img
			return nil
		})
	}
	g.Wait()
	return frames, errs
}

func (r *Renderer) decodeOne(ctx context.Context, path string) (*image.RGBA, error) {
	timeout := r.Config.DecodeTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type decoded struct {
		img *image.RGBA
		err error
	}
	done := make(chan decoded, 1)
	go func() {
		f, err := os.Open(path)
		if err != nil {
			done <- decoded{nil, err}
			return
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			done <- decoded{nil, err}
			return
		}
		done <- decoded{ScaleToFit(img, r.Config.Width, r.Config.Height), nil}
	}()

	select {
	case d := <-done:
		return d.img, d.err
	case <-dctx.Done():
		return nil, fmt.Errorf("decode timeout after %s", timeout)
	}
}

// substitute fills failed slots with the last successfully decoded frame, or
// a solid frame when nothing decoded yet. Sequential by design: "last good"
// must not depend on decode completion order.
func (r *Renderer) substitute(frames []*image.RGBA, errs []error, rep *Report) {
	var lastGood *image.RGBA
	for i := range frames {
		if frames[i] != nil {
			lastGood = frames[i]
			continue
		}

		reason := "undecoded"
		if errs[i] != nil {
			reason = errs[i].Error()
		}
		source := "solid frame"
		if lastGood != nil {
			source = "last good asset"
			frames[i] = lastGood
		} else {
			frames[i] = SolidFrame(r.Config.Width, r.Config.Height, placeholderColor)
		}

		log.Printf("[!] Слот %d: подстановка (%s)", i, reason)
		rep.Substitutions = append(rep.Substitutions, Substitution{Slot: i, Reason: reason, Source: source})
	}
}

func (r *Renderer) encodeAll(ctx context.Context, tl *timeline.Timeline, frames []*image.RGBA, tempDir string) ([]string, error) {
	n := len(tl.Slots)
	segments := make([]string, n)

	workers := encodeWorkers
	if workers > n {
		workers = n
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		slot := tl.Slots[i]
		g.Go(func() error {
			segPath := filepath.Join(tempDir, fmt.Sprintf("s%03d.mp4", i))
			params := config.SegmentParams{
				Width:        r.Config.Width,
				Height:       r.Config.Height,
				FPS:          r.Config.FPS,
				Duration:     slot.Duration(),
				ZoomMode:     r.Config.ZoomMode,
				ZoomSpeed:    r.Config.ZoomSpeed,
				FadeDuration: r.Config.TransitionDuration,
				SlotIndex:    i,
			}
			filter := GenerateFilter(params)
			if err := r.Encoder.EncodeSegment(gctx, frames[i], segPath, filter, params, r.Config.VideoEncoder, r.Config.Quality); err != nil {
				return fmt.Errorf("сегмент %d: %w", i, err)
			}
			segments[i] = segPath
			fmt.Printf("[>] Готово: %d/%d\n", i+1, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

// buildOverlays converts overlay windows into drawtext filters. A failing
// overlay degrades to "skip this overlay"; the video itself never aborts
// because of text.
func (r *Renderer) buildOverlays(overlays []timeline.OverlayWindow, rep *Report) []string {
	if len(overlays) == 0 {
		return nil
	}
	if !system.CheckFilterSupport("drawtext") {
		for i := range overlays {
			rep.SkippedOverlays = append(rep.SkippedOverlays, SkippedOverlay{Index: i, Reason: "drawtext filter unavailable"})
		}
		log.Printf("[!] ffmpeg без drawtext: пропущено %d оверлеев", len(overlays))
		return nil
	}

	var filters []string
	for i, w := range overlays {
		f, err := BuildDrawtext(w)
		if err != nil {
			rep.SkippedOverlays = append(rep.SkippedOverlays, SkippedOverlay{Index: i, Reason: err.Error()})
			continue
		}
		filters = append(filters, f)
	}
	return filters
}
