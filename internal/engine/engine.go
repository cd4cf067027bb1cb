package engine

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fj223/music-slideshow-1/internal/asset"
	"github.com/fj223/music-slideshow-1/internal/audio"
	"github.com/fj223/music-slideshow-1/internal/beat"
	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/render"
	"github.com/fj223/music-slideshow-1/internal/timeline"
	"github.com/fj223/music-slideshow-1/internal/transcribe"
)

// Project is one slideshow run: a completed asset set, an audio track and
// the configuration record threaded through every stage. The timeline it
// builds is owned by the run and discarded after rendering.
type Project struct {
	Config   *config.Config
	Assets   *asset.Set
	Detector beat.Detector
	Renderer *render.Renderer
}

func NewProject(cfg *config.Config, set *asset.Set, det beat.Detector, r *render.Renderer) *Project {
	return &Project{Config: cfg, Assets: set, Detector: det, Renderer: r}
}

// Run builds the timeline (durations, transitions, overlays) and hands it to
// the renderer. Identical inputs produce an identical timeline: beat
// detection and rounding are deterministic.
func (p *Project) Run(ctx context.Context) (*render.Result, error) {
	startTime := time.Now()

	audioDuration, err := audio.Duration(p.Config.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения длительности аудио: %w", err)
	}

	set := p.Assets
	if p.Config.QRLink != "" {
		set, err = p.appendEndCard(set)
		if err != nil {
			log.Printf("[!] QR-слайд не добавлен: %v", err)
			set = p.Assets
		}
	}

	fmt.Println("--- [PROJECT: SLIDESHOW ENGINE] ---")
	fmt.Printf("[*] Аудио: %s | %.2fs | Ассетов: %d (готово %d)\n",
		p.Config.AudioPath, audioDuration, set.Len(), set.ReadyCount())
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Режим: %s\n",
		p.Config.Width, p.Config.Height, p.Config.FPS, p.Config.Mode)
	fmt.Println("-----------------------------------")

	durations, err := p.allocate(ctx, set.Len(), audioDuration)
	if err != nil {
		return nil, err
	}
	durations = timeline.AlignToFrames(durations, p.Config.FPS)

	tl, clamps := timeline.ApplyTransitions(durations, p.Config.TransitionDuration, p.transitionStyle())
	tl.AudioDuration = audioDuration
	for _, c := range clamps {
		fmt.Printf("[!] Переход %d уменьшен до %.2fs из-за короткого слота\n", c.Pair, c.Applied)
	}

	var overlays []timeline.OverlayWindow
	if p.Config.TextOverlay {
		overlays = timeline.ScheduleOverlays(p.cues(set), audioDuration)
	}

	if p.Config.TimelinePath != "" {
		doc := &timeline.Document{Version: "1.0", Timeline: tl, Overlays: overlays}
		if err := timeline.WriteTimeline(doc, p.Config.TimelinePath); err != nil {
			log.Printf("[!] Не удалось сохранить таймлайн: %v", err)
		}
	}

	result, err := p.Renderer.Render(ctx, tl, set, p.Config.AudioPath, overlays)
	if result != nil && result.Report != nil {
		result.Report.Clamps = clamps
		if p.Config.ReportPath != "" {
			if werr := result.Report.Write(p.Config.ReportPath); werr != nil {
				log.Printf("[!] Не удалось записать отчет: %v", werr)
			}
		}
	}
	if err != nil {
		return result, err
	}

	if p.Config.ShowStats {
		fmt.Printf("--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\nTotal Time: %.2fs\nSlots: %d\nSubstitutions: %d\n"+
			"----------------------------\n",
			p.Config.BuildVersion, time.Since(startTime).Seconds(),
			len(tl.Slots), len(result.Report.Substitutions))
	}
	return result, nil
}

func (p *Project) allocate(ctx context.Context, n int, audioDuration float64) ([]float64, error) {
	if p.Config.ImageDuration > 0 && n > 0 {
		// Фиксированная длительность кадра, масштабированная под аудио.
		durations := make([]float64, n)
		for i := range durations {
			durations[i] = p.Config.ImageDuration
		}
		scale := audioDuration / (p.Config.ImageDuration * float64(n))
		for i := range durations {
			durations[i] *= scale
		}
		return durations, nil
	}

	var beats []float64
	if p.Config.Mode == config.ModeBeatSync && n > 1 {
		samples, sampleRate, err := audio.DecodeSamples(ctx, p.Config.AudioPath)
		if err != nil {
			log.Printf("[!] Декодирование для анализа ритма не удалось (%v), режим fixed", err)
		} else {
			beats = p.Detector.Detect(samples, sampleRate)
			if len(beats) == 0 {
				fmt.Println("[*] Уверенных битов не найдено, режим fixed")
			} else {
				fmt.Printf("[*] Найдено битов: %d\n", len(beats))
			}
		}
	}

	return timeline.Allocate(n, audioDuration, p.Config.Mode, beats)
}

func (p *Project) transitionStyle() timeline.TransitionStyle {
	switch timeline.TransitionStyle(p.Config.TransitionStyle) {
	case timeline.StyleCut:
		return timeline.StyleCut
	case timeline.StyleSlide:
		return timeline.StyleSlide
	default:
		return timeline.StyleCrossfade
	}
}

func (p *Project) cues(set *asset.Set) []string {
	var cues []string
	for i := 0; i < set.Len(); i++ {
		if text := set.At(i).CueText; text != "" {
			cues = append(cues, text)
		}
	}
	return cues
}

// appendEndCard renders a QR code slide for the configured link and appends
// it as one more ready asset.
func (p *Project) appendEndCard(set *asset.Set) (*asset.Set, error) {
	img, err := render.QREndCard(p.Config.QRLink, p.Config.Width, p.Config.Height)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(filepath.Dir(p.Config.OutputVideo), "qr_endcard.png")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	assets := make([]asset.Asset, 0, set.Len()+1)
	for i := 0; i < set.Len(); i++ {
		assets = append(assets, set.At(i))
	}
	assets = append(assets, asset.Asset{
		Index:      set.Len(),
		SourcePath: path,
		CueText:    p.Config.QRLink,
		Status:     asset.StatusReady,
	})
	return asset.NewSet(assets), nil
}

// BuildAssets resolves every cue through the image generator before the
// composition core runs. Generation failures become Missing assets; the
// core itself never waits or polls.
func BuildAssets(ctx context.Context, cues []string, style string, gen transcribe.ImageGenerator) *asset.Set {
	assets := make([]asset.Asset, len(cues))
	for i, cueText := range cues {
		assets[i] = asset.Asset{Index: i, CueText: cueText, Status: asset.StatusMissing}

		prompt := cueText
		if style != "" {
			prompt = fmt.Sprintf("%s，%s，高清，8K", cueText, style)
		}
		path, err := gen.Generate(ctx, prompt)
		if err != nil {
			log.Printf("[!] Генерация изображения %d не удалась: %v", i, err)
			continue
		}
		assets[i].SourcePath = path
		assets[i].Status = asset.StatusReady
	}
	return asset.NewSet(assets)
}
