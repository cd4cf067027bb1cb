package render

import (
	"context"
	"fmt"
	"image"
	idraw "image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/timeline"
)

// Encoder renders one still into a timed video segment and merges segments,
// transitions, overlays and the audio track into the final artifact.
type Encoder interface {
	EncodeSegment(ctx context.Context, img image.Image, videoPath string, filter string, params config.SegmentParams, encoderName string, quality int) error
	Concatenate(ctx context.Context, spec ConcatSpec) error
}

// ConcatSpec describes the single-writer composition step.
type ConcatSpec struct {
	SegmentPaths   []string
	AudioPath      string
	FinalPath      string
	TmpDir         string
	Timeline       *timeline.Timeline
	OverlayFilters []string
	EncoderName    string
	Quality        int
}

type FFmpegEncoder struct{}

func (e *FFmpegEncoder) EncodeSegment(
	ctx context.Context,
	img image.Image,
	videoPath string,
	filter string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) error {
	inputW, inputH := img.Bounds().Dx(), img.Bounds().Dy()

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-i", "-",
		"-vf", filter,
		"-t", fmt.Sprintf("%f", params.Duration),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, videoPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Запись raw RGBA данных: один кадр, zoompan с d=N размножит его.
	if err := writeRawRGBA(stdin, img); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("write raw error: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}

	return nil
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, spec ConcatSpec) error {
	tl := spec.Timeline
	useXfade := len(tl.Transitions) > 0 && len(tl.Transitions) == len(spec.SegmentPaths)-1

	if !useXfade && spec.AudioPath == "" && len(spec.OverlayFilters) == 0 {
		return e.concatCopy(ctx, spec)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", concatArgs(spec)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade error: %v, output: %s", err, string(out))
	}
	return nil
}

// concatArgs assembles the single-writer composition command line.
func concatArgs(spec ConcatSpec) []string {
	tl := spec.Timeline
	useXfade := len(tl.Transitions) > 0 && len(tl.Transitions) == len(spec.SegmentPaths)-1

	args := []string{"-y"}
	for _, p := range spec.SegmentPaths {
		args = append(args, "-i", p)
	}

	audioIndex := -1
	if spec.AudioPath != "" {
		audioIndex = len(spec.SegmentPaths)
		args = append(args, "-i", spec.AudioPath)
	}

	filterGraph := ""
	lastOut := "[0:v]"

	if useXfade {
		for i, tr := range tl.Transitions {
			nextIn := fmt.Sprintf("[%d:v]", i+1)
			outName := fmt.Sprintf("[v%d]", i+1)
			filterGraph += fmt.Sprintf("%s%sxfade=transition=%s:duration=%f:offset=%f%s;",
				lastOut, nextIn, XfadeName(tr.Style), tr.Duration, tr.Start, outName)
			lastOut = outName
		}
	} else if len(spec.SegmentPaths) > 1 {
		concatInputs := ""
		for i := range spec.SegmentPaths {
			concatInputs += fmt.Sprintf("[%d:v]", i)
		}
		filterGraph += fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vconcat];", concatInputs, len(spec.SegmentPaths))
		lastOut = "[vconcat]"
	}

	if len(spec.OverlayFilters) > 0 {
		filterGraph += fmt.Sprintf("%s%s[vtext];", lastOut, strings.Join(spec.OverlayFilters, ","))
		lastOut = "[vtext]"
	}

	filterGraph = strings.TrimSuffix(filterGraph, ";")
	if filterGraph != "" {
		args = append(args, "-filter_complex", filterGraph)
	} else {
		// Один сегмент без переходов и оверлеев: метки [0:v] без
		// filter_complex не существует, маппим поток напрямую.
		lastOut = "0:v"
	}

	args = append(args, "-map", lastOut)
	if audioIndex != -1 {
		args = append(args, "-map", fmt.Sprintf("%d:a", audioIndex))
		args = append(args, "-c:a", "aac", "-shortest")
	}

	args = append(args, "-c:v", spec.EncoderName, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(spec.EncoderName, spec.Quality)...)
	return append(args, spec.FinalPath)
}

func (e *FFmpegEncoder) concatCopy(ctx context.Context, spec ConcatSpec) error {
	concatFilePath := filepath.Join(spec.TmpDir, "inputs.txt")
	f, err := os.Create(concatFilePath)
	if err != nil {
		return err
	}
	for _, p := range spec.SegmentPaths {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	if err := f.Close(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", concatFilePath,
		"-c", "copy", spec.FinalPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox не поддерживает -q:v на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(bounds)
		idraw.Draw(rgba, bounds, img, bounds.Min, idraw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
