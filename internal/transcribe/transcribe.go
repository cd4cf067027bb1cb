package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcriber converts an audio track into plain text. A failing transcriber
// is tolerated upstream: the slideshow is still produced, with no overlays.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// WhisperCLI shells out to a local whisper-cli build.
type WhisperCLI struct {
	BinPath   string
	ModelPath string
	Language  string
}

func NewWhisperCLI(binPath, modelPath, language string) *WhisperCLI {
	return &WhisperCLI{BinPath: binPath, ModelPath: modelPath, Language: language}
}

func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outDir, err := os.MkdirTemp("", "slideshow_whisper_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, "transcript")
	args := []string{
		"-m", w.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-of", outBase,
	}
	if w.Language != "" {
		args = append(args, "-l", w.Language)
	}

	cmd := exec.CommandContext(ctx, w.BinPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper-cli error: %v, output: %s", err, string(out))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("transcript not produced: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
