package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strings"
)

// DecodeSampleRate is the rate the track is resampled to for beat analysis.
// Mono 22.05 kHz is plenty for onset detection and keeps buffers small.
const DecodeSampleRate = 22050

// Duration returns the duration of an audio file in seconds via ffprobe.
func Duration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %v, output: %s", err, string(out))
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}
	return duration, nil
}

// DecodeSamples decodes a track to mono float64 PCM at DecodeSampleRate.
// ffmpeg -i input -ac 1 -ar 22050 -f s16le -
func DecodeSamples(ctx context.Context, path string) ([]float64, int, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", DecodeSampleRate),
		"-f", "s16le",
		"-",
	)

	raw, err := cmd.Output()
	if err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode error: %w", err)
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, DecodeSampleRate, nil
}
