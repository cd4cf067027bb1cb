package timeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/fj223/music-slideshow-1/internal/config"
)

// Allocate computes per-asset display durations summing to audioDuration.
//
// In fixed mode every asset gets audioDuration/n and the final asset absorbs
// the rounding remainder. In beat-sync mode slot boundaries snap to beat
// timestamps; an empty beat track degrades to fixed mode.
func Allocate(n int, audioDuration float64, mode config.ScheduleMode, beats []float64) ([]float64, error) {
	if n < 0 || audioDuration < 0 {
		return nil, fmt.Errorf("n=%d, duration=%.3f: %w", n, audioDuration, ErrInvalidAllocation)
	}
	if n == 0 || audioDuration == 0 {
		// Нечего рендерить — это не ошибка.
		return nil, nil
	}

	if mode == config.ModeBeatSync && len(beats) > 0 && n > 1 {
		return allocateByBeats(n, audioDuration, beats), nil
	}
	return allocateFixed(n, audioDuration), nil
}

func allocateFixed(n int, audioDuration float64) []float64 {
	durations := make([]float64, n)
	base := audioDuration / float64(n)
	for i := 0; i < n-1; i++ {
		durations[i] = base
	}
	// Последний слот забирает остаток округления, чтобы сумма была точной.
	durations[n-1] = audioDuration - base*float64(n-1)
	return durations
}

func allocateByBeats(n int, audioDuration float64, beats []float64) []float64 {
	cuts := selectCuts(beats, n-1, audioDuration)

	durations := make([]float64, n)
	prev := 0.0
	for i, c := range cuts {
		durations[i] = c - prev
		prev = c
	}
	durations[n-1] = audioDuration - prev
	return durations
}

// selectCuts picks exactly `need` interior cut points from the beat track.
//
// With more beats than needed, beats are chosen by even spacing over the
// beat index: round(b*B/need) for b in 1..need, clamped into range and made
// strictly increasing. With fewer beats, the widest interval of the boundary
// set {0, cuts..., D} is repeatedly split at its midpoint until enough cuts
// exist. Both paths are deterministic.
func selectCuts(beats []float64, need int, audioDuration float64) []float64 {
	if need <= 0 {
		return nil
	}

	b := len(beats)
	if b >= need {
		idx := make([]int, need)
		for k := 1; k <= need; k++ {
			i := int(math.Round(float64(k) * float64(b) / float64(need)))
			if i > b-1 {
				i = b - 1
			}
			idx[k-1] = i
		}
		// Обратный проход гарантирует строгую монотонность без дубликатов.
		for k := need - 2; k >= 0; k-- {
			if idx[k] >= idx[k+1] {
				idx[k] = idx[k+1] - 1
			}
		}
		cuts := make([]float64, need)
		for k, i := range idx {
			cuts[k] = beats[i]
		}
		return cuts
	}

	cuts := make([]float64, b, need)
	copy(cuts, beats)
	for len(cuts) < need {
		cuts = append(cuts, widestGapMidpoint(cuts, audioDuration))
		sort.Float64s(cuts)
	}
	return cuts
}

func widestGapMidpoint(cuts []float64, audioDuration float64) float64 {
	bounds := make([]float64, 0, len(cuts)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, cuts...)
	bounds = append(bounds, audioDuration)

	bestGap := -1.0
	mid := audioDuration / 2
	for i := 0; i < len(bounds)-1; i++ {
		gap := bounds[i+1] - bounds[i]
		if gap > bestGap {
			bestGap = gap
			mid = bounds[i] + gap/2
		}
	}
	return mid
}

// AlignToFrames rounds every duration to a whole number of frames and lets
// the final slot absorb the residue, keeping the sum intact. xfade offsets
// drift otherwise.
func AlignToFrames(durations []float64, fps int) []float64 {
	if len(durations) == 0 || fps <= 0 {
		return durations
	}
	total := 0.0
	for _, d := range durations {
		total += d
	}

	aligned := make([]float64, len(durations))
	sum := 0.0
	for i, d := range durations[:len(durations)-1] {
		aligned[i] = math.Round(d*float64(fps)) / float64(fps)
		sum += aligned[i]
	}

	// Последний слот забирает остаток округления. Если округления сдвинулись
	// в одну сторону сильнее, чем он вмещает, возвращаем кадры предыдущим
	// слотам, не опустошая их полностью.
	frame := 1.0 / float64(fps)
	last := total - sum
	for i := len(aligned) - 2; i >= 0 && last < 0; i-- {
		for last < 0 && aligned[i] > frame {
			aligned[i] -= frame
			last += frame
		}
	}
	if last < 0 {
		last = 0
	}
	aligned[len(durations)-1] = last
	return aligned
}
