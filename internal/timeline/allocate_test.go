package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/fj223/music-slideshow-1/internal/config"
)

func TestAllocateFixed(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		duration float64
		want     []float64
	}{
		{"three_even", 3, 9.0, []float64{3.0, 3.0, 3.0}},
		{"four_even", 4, 10.0, []float64{2.5, 2.5, 2.5, 2.5}},
		{"single", 1, 7.5, []float64{7.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(tt.n, tt.duration, config.ModeFixed, nil)
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d durations, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > Tolerance {
					t.Errorf("Duration %d: expected %f, got %f", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestAllocateFixedSumProperty(t *testing.T) {
	// Для любых N >= 1 и D >= 0: ровно N неотрицательных длительностей с
	// точной суммой D.
	for n := 1; n <= 37; n++ {
		for _, d := range []float64{0.001, 1.0, 9.99, 61.7, 3600.0} {
			durations, err := Allocate(n, d, config.ModeFixed, nil)
			if err != nil {
				t.Fatalf("n=%d d=%f: %v", n, d, err)
			}
			if len(durations) != n {
				t.Fatalf("n=%d d=%f: got %d durations", n, d, len(durations))
			}
			sum := 0.0
			for i, dur := range durations {
				if dur < 0 {
					t.Errorf("n=%d d=%f: negative duration at %d: %f", n, d, i, dur)
				}
				sum += dur
			}
			if math.Abs(sum-d) > Tolerance {
				t.Errorf("n=%d d=%f: sum %f off by %f", n, d, sum, math.Abs(sum-d))
			}
		}
	}
}

func TestAllocateBeatSyncSelection(t *testing.T) {
	// 5 битов, 3 слота: индексы round(b*5/2) для b=1,2 с зажимом в диапазон
	// дают биты 3 и 4, то есть разрезы на 7.0s и 9.0s.
	beats := []float64{1.0, 4.0, 4.5, 7.0, 9.0}
	durations, err := Allocate(3, 10.0, config.ModeBeatSync, beats)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	want := []float64{7.0, 2.0, 1.0}
	for i := range want {
		if math.Abs(durations[i]-want[i]) > Tolerance {
			t.Errorf("Duration %d: expected %f, got %f", i, want[i], durations[i])
		}
	}
}

func TestAllocateBeatSyncExactBeatCount(t *testing.T) {
	// B == N-1: используются все биты.
	beats := []float64{2.0, 5.0}
	durations, err := Allocate(3, 10.0, config.ModeBeatSync, beats)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	want := []float64{2.0, 3.0, 5.0}
	for i := range want {
		if math.Abs(durations[i]-want[i]) > Tolerance {
			t.Errorf("Duration %d: expected %f, got %f", i, want[i], durations[i])
		}
	}
}

func TestAllocateBeatSyncFewBeats(t *testing.T) {
	// B < N-1: недостающие разрезы добавляются делением самого широкого
	// интервала пополам.
	beats := []float64{5.0}
	durations, err := Allocate(4, 10.0, config.ModeBeatSync, beats)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	want := []float64{2.5, 2.5, 2.5, 2.5}
	if len(durations) != len(want) {
		t.Fatalf("Expected %d durations, got %d", len(want), len(durations))
	}
	for i := range want {
		if math.Abs(durations[i]-want[i]) > Tolerance {
			t.Errorf("Duration %d: expected %f, got %f", i, want[i], durations[i])
		}
	}
}

func TestAllocateEmptyBeatTrackEqualsFixed(t *testing.T) {
	for n := 1; n <= 9; n++ {
		fixed, err := Allocate(n, 33.3, config.ModeFixed, nil)
		if err != nil {
			t.Fatalf("fixed: %v", err)
		}
		synced, err := Allocate(n, 33.3, config.ModeBeatSync, nil)
		if err != nil {
			t.Fatalf("beat-sync: %v", err)
		}
		for i := range fixed {
			if fixed[i] != synced[i] {
				t.Errorf("n=%d slot %d: fixed %v != beat-sync %v", n, i, fixed[i], synced[i])
			}
		}
	}
}

func TestAllocateEmptySchedule(t *testing.T) {
	for _, tt := range []struct {
		n int
		d float64
	}{{0, 10.0}, {5, 0.0}, {0, 0.0}} {
		durations, err := Allocate(tt.n, tt.d, config.ModeFixed, nil)
		if err != nil {
			t.Errorf("n=%d d=%f: unexpected error %v", tt.n, tt.d, err)
		}
		if len(durations) != 0 {
			t.Errorf("n=%d d=%f: expected empty schedule, got %v", tt.n, tt.d, durations)
		}
	}
}

func TestAllocateInvalidInput(t *testing.T) {
	for _, tt := range []struct {
		n int
		d float64
	}{{-1, 10.0}, {3, -0.5}} {
		_, err := Allocate(tt.n, tt.d, config.ModeFixed, nil)
		if !errors.Is(err, ErrInvalidAllocation) {
			t.Errorf("n=%d d=%f: expected ErrInvalidAllocation, got %v", tt.n, tt.d, err)
		}
	}
}

func TestAlignToFrames(t *testing.T) {
	durations := []float64{3.337, 2.001, 4.662}
	aligned := AlignToFrames(durations, 24)

	sumBefore := 0.0
	for _, d := range durations {
		sumBefore += d
	}
	sumAfter := 0.0
	for i, d := range aligned {
		sumAfter += d
		if i < len(aligned)-1 {
			frames := d * 24
			if math.Abs(frames-math.Round(frames)) > 1e-9 {
				t.Errorf("Duration %d not frame-aligned: %f", i, d)
			}
		}
	}
	if math.Abs(sumBefore-sumAfter) > 1e-9 {
		t.Errorf("Alignment changed the sum: %f -> %f", sumBefore, sumAfter)
	}
}

func TestAlignToFramesNeverNegative(t *testing.T) {
	// Много слотов ровно по полкадра над целым числом кадров: округления
	// дрейфуют в одну сторону, и суммарный излишек превышает последний слот.
	durations := make([]float64, 50)
	for i := 0; i < 49; i++ {
		durations[i] = 12.5 / 24.0
	}
	durations[49] = 0.5

	total := 0.0
	for _, d := range durations {
		total += d
	}

	aligned := AlignToFrames(durations, 24)

	sum := 0.0
	for i, d := range aligned {
		if d < 0 {
			t.Errorf("Slot %d: negative duration %f", i, d)
		}
		sum += d
	}
	if math.Abs(sum-total) > Tolerance {
		t.Errorf("Alignment changed the sum: %f -> %f", total, sum)
	}

	// Кадровое выравнивание всех слотов, кроме последнего, сохраняется и
	// после возврата кадров.
	for i := 0; i < len(aligned)-1; i++ {
		frames := aligned[i] * 24
		if math.Abs(frames-math.Round(frames)) > 1e-6 {
			t.Errorf("Slot %d not frame-aligned after redistribution: %f", i, aligned[i])
		}
	}
}
