package timeline

// MaxOverlapShare caps the transition overlap at 40% of the shorter of two
// adjacent slots, so every slot keeps a settled viewing period.
const MaxOverlapShare = 0.4

// Clamp records a per-pair transition reduction. It is a diagnostic, not an
// error: the schedule stays valid, just with a shorter transition.
type Clamp struct {
	Pair      int     `yaml:"pair"`
	Requested float64 `yaml:"requested"`
	Applied   float64 `yaml:"applied"`
}

// ApplyTransitions carves a symmetric overlap window around every boundary
// between adjacent display durations and returns the finalized timeline.
//
// Each neighbour is extended by overlap/2, so the rendered span still equals
// the audio duration: sum(slot durations) - sum(overlaps) == sum(durations).
func ApplyTransitions(durations []float64, transitionDuration float64, style TransitionStyle) (*Timeline, []Clamp) {
	total := 0.0
	for _, d := range durations {
		total += d
	}

	tl := &Timeline{AudioDuration: total}
	n := len(durations)
	if n == 0 {
		return tl, nil
	}

	if style == StyleCut || transitionDuration < 0 {
		transitionDuration = 0
	}

	var clamps []Clamp
	overlaps := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		shorter := durations[i]
		if durations[i+1] < shorter {
			shorter = durations[i+1]
		}
		limit := shorter * MaxOverlapShare

		ov := transitionDuration
		if ov > limit {
			ov = limit
			if transitionDuration > 0 {
				clamps = append(clamps, Clamp{Pair: i, Requested: transitionDuration, Applied: ov})
			}
		}
		overlaps[i] = ov
	}

	// Границы между слотами до расширения.
	bounds := make([]float64, n-1)
	acc := 0.0
	for i := 0; i < n-1; i++ {
		acc += durations[i]
		bounds[i] = acc
	}

	tl.Slots = make([]Slot, n)
	for i := 0; i < n; i++ {
		start := 0.0
		if i > 0 {
			start = bounds[i-1] - overlaps[i-1]/2
		}
		end := total
		if i < n-1 {
			end = bounds[i] + overlaps[i]/2
		}
		tl.Slots[i] = Slot{Index: i, Start: start, End: end}
	}

	for i, ov := range overlaps {
		if ov <= 0 {
			continue
		}
		tl.Transitions = append(tl.Transitions, TransitionWindow{
			From:     i,
			To:       i + 1,
			Start:    bounds[i] - ov/2,
			Duration: ov,
			Style:    style,
		})
	}

	return tl, clamps
}

// SettledDuration returns the portion of a slot not consumed by transition
// overlap on either side.
func (t *Timeline) SettledDuration(index int) float64 {
	settled := t.Slots[index].Duration()
	for _, tr := range t.Transitions {
		if tr.From == index || tr.To == index {
			settled -= tr.Duration
		}
	}
	return settled
}
