package timeline

// ScheduleOverlays distributes cue texts evenly across the audio duration,
// independent of image timing. The same even-division-with-remainder-on-last
// rule as fixed allocation applies. No cues is a valid, empty schedule.
func ScheduleOverlays(cues []string, audioDuration float64) []OverlayWindow {
	n := len(cues)
	if n == 0 || audioDuration <= 0 {
		return nil
	}

	windows := make([]OverlayWindow, n)
	base := audioDuration / float64(n)
	for i, text := range cues {
		start := float64(i) * base
		end := start + base
		if i == n-1 {
			end = audioDuration
		}
		windows[i] = OverlayWindow{Text: text, Start: start, End: end}
	}
	return windows
}
