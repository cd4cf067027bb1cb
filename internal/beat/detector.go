package beat

// Detector is the interface for beat detection strategies. A detector must
// be deterministic: identical samples always yield identical timestamps.
type Detector interface {
	Detect(samples []float64, sampleRate int) []float64
}
