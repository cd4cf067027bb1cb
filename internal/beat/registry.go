package beat

import "fmt"

// NewDetector creates a detector based on the specified variant.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "energy", "":
		return NewEnergyFluxDetector(), nil
	case "spectral":
		return nil, fmt.Errorf("spectral flux detector not yet implemented")
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
