package analyzer

import (
	"fmt"
	"image/color"
)

// NewDetector creates a detector based on the specified variant. The ink
// detector compares against bg; the contrast detector ignores it.
func NewDetector(variant string, bg color.Color) (Detector, error) {
	switch variant {
	case "ink", "":
		return NewInkDetector(bg), nil
	case "contrast":
		return NewContrastDetector(), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
