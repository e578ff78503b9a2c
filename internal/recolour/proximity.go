package recolour

import (
	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

// ProximityResult is the outcome of AssignColorsBasedOnProximity.
type ProximityResult struct {
	Assignment Assignment `json:"assignment"`
	// Mean is the average colour of the eligible elements. It is reported
	// but not used for matching.
	Mean colour.Color `json:"mean"`
	// Skipped lists elements without a solid fill, in input order.
	Skipped []string `json:"skipped,omitempty"`
}

// FindClosestColor returns the palette entry nearest to c by Euclidean
// distance in sRGB, together with its index. The earliest entry wins ties.
func FindClosestColor(c colour.Color, palette colour.Palette) (string, int, error) {
	if len(palette) == 0 {
		return "", -1, ErrEmptyPalette
	}

	best := -1
	var bestDist float64
	for i, hex := range palette {
		candidate, _ := colour.HexToRGB(hex)
		d := c.DistanceRGB(candidate)
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return palette[best], best, nil
}

// AverageColor returns the channel-wise mean of the solid fills among
// elements, or black when there are none.
func AverageColor(elements []scene.Element) colour.Color {
	var sum colour.Color
	var n int
	for _, el := range elements {
		if !el.Fill.IsSolid() {
			continue
		}
		sum.R += el.Fill.Color.R
		sum.G += el.Fill.Color.G
		sum.B += el.Fill.Color.B
		n++
	}
	if n == 0 {
		return colour.Black
	}
	return colour.Color{R: sum.R / float64(n), G: sum.G / float64(n), B: sum.B / float64(n)}
}

// AssignColorsBasedOnProximity gives every solid-filled element the palette
// entry closest to its own current colour. Other elements are skipped.
func AssignColorsBasedOnProximity(elements []scene.Element, palette colour.Palette) (ProximityResult, error) {
	result := ProximityResult{
		Assignment: make(Assignment, len(elements)),
		Mean:       AverageColor(elements),
	}
	if err := scene.ValidateElements(elements); err != nil {
		return ProximityResult{}, err
	}

	for _, el := range elements {
		if !el.Fill.IsSolid() {
			result.Skipped = append(result.Skipped, el.ID)
			continue
		}
		hex, _, err := FindClosestColor(el.Fill.Color, palette)
		if err != nil {
			return ProximityResult{}, err
		}
		result.Assignment[el.ID] = hex
	}

	return result, nil
}
