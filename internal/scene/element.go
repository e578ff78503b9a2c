// Package scene describes the design elements handed over by the host:
// their geometry, their fills, and the documents that carry them.
package scene

// Bounds is an axis-aligned box in absolute canvas coordinates.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlaps reports whether b and other share any area.
// Boxes that only touch along an edge do not overlap.
func (b Bounds) Overlaps(other Bounds) bool {
	return !(b.X+b.Width <= other.X ||
		b.X >= other.X+other.Width ||
		b.Y+b.Height <= other.Y ||
		b.Y >= other.Y+other.Height)
}

// Element is a single recolourable design element.
type Element struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Bounds *Bounds `json:"bounds,omitempty"`
	Fill   Fill    `json:"fill"`
}

// Overlaps reports whether two elements overlap. An element without bounds
// never overlaps anything.
func Overlaps(a, b Element) bool {
	if a.Bounds == nil || b.Bounds == nil {
		return false
	}
	return a.Bounds.Overlaps(*b.Bounds)
}
