package colour

import (
	"cmp"
	"slices"
)

// Centroid returns the arithmetic mean of the given LAB colours.
// The sum is taken in a canonical order so the result does not depend on
// the order of labs. An empty slice yields the zero Lab.
func Centroid(labs []Lab) Lab {
	if len(labs) == 0 {
		return Lab{}
	}

	sorted := slices.Clone(labs)
	slices.SortFunc(sorted, func(a, b Lab) int {
		return cmp.Or(cmp.Compare(a.L, b.L), cmp.Compare(a.A, b.A), cmp.Compare(a.B, b.B))
	})

	var sum Lab
	for _, lab := range sorted {
		sum.L += lab.L
		sum.A += lab.A
		sum.B += lab.B
	}

	n := float64(len(sorted))
	return Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}
}

// SortByDistance orders the palette by ascending LAB distance from its own
// centroid. Colours near the palette's typical value come first and the
// most distinctive ones last. Equal distances keep their input order.
// The input slice is not modified.
func SortByDistance(palette Palette) Palette {
	type entry struct {
		hex      string
		distance float64
	}

	labs := palette.labs()
	centroid := Centroid(labs)

	entries := make([]entry, len(palette))
	for i, hex := range palette {
		entries[i] = entry{hex: hex, distance: labs[i].Distance(centroid)}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.distance, b.distance)
	})

	sorted := make(Palette, len(entries))
	for i, e := range entries {
		sorted[i] = e.hex
	}
	return sorted
}
