package recolour

import (
	"maps"
	"slices"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

// Assignment maps element ids to hex colours.
type Assignment map[string]string

// Clone returns a copy of the assignment.
func (a Assignment) Clone() Assignment {
	return maps.Clone(a)
}

// IDs returns the assigned element ids in sorted order.
func (a Assignment) IDs() []string {
	return slices.Sorted(maps.Keys(a))
}

// AssignColors orders palette by distance to its centroid and hands the
// sorted colours to elements in sequence, cycling once the palette runs out.
//
// An empty element list yields an empty assignment even for an empty palette.
func AssignColors(elements []scene.Element, palette colour.Palette) (Assignment, error) {
	assignment := make(Assignment, len(elements))
	if len(elements) == 0 {
		return assignment, nil
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if err := scene.ValidateElements(elements); err != nil {
		return nil, err
	}

	sorted := colour.SortByDistance(palette)
	for i, el := range elements {
		assignment[el.ID] = sorted[i%len(sorted)]
	}

	return assignment, nil
}
