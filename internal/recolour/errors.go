// Package recolour assigns palette colours to design elements, repairs
// lightness contrast between overlapping elements and recolours gradients.
//
// Everything except Pipeline is a pure function over its arguments.
package recolour

import (
	"errors"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

var (
	// ErrEmptyPalette is returned when elements need colours but the palette has none.
	ErrEmptyPalette = colour.ErrEmptyPalette

	// ErrUnassignedElement signals an element missing from an Assignment that
	// should cover it. It indicates a bug in the caller, not bad user input.
	ErrUnassignedElement = errors.New("element has no assigned colour")

	// ErrInvalidThreshold is returned for a negative or NaN lightness threshold.
	ErrInvalidThreshold = errors.New("invalid minimum lightness difference")

	// ErrDuplicateElement is returned when two elements share an id.
	ErrDuplicateElement = scene.ErrDuplicateElement

	// ErrMissingElementID is returned when an element has an empty id.
	ErrMissingElementID = scene.ErrMissingElementID
)
