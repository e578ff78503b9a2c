package scene

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/recolour/internal/colour"
)

// FillKind tags the variant held by a Fill.
type FillKind string

const (
	FillNone     FillKind = "none"
	FillSolid    FillKind = "solid"
	FillGradient FillKind = "gradient"
	FillImage    FillKind = "image"
)

// Stop is a single gradient colour stop.
type Stop struct {
	Position float64
	Color    colour.Color
	Alpha    float64
}

type stopColorJSON struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type stopJSON struct {
	Position float64       `json:"position"`
	Color    stopColorJSON `json:"color"`
}

// MarshalJSON encodes the stop with its alpha inside the colour object.
func (s Stop) MarshalJSON() ([]byte, error) {
	return json.Marshal(stopJSON{
		Position: s.Position,
		Color:    stopColorJSON{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Alpha},
	})
}

// UnmarshalJSON decodes a stop. A missing alpha means fully opaque.
func (s *Stop) UnmarshalJSON(data []byte) error {
	raw := stopJSON{Color: stopColorJSON{A: 1}}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Stop{
		Position: raw.Position,
		Color:    colour.Color{R: raw.Color.R, G: raw.Color.G, B: raw.Color.B},
		Alpha:    raw.Color.A,
	}
	return nil
}

// Fill is the paint applied to an element: exactly one of a solid colour,
// a gradient, an image, or nothing.
type Fill struct {
	Kind FillKind

	// Color is set for FillSolid.
	Color colour.Color

	// GradientType is carried through untouched (linear, radial, angular, diamond).
	GradientType string
	// Stops is set for FillGradient, in gradient order.
	Stops []Stop

	// ImageRef identifies the host's image for FillImage.
	ImageRef string
}

// Solid returns a solid fill.
func Solid(c colour.Color) Fill {
	return Fill{Kind: FillSolid, Color: c}
}

// Gradient returns a gradient fill.
func Gradient(gradientType string, stops ...Stop) Fill {
	return Fill{Kind: FillGradient, GradientType: gradientType, Stops: stops}
}

// Image returns an image fill.
func Image(ref string) Fill {
	return Fill{Kind: FillImage, ImageRef: ref}
}

// NoFill returns the empty fill.
func NoFill() Fill {
	return Fill{Kind: FillNone}
}

// IsSolid reports whether the fill is a solid colour.
func (f Fill) IsSolid() bool {
	return f.Kind == FillSolid
}

// IsGradient reports whether the fill is a gradient with at least one stop.
func (f Fill) IsGradient() bool {
	return f.Kind == FillGradient && len(f.Stops) > 0
}

// Representative returns the colour that best stands for the fill: the solid
// colour, else the first gradient stop, else black.
func (f Fill) Representative() colour.Color {
	switch {
	case f.IsSolid():
		return f.Color
	case f.IsGradient():
		return f.Stops[0].Color
	default:
		return colour.Black
	}
}

type fillJSON struct {
	Type         FillKind      `json:"type"`
	Color        *colour.Color `json:"color,omitempty"`
	GradientType string        `json:"gradient_type,omitempty"`
	Stops        []Stop        `json:"stops,omitempty"`
	ImageRef     string        `json:"image_ref,omitempty"`
}

// MarshalJSON encodes only the fields of the active variant.
func (f Fill) MarshalJSON() ([]byte, error) {
	out := fillJSON{Type: f.Kind}
	switch f.Kind {
	case FillSolid:
		c := f.Color
		out.Color = &c
	case FillGradient:
		out.GradientType = f.GradientType
		out.Stops = f.Stops
	case FillImage:
		out.ImageRef = f.ImageRef
	case "":
		out.Type = FillNone
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a fill, validating that the variant carries its data.
func (f *Fill) UnmarshalJSON(data []byte) error {
	var raw fillJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case FillSolid:
		if raw.Color == nil {
			return fmt.Errorf("solid fill requires a color")
		}
		*f = Solid(*raw.Color)
	case FillGradient:
		*f = Gradient(raw.GradientType, raw.Stops...)
	case FillImage:
		*f = Image(raw.ImageRef)
	case FillNone, "":
		*f = NoFill()
	default:
		return fmt.Errorf("unknown fill type: %q", raw.Type)
	}
	return nil
}
