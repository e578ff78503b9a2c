package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned when a string is not "#" followed by
// exactly six hex digits. It is recoverable: conversions that report it
// also return Black.
var ErrInvalidColorFormat = errors.New("invalid colour format")

// Color is an sRGB-encoded colour with each channel in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black is the fallback colour for unparseable hex strings.
var Black = Color{}

// IsHex reports whether s is "#" followed by exactly six hex digits.
func IsHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// HexToRGB parses a "#RRGGBB" string (either case).
// On malformed input it returns Black together with ErrInvalidColorFormat.
// RGBToHex(HexToRGB(h)) gives back h lower-cased, not byte for byte.
func HexToRGB(hex string) (Color, error) {
	if !IsHex(hex) {
		return Black, fmt.Errorf("%q: %w", hex, ErrInvalidColorFormat)
	}

	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return Black, fmt.Errorf("%q: %w", hex, ErrInvalidColorFormat)
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}.Color(), nil
}

// RGBToHex formats c as a lower-case "#rrggbb" string, so a round trip
// through HexToRGB normalises case.
func RGBToHex(c Color) string {
	return c.Quantize().Hex()
}

// Hex is shorthand for RGBToHex(c).
func (c Color) Hex() string {
	return RGBToHex(c)
}

// Quantize scales each channel to [0, 255], rounds to the nearest integer
// and clamps.
func (c Color) Quantize() RGB {
	return RGB{
		R: quantizeChannel(c.R),
		G: quantizeChannel(c.G),
		B: quantizeChannel(c.B),
	}
}

func quantizeChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(clamp(math.Round(v*255), 0, 255))
}

// DistanceRGB is the Euclidean distance between two colours in unit sRGB space.
func (c Color) DistanceRGB(other Color) float64 {
	return c.colorful().DistanceRgb(other.colorful())
}

// BlendRGB linearly interpolates each channel from c towards other; t=0
// yields c and t=1 yields other.
func (c Color) BlendRGB(other Color, t float64) Color {
	return fromColorful(c.colorful().BlendRgb(other.colorful(), t))
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
