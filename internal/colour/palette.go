// Package colour provides colour space conversion, palette parsing and
// perceptual palette ordering.
package colour

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrEmptyPalette is returned when an operation needs at least one palette colour.
var ErrEmptyPalette = errors.New("palette is empty")

// Palette is an ordered list of hex colours (e.g., ["#1a2b3c", "#4d5e6f"]).
type Palette []string

// RGB represents a byte-quantized sRGB colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Color returns the unit-scaled colour for the quantized value.
func (rgb RGB) Color() Color {
	return Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParsePalette validates and normalises a list of hex strings.
// Surrounding whitespace is trimmed and digits are lower-cased. Any malformed
// entry fails the whole palette rather than being dropped.
func ParsePalette(entries []string) (Palette, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPalette
	}

	palette := make(Palette, 0, len(entries))
	for i, entry := range entries {
		hex := strings.ToLower(strings.TrimSpace(entry))
		if !IsHex(hex) {
			return nil, fmt.Errorf("palette entry %d (%q): %w", i, entry, ErrInvalidColorFormat)
		}
		palette = append(palette, hex)
	}

	return palette, nil
}

// Len returns the number of colors in the palette.
func (p Palette) Len() int {
	return len(p)
}

// Colors converts the palette to unit-scaled colours.
// Malformed entries map to black.
func (p Palette) Colors() []Color {
	colors := make([]Color, len(p))
	for i, hex := range p {
		colors[i], _ = HexToRGB(hex)
	}
	return colors
}

// ColorJSON represents a color in JSON output format.
type ColorJSON struct {
	Hex string  `json:"hex"`
	RGB RGB     `json:"rgb"`
	Lab Lab     `json:"lab"`
	Gap float64 `json:"centroid_distance"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to JSON format, including each entry's LAB
// value and its distance from the palette centroid.
func (p Palette) ToJSON() ([]byte, error) {
	labs := p.labs()
	centroid := Centroid(labs)

	colors := make([]ColorJSON, len(p))
	for i, hex := range p {
		c, _ := HexToRGB(hex)
		colors[i] = ColorJSON{
			Hex: hex,
			RGB: c.Quantize(),
			Lab: labs[i],
			Gap: labs[i].Distance(centroid),
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:  len(p),
		Colors: colors,
	}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	if len(p) == 0 {
		return "Empty palette"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Palette with %d colors:\n", len(p))
	for i, hex := range p {
		c, _ := HexToRGB(hex)
		fmt.Fprintf(&b, "  %2d: %s (%s)\n", i+1, hex, c.Quantize().String())
	}
	return b.String()
}

func (p Palette) labs() []Lab {
	labs := make([]Lab, len(p))
	for i, hex := range p {
		labs[i], _ = HexToLab(hex)
	}
	return labs
}
