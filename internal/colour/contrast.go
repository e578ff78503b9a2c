package colour

// RelativeLuminance returns the WCAG 2.x relative luminance of c, from 0
// for black to 1 for white. Channels are quantized to bytes first, matching
// what a renderer displays.
// https://www.w3.org/TR/WCAG21/#dfn-relative-luminance
func (c Color) RelativeLuminance() float64 {
	q := c.Quantize().Color()
	return 0.2126*srgbToLinear(q.R) + 0.7152*srgbToLinear(q.G) + 0.0722*srgbToLinear(q.B)
}

// ContrastRatio returns the WCAG contrast ratio between a and b, from 1 (no
// contrast) to 21 (black on white). Order does not matter. AA requires 4.5
// for body text and 3 for large text.
func ContrastRatio(a, b Color) float64 {
	la, lb := a.RelativeLuminance(), b.RelativeLuminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// HexContrastRatio is ContrastRatio for two hex strings.
// Malformed input is treated as black.
func HexContrastRatio(hex1, hex2 string) float64 {
	a, _ := HexToRGB(hex1)
	b, _ := HexToRGB(hex2)
	return ContrastRatio(a, b)
}
