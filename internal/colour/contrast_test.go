package colour

import (
	"math"
	"testing"
)

func TestHexContrastRatio(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		want   float64
		margin float64
	}{
		{name: "black on white", a: "#000000", b: "#ffffff", want: 21, margin: 0.01},
		{name: "order does not matter", a: "#ffffff", b: "#000000", want: 21, margin: 0.01},
		{name: "same colour", a: "#808080", b: "#808080", want: 1, margin: 0},
		{name: "mid grey on white", a: "#767676", b: "#ffffff", want: 4.54, margin: 0.02},
		{name: "malformed is black", a: "nope", b: "#ffffff", want: 21, margin: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HexContrastRatio(tt.a, tt.b); math.Abs(got-tt.want) > tt.margin {
				t.Errorf("HexContrastRatio(%s, %s) = %.3f, want %.2f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRelativeLuminance(t *testing.T) {
	if got := Black.RelativeLuminance(); got != 0 {
		t.Errorf("Black.RelativeLuminance() = %v, want 0", got)
	}
	if got := (Color{R: 1, G: 1, B: 1}).RelativeLuminance(); math.Abs(got-1) > 1e-9 {
		t.Errorf("white RelativeLuminance() = %v, want 1", got)
	}

	// Green dominates perceived brightness.
	green := Color{G: 1}.RelativeLuminance()
	red := Color{R: 1}.RelativeLuminance()
	if green <= red {
		t.Errorf("green luminance %v not above red %v", green, red)
	}
}
