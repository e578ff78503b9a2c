package colour

import (
	"math"
)

// D65 reference white.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883
)

// labEpsilon is the threshold between the cube-root and linear segments
// of the CIELAB companding function.
const labEpsilon = 0.008856

// Lab is a CIELAB colour. L is nominally [0, 100]; A and B are unbounded.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Distance is the Euclidean distance between two LAB colours.
func (l Lab) Distance(other Lab) float64 {
	dl := l.L - other.L
	da := l.A - other.A
	db := l.B - other.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// RGBToLab converts an sRGB colour to CIELAB under D65.
func RGBToLab(c Color) Lab {
	r := srgbToLinear(c.R)
	g := srgbToLinear(c.G)
	b := srgbToLinear(c.B)

	x := (r*0.4124 + g*0.3576 + b*0.1805) / whiteX
	y := (r*0.2126 + g*0.7152 + b*0.0722) / whiteY
	z := (r*0.0193 + g*0.1192 + b*0.9505) / whiteZ

	fx, fy, fz := labCompand(x), labCompand(y), labCompand(z)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToRGB converts a CIELAB colour back to sRGB. Each channel is rounded
// to a byte and clamped, so out-of-gamut input is pulled onto the gamut edge.
func LabToRGB(lab Lab) Color {
	fy := (lab.L + 16) / 116
	fx := lab.A/500 + fy
	fz := fy - lab.B/200

	x := labExpand(fx) * whiteX
	y := labExpand(fy) * whiteY
	z := labExpand(fz) * whiteZ

	r := x*3.2406 + y*-1.5372 + z*-0.4986
	g := x*-0.9689 + y*1.8758 + z*0.0415
	b := x*0.0557 + y*-0.2040 + z*1.0570

	return Color{
		R: linearToSRGB(r),
		G: linearToSRGB(g),
		B: linearToSRGB(b),
	}.Quantize().Color()
}

// HexToLab parses hex and converts it to CIELAB. Malformed input converts
// as black and returns ErrInvalidColorFormat.
func HexToLab(hex string) (Lab, error) {
	c, err := HexToRGB(hex)
	return RGBToLab(c), err
}

// LabToHex converts a CIELAB colour to a "#rrggbb" string.
func LabToHex(lab Lab) string {
	return LabToRGB(lab).Hex()
}

func srgbToLinear(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func labCompand(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

func labExpand(t float64) float64 {
	t3 := t * t * t
	if t3 > labEpsilon {
		return t3
	}
	return (t - 16.0/116.0) / 7.787
}
