package recolour

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

// GradientStrategy turns a single target colour into a full set of gradient stops.
type GradientStrategy interface {
	// Name returns the identifier used in configuration and on the command line.
	Name() string

	// Recolor returns new stops for target. Positions and alphas are copied
	// from the original stops; the input slice is not modified.
	Recolor(stops []scene.Stop, target string) []scene.Stop
}

const (
	GradientStructure = "structure"
	GradientBlend     = "blend"
)

// ValidGradientStrategies lists the accepted strategy names.
var ValidGradientStrategies = []string{GradientStructure, GradientBlend}

// ParseGradientStrategy returns the strategy with the given name.
func ParseGradientStrategy(name string) (GradientStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case GradientStructure, "":
		return StructureStrategy{}, nil
	case GradientBlend:
		return BlendStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown gradient strategy %q (valid: %s)", name, strings.Join(ValidGradientStrategies, ", "))
	}
}

// StructureStrategy keeps the gradient's lightness ramp and replaces its hue.
type StructureStrategy struct{}

// Name implements GradientStrategy.
func (StructureStrategy) Name() string { return GradientStructure }

// Recolor implements GradientStrategy.
func (StructureStrategy) Recolor(stops []scene.Stop, target string) []scene.Stop {
	return ApplyGradientStructureToColor(stops, target)
}

// BlendStrategy mixes each stop towards the target by its own position.
type BlendStrategy struct{}

// Name implements GradientStrategy.
func (BlendStrategy) Name() string { return GradientBlend }

// Recolor implements GradientStrategy.
func (BlendStrategy) Recolor(stops []scene.Stop, target string) []scene.Stop {
	targetColor, _ := colour.HexToRGB(target)

	out := make([]scene.Stop, len(stops))
	for i, s := range stops {
		out[i] = scene.Stop{
			Position: s.Position,
			Color:    BlendColors(s.Color, targetColor, s.Position),
			Alpha:    s.Alpha,
		}
	}
	return out
}

// ApplyGradientStructureToColor rebuilds stops around target. Every new stop
// takes target's a* and b*; its L* is target's L* offset by the original
// stop's deviation from the original mean L*. Results are clamped into sRGB.
//
// A malformed target converts as black.
func ApplyGradientStructureToColor(stops []scene.Stop, target string) []scene.Stop {
	if len(stops) == 0 {
		return []scene.Stop{}
	}

	base, _ := colour.HexToLab(target)

	labs := make([]colour.Lab, len(stops))
	var sum float64
	for i, s := range stops {
		labs[i] = stopLab(s)
		sum += labs[i].L
	}
	mean := sum / float64(len(stops))

	out := make([]scene.Stop, len(stops))
	for i, s := range stops {
		adjusted := colour.Lab{
			L: base.L + (labs[i].L - mean),
			A: base.A,
			B: base.B,
		}
		out[i] = scene.Stop{
			Position: s.Position,
			Color:    colour.LabToRGB(adjusted),
			Alpha:    s.Alpha,
		}
	}
	return out
}

// BlendColors interpolates each channel from original towards target, using
// position as the weight: 0 keeps original, 1 yields target. Alpha is the
// caller's concern.
func BlendColors(original, target colour.Color, position float64) colour.Color {
	return original.BlendRGB(target, position)
}
