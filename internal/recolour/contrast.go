package recolour

import (
	"fmt"
	"math"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

// Repair records one lightness adjustment made by the OverlapResolver.
type Repair struct {
	Top     string  `json:"top"`
	Bottom  string  `json:"bottom"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	TopL    float64 `json:"top_l"`
	BottomL float64 `json:"bottom_l"`
	TargetL float64 `json:"target_l"`
}

// OverlapResolver pushes apart the lightness of overlapping elements.
type OverlapResolver struct {
	// MinLightnessDiff is the L* gap required between an element and any
	// element it overlaps. Values above 100 force maximal separation.
	MinLightnessDiff float64
}

// Resolve runs one greedy pass over every element pair in sequence order.
// For overlapping pairs the later element is treated as the one on top and
// is the only one recoloured. A repair can reintroduce a conflict with a pair
// already visited; the pass does not iterate to a fixed point.
//
// The input assignment is not modified.
func (r OverlapResolver) Resolve(assignment Assignment, elements []scene.Element) (Assignment, []Repair, error) {
	threshold := r.MinLightnessDiff
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	adjusted := assignment.Clone()
	if adjusted == nil {
		adjusted = Assignment{}
	}

	var repairs []Repair
	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			bottom, top := elements[i], elements[j]
			if !scene.Overlaps(bottom, top) {
				continue
			}

			topHex, ok := adjusted[top.ID]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q", ErrUnassignedElement, top.ID)
			}
			bottomHex, ok := adjusted[bottom.ID]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q", ErrUnassignedElement, bottom.ID)
			}

			topL := EffectiveLightness(topHex, top.Fill)
			bottomL := EffectiveLightness(bottomHex, bottom.Fill)
			if math.Abs(topL-bottomL) >= threshold {
				continue
			}

			target := bottomL - threshold
			if topL <= bottomL {
				target = bottomL + threshold
			}
			target = math.Max(0, math.Min(100, target))

			topLab, _ := colour.HexToLab(topHex)
			topLab.L = target
			newHex := colour.LabToHex(topLab)

			adjusted[top.ID] = newHex
			repairs = append(repairs, Repair{
				Top:     top.ID,
				Bottom:  bottom.ID,
				From:    topHex,
				To:      newHex,
				TopL:    topL,
				BottomL: bottomL,
				TargetL: target,
			})
		}
	}

	return adjusted, repairs, nil
}

// AdjustColorsForContrast is Resolve without the repair log.
func AdjustColorsForContrast(assignment Assignment, elements []scene.Element, minLightnessDiff float64) (Assignment, error) {
	adjusted, _, err := OverlapResolver{MinLightnessDiff: minLightnessDiff}.Resolve(assignment, elements)
	return adjusted, err
}

// EffectiveLightness is the L* used for contrast decisions: the mean L* of
// a gradient fill's own stops, otherwise the L* of the assigned hex.
func EffectiveLightness(assigned string, fill scene.Fill) float64 {
	if fill.IsGradient() {
		return meanStopLightness(fill.Stops)
	}
	lab, _ := colour.HexToLab(assigned)
	return lab.L
}

func meanStopLightness(stops []scene.Stop) float64 {
	if len(stops) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stops {
		sum += stopLab(s).L
	}
	return sum / float64(len(stops))
}

// stopLab converts a stop's colour via its byte-quantized hex form.
func stopLab(s scene.Stop) colour.Lab {
	return colour.RGBToLab(s.Color.Quantize().Color())
}
