package recolour

import (
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

// Strategy selects how palette colours are matched to elements.
type Strategy string

const (
	// StrategyOrdered sorts the palette and assigns it round-robin in element order.
	StrategyOrdered Strategy = "ordered"
	// StrategyProximity gives each solid element its nearest palette colour.
	StrategyProximity Strategy = "proximity"
)

// ValidStrategies lists the accepted assignment strategies.
var ValidStrategies = []Strategy{StrategyOrdered, StrategyProximity}

// ParseStrategy validates an assignment strategy name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case StrategyOrdered, StrategyProximity:
		return s, nil
	case "":
		return StrategyOrdered, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (valid: ordered, proximity)", name)
	}
}

// DefaultMinLightnessDiff is the L* gap used when none is configured.
const DefaultMinLightnessDiff = 50

// Options configures a Pipeline.
type Options struct {
	Strategy         Strategy
	Gradient         GradientStrategy
	MinLightnessDiff float64
	// Contrast enables the overlap repair pass.
	Contrast bool
}

// DefaultOptions returns ordered assignment with structure-preserving
// gradients and contrast repair enabled.
func DefaultOptions() Options {
	return Options{
		Strategy:         StrategyOrdered,
		Gradient:         StructureStrategy{},
		MinLightnessDiff: DefaultMinLightnessDiff,
		Contrast:         true,
	}
}

// ElementResult is the final paint for one element.
type ElementResult struct {
	ID       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Original string     `json:"original,omitempty"` // representative colour before recolouring
	Hex      string     `json:"hex,omitempty"`
	Fill     scene.Fill `json:"fill"`
	Skipped  bool       `json:"skipped,omitempty"`
}

// Result is the outcome of recolouring a set of elements with one palette.
type Result struct {
	Label      string          `json:"label,omitempty"`
	Session    string          `json:"session"`
	Frame      string          `json:"frame,omitempty"`
	Strategy   Strategy        `json:"strategy"`
	Gradient   string          `json:"gradient_strategy"`
	Palette    colour.Palette  `json:"palette"`
	Assignment Assignment      `json:"assignment"`
	Repairs    []Repair        `json:"repairs,omitempty"`
	Mean       *colour.Color   `json:"mean,omitempty"`
	Elements   []ElementResult `json:"elements"`
}

// Pipeline chains assignment, contrast repair and fill expansion.
type Pipeline struct {
	opts   Options
	logger hclog.Logger
}

// NewPipeline validates opts and returns a pipeline. A nil logger discards output.
func NewPipeline(opts Options, logger hclog.Logger) (*Pipeline, error) {
	if opts.MinLightnessDiff < 0 || math.IsNaN(opts.MinLightnessDiff) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, opts.MinLightnessDiff)
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyOrdered
	}
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}
	if opts.Gradient == nil {
		opts.Gradient = StructureStrategy{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Pipeline{opts: opts, logger: logger}, nil
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run recolours elements with palette. Elements are in painter's order.
func (p *Pipeline) Run(session *Session, elements []scene.Element, palette colour.Palette) (*Result, error) {
	if session == nil {
		session = NewSession("")
	}
	logger := p.logger.With("session", session.ID.String(), "frame", session.Frame)

	result := &Result{
		Session:  session.ID.String(),
		Frame:    session.Frame,
		Strategy: p.opts.Strategy,
		Gradient: p.opts.Gradient.Name(),
	}

	var (
		assignment Assignment
		eligible   []scene.Element
		err        error
	)

	switch p.opts.Strategy {
	case StrategyProximity:
		var prox ProximityResult
		prox, err = AssignColorsBasedOnProximity(elements, palette)
		if err != nil {
			return nil, err
		}
		assignment = prox.Assignment
		result.Mean = &prox.Mean
		result.Palette = palette
		for _, el := range elements {
			if el.Fill.IsSolid() {
				eligible = append(eligible, el)
			}
		}
		logger.Debug("proximity assignment", "assigned", len(assignment), "skipped", len(prox.Skipped), "mean", prox.Mean.Hex())
	default:
		assignment, err = AssignColors(elements, palette)
		if err != nil {
			return nil, err
		}
		result.Palette = colour.SortByDistance(palette)
		eligible = elements
		logger.Debug("ordered assignment", "assigned", len(assignment), "palette", strings.Join(result.Palette, " "))
	}

	if p.opts.Contrast {
		var repairs []Repair
		assignment, repairs, err = OverlapResolver{MinLightnessDiff: p.opts.MinLightnessDiff}.Resolve(assignment, eligible)
		if err != nil {
			return nil, fmt.Errorf("contrast repair failed: %w", err)
		}
		result.Repairs = repairs
		for _, r := range repairs {
			logger.Debug("contrast repair", "top", r.Top, "bottom", r.Bottom, "from", r.From, "to", r.To)
		}
	}

	result.Assignment = assignment
	result.Elements = p.applyFills(elements, assignment)

	return result, nil
}

// RunAll recolours elements once per palette. Results are labelled
// "Palette Frame N" counting from 1, mirroring one cloned frame per palette.
func (p *Pipeline) RunAll(session *Session, elements []scene.Element, palettes []colour.Palette) ([]*Result, error) {
	if len(palettes) == 0 {
		return nil, ErrEmptyPalette
	}
	if session == nil {
		session = NewSession("")
	}

	results := make([]*Result, 0, len(palettes))
	for i, palette := range palettes {
		res, err := p.Run(session, elements, palette)
		if err != nil {
			return nil, fmt.Errorf("palette %d: %w", i+1, err)
		}
		res.Label = fmt.Sprintf("Palette Frame %d", i+1)
		results = append(results, res)
	}

	p.logger.Debug("recoloured frame", "session", session.ID.String(), "palettes", len(results))
	return results, nil
}

// applyFills expands each assigned hex into the element's final fill.
// Image fills, empty fills and unassigned elements are left untouched.
func (p *Pipeline) applyFills(elements []scene.Element, assignment Assignment) []ElementResult {
	out := make([]ElementResult, len(elements))
	for i, el := range elements {
		res := ElementResult{ID: el.ID, Name: el.Name, Fill: el.Fill}
		if el.Fill.IsSolid() || el.Fill.IsGradient() {
			res.Original = el.Fill.Representative().Hex()
		}

		hex, ok := assignment[el.ID]
		switch {
		case !ok:
			res.Skipped = true
		case el.Fill.IsSolid():
			c, _ := colour.HexToRGB(hex)
			res.Hex = hex
			res.Fill = scene.Solid(c)
		case el.Fill.IsGradient():
			res.Hex = hex
			res.Fill = scene.Gradient(el.Fill.GradientType, p.opts.Gradient.Recolor(el.Fill.Stops, hex)...)
		default:
			res.Hex = hex
			res.Skipped = true
		}

		out[i] = res
	}
	return out
}
