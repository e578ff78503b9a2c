package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/recolour/internal/recolour"
)

// strategyValue is a pflag.Value restricted to the assignment strategies.
type strategyValue recolour.Strategy

var _ pflag.Value = (*strategyValue)(nil)

func (s *strategyValue) String() string { return string(*s) }

func (s *strategyValue) Set(v string) error {
	parsed, err := recolour.ParseStrategy(v)
	if err != nil {
		return err
	}
	*s = strategyValue(parsed)
	return nil
}

func (s *strategyValue) Type() string { return "strategy" }

// gradientValue is a pflag.Value restricted to the gradient strategies.
type gradientValue string

var _ pflag.Value = (*gradientValue)(nil)

func (g *gradientValue) String() string { return string(*g) }

func (g *gradientValue) Set(v string) error {
	parsed, err := recolour.ParseGradientStrategy(v)
	if err != nil {
		return err
	}
	*g = gradientValue(parsed.Name())
	return nil
}

func (g *gradientValue) Type() string { return "gradient" }

// formatValue selects how results are printed.
type formatValue string

const (
	formatTable formatValue = "table"
	formatJSON  formatValue = "json"
)

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(v string) error {
	switch formatValue(strings.ToLower(v)) {
	case formatTable, formatJSON:
		*f = formatValue(strings.ToLower(v))
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: table, json)", v)
	}
}

func (f *formatValue) Type() string { return "format" }
