package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/recolour"
	"github.com/jmylchreest/recolour/internal/scene"
	"github.com/jmylchreest/recolour/internal/source"
)

// assignFlags holds the assign command's own flags. Source flags live on
// the sources themselves.
type assignFlags struct {
	document         string
	sourceName       string
	count            int
	strategy         strategyValue
	gradient         gradientValue
	minLightnessDiff float64
	noContrast       bool
	output           string
	format           formatValue
	report           bool
}

func (a *app) assignCmd() *cobra.Command {
	f := &assignFlags{
		strategy: strategyValue(recolour.StrategyOrdered),
		gradient: gradientValue(recolour.GradientStructure),
		format:   formatTable,
	}

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Recolour a document's elements with one or more palettes",
		Long: `Recolour the elements of a document with palettes from a source.

Each palette produces one recoloured copy of the frame, labelled
"Palette Frame 1", "Palette Frame 2" and so on.

Examples:
  # Recolour with a palette given on the command line
  recolour assign --document frame.json --palette "#264653 #2a9d8f #e9c46a"

  # Match each element to its nearest colour instead of round-robin
  recolour assign --document frame.json --palette-file palettes.txt --strategy proximity

  # Ask the palette service for palettes inspired by an image
  recolour assign --document frame.json --source remote --remote.image wallpaper.jpg

  # Generate palettes from a prompt and write JSON results
  recolour assign --document frame.json --source genai --genai.prompt "autumn forest" --format json -o out.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAssign(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.document, "document", "d", "", "document with the frame's elements (JSON, optionally .gz/.xz/.bz2)")
	cmd.Flags().StringVarP(&f.sourceName, "source", "s", "literal", "palette source ("+strings.Join(a.registry.List(), ", ")+")")
	cmd.Flags().IntVarP(&f.count, "count", "c", 0, "colours requested per palette (0 lets the source decide)")
	cmd.Flags().Var(&f.strategy, "strategy", "assignment strategy (ordered, proximity)")
	cmd.Flags().Var(&f.gradient, "gradient", "gradient strategy (structure, blend)")
	cmd.Flags().Float64Var(&f.minLightnessDiff, "min-lightness-diff", recolour.DefaultMinLightnessDiff, "minimum L* difference between overlapping elements")
	cmd.Flags().BoolVar(&f.noContrast, "no-contrast", false, "skip the overlap contrast repair")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().VarP(&f.format, "format", "f", "output format (table, json)")
	cmd.Flags().BoolVar(&f.report, "report", false, "print a WCAG contrast report for every repair")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

// pipelineOptions merges configuration with the flags the user set.
func (a *app) pipelineOptions(cmd *cobra.Command, f *assignFlags) (recolour.Options, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return recolour.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		opts.Strategy = recolour.Strategy(f.strategy)
	}
	if flags.Changed("gradient") {
		if opts.Gradient, err = recolour.ParseGradientStrategy(string(f.gradient)); err != nil {
			return recolour.Options{}, err
		}
	}
	if flags.Changed("min-lightness-diff") {
		opts.MinLightnessDiff = f.minLightnessDiff
	}
	if f.noContrast {
		opts.Contrast = false
	}
	return opts, nil
}

// generatePalettes validates and runs the named source.
func (a *app) generatePalettes(cmd *cobra.Command, name string, count int) ([]colour.Palette, error) {
	src, ok := a.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(a.registry.List(), ", "))
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}

	a.logger.Debug("generating palettes", "source", name, "count", count)
	palettes, err := src.Generate(cmd.Context(), source.GenerateOptions{
		Count:  count,
		Logger: a.logger.Named(name),
	})
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}
	return palettes, nil
}

func (a *app) runAssign(cmd *cobra.Command, f *assignFlags) error {
	doc, err := scene.LoadDocument(f.document)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded document", "path", f.document, "frame", doc.Frame, "elements", len(doc.Elements))

	opts, err := a.pipelineOptions(cmd, f)
	if err != nil {
		return err
	}
	pipeline, err := recolour.NewPipeline(opts, a.logger.Named("pipeline"))
	if err != nil {
		return err
	}

	palettes, err := a.generatePalettes(cmd, f.sourceName, f.count)
	if err != nil {
		return err
	}

	session := recolour.NewSession(doc.Frame)
	results, err := pipeline.RunAll(session, doc.Elements, palettes)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, f.output)
	if err != nil {
		return err
	}
	defer closeOut()

	switch f.format {
	case formatJSON:
		return writeJSON(out, results)
	default:
		swatches := f.output == "" && a.isTerminal(out)
		for i, res := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, renderResult(res, swatches))
			if f.report {
				fmt.Fprint(out, renderRepairReport(res))
			}
		}
		return nil
	}
}

// openOutput returns the command's stdout, or a created file when path is set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path) // #nosec G304 - Output path is supplied by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// renderResult formats one recoloured frame as a table.
func renderResult(res *recolour.Result, swatches bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (strategy: %s, gradient: %s)\n", res.Label, res.Strategy, res.Gradient)
	fmt.Fprintf(&b, "Palette: %s\n", strings.Join(res.Palette, " "))
	if swatches {
		fmt.Fprintf(&b, "         %s\n", paletteSwatch(res.Palette))
	}
	if res.Mean != nil {
		fmt.Fprintf(&b, "Mean:    %s\n", res.Mean.Hex())
	}
	b.WriteString("\n")

	headers := []string{"ID", "NAME", "FILL", "WAS", "COLOUR"}
	if swatches {
		headers = append(headers, "")
	}
	table := NewTable(headers)
	table.SetColumnMaxWidth(1, 32)

	for _, el := range res.Elements {
		hex := el.Hex
		if el.Skipped {
			hex = "-"
		}
		was := el.Original
		if was == "" {
			was = "-"
		}
		row := []string{el.ID, el.Name, describeFill(el.Fill), was, hex}
		if swatches {
			row = append(row, fillSwatch(el.Fill))
		}
		table.AddRow(row)
	}
	b.WriteString(table.Render())

	if n := len(res.Repairs); n > 0 {
		fmt.Fprintf(&b, "\n%d contrast repair(s) applied\n", n)
	}
	return b.String()
}

// describeFill summarises a fill for the table.
func describeFill(f scene.Fill) string {
	switch f.Kind {
	case scene.FillSolid:
		return "solid"
	case scene.FillGradient:
		return fmt.Sprintf("%s gradient (%d stops)", f.GradientType, len(f.Stops))
	case scene.FillImage:
		return "image"
	default:
		return "none"
	}
}

// renderRepairReport lists every repair with the WCAG contrast ratio of
// the pair before and after.
func renderRepairReport(res *recolour.Result) string {
	if len(res.Repairs) == 0 {
		return "\nNo contrast repairs needed.\n"
	}

	table := NewTable([]string{"TOP", "BOTTOM", "FROM", "TO", "L* GAP", "WCAG BEFORE", "WCAG AFTER"})
	for _, r := range res.Repairs {
		bottom := res.Assignment[r.Bottom]
		table.AddRow([]string{
			r.Top,
			r.Bottom,
			r.From,
			r.To,
			fmt.Sprintf("%.1f", math.Abs(r.TargetL-r.BottomL)),
			fmt.Sprintf("%.2f:1", colour.HexContrastRatio(r.From, bottom)),
			fmt.Sprintf("%.2f:1", colour.HexContrastRatio(r.To, bottom)),
		})
	}
	return "\nContrast report:\n" + table.Render()
}
