// Package literal provides a palette source for colours given directly on
// the command line or in a local file.
package literal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/source"
)

// Source implements source.Source for literal palettes.
type Source struct {
	palettes []string
	file     string
}

// New creates a literal source.
func New() *Source {
	return &Source{}
}

// NewFromPalettes creates a literal source with palettes preset, one
// whitespace- or comma-separated list per entry.
func NewFromPalettes(palettes ...string) *Source {
	return &Source{palettes: palettes}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "literal"
}

// Description returns the source description.
func (s *Source) Description() string {
	return "Use palettes given with --palette or read from --palette-file"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Source) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&s.palettes, "palette", nil, "Palette as hex colours separated by spaces or commas (repeat for several palettes)")
	cmd.Flags().StringVar(&s.file, "palette-file", "", "File with one palette per line, or a JSON array of palettes")
}

// Validate checks that at least one palette was supplied.
func (s *Source) Validate() error {
	if len(s.palettes) == 0 && s.file == "" {
		return fmt.Errorf("--palette or --palette-file is required")
	}
	return nil
}

// Generate parses the configured palettes.
func (s *Source) Generate(_ context.Context, opts source.GenerateOptions) ([]colour.Palette, error) {
	var raw [][]string
	for _, p := range s.palettes {
		raw = append(raw, source.SplitHexList(p))
	}

	if s.file != "" {
		fromFile, err := readPaletteFile(s.file)
		if err != nil {
			return nil, err
		}
		raw = append(raw, fromFile...)
	}

	palettes, err := source.NormalisePalettes(raw)
	if err != nil {
		return nil, err
	}
	opts.Log().Debug("literal palettes", "count", len(palettes))
	return palettes, nil
}

// readPaletteFile accepts either a JSON document (a single palette, a list
// of palettes, or the palette service's {"color_palettes": ...} shape) or
// plain text with one palette per line.
func readPaletteFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified palette file
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if strings.EqualFold(filepath.Ext(path), ".json") || (len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')) {
		return parseJSONPalettes(trimmed)
	}

	var raw [][]string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		raw = append(raw, source.SplitHexList(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}
	return raw, nil
}

func parseJSONPalettes(data []byte) ([][]string, error) {
	var nested [][]string
	if err := json.Unmarshal(data, &nested); err == nil {
		return nested, nil
	}

	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		return [][]string{flat}, nil
	}

	var wrapped struct {
		ColorPalettes [][]string `json:"color_palettes"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.ColorPalettes != nil {
		return wrapped.ColorPalettes, nil
	}

	return nil, fmt.Errorf("%w: unrecognised palette JSON", source.ErrMalformedPalette)
}
