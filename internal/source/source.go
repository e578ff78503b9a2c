// Package source defines palette sources: the collaborators that produce
// palettes before any recolouring happens.
package source

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
)

var (
	// ErrEmptyPalette is returned when a source produced no colours at all.
	ErrEmptyPalette = colour.ErrEmptyPalette

	// ErrMalformedPalette is returned when a source response is missing its
	// colours or contains entries that are not hex colours.
	ErrMalformedPalette = errors.New("malformed palette")
)

// GenerateOptions holds options passed to sources during generation.
type GenerateOptions struct {
	// Count is the number of colours requested per palette. Zero lets the
	// source decide.
	Count int

	// Logger receives debug output. Nil discards it.
	Logger hclog.Logger
}

// Log returns the configured logger or a null logger.
func (o GenerateOptions) Log() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

// Source produces one or more palettes.
type Source interface {
	// Name returns the source's name (e.g., "remote", "literal").
	Name() string

	// Description returns a human-readable description of the source.
	Description() string

	// RegisterFlags registers source-specific flags with a cobra command.
	RegisterFlags(cmd *cobra.Command)

	// Validate checks if the source has all required inputs configured.
	Validate() error

	// Generate returns at least one non-empty, validated palette.
	Generate(ctx context.Context, opts GenerateOptions) ([]colour.Palette, error)
}

// Registry holds all registered sources.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates a new source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

// Get retrieves a source by name.
func (r *Registry) Get(name string) (Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// List returns all registered source names in sorted order.
func (r *Registry) List() []string {
	return slices.Sorted(maps.Keys(r.sources))
}

// All returns all registered sources.
func (r *Registry) All() map[string]Source {
	return maps.Clone(r.sources)
}

// NormalisePalettes validates raw hex lists from a collaborator. A missing
// or empty list, an empty palette, or a non-hex entry is an error; nothing
// is silently dropped.
func NormalisePalettes(raw [][]string) ([]colour.Palette, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no palettes in response", ErrMalformedPalette)
	}

	palettes := make([]colour.Palette, 0, len(raw))
	for i, entries := range raw {
		if len(entries) == 0 {
			return nil, fmt.Errorf("palette %d: %w", i+1, ErrEmptyPalette)
		}
		p, err := colour.ParsePalette(entries)
		if err != nil {
			return nil, fmt.Errorf("%w: palette %d: %w", ErrMalformedPalette, i+1, err)
		}
		palettes = append(palettes, p)
	}
	return palettes, nil
}

// SplitHexList splits a whitespace- or comma-separated list of colours.
func SplitHexList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

var hexPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}\b`)

// ExtractHexCodes returns every "#rrggbb" token found in free text, in order.
func ExtractHexCodes(text string) []string {
	return hexPattern.FindAllString(text, -1)
}

// DefaultPromptColours is the palette size requested from prompt-based sources.
const DefaultPromptColours = 5

// AugmentPrompt appends the palette instructions sent with every free-text
// prompt: distinct colours, a fixed count, and hex codes only.
func AugmentPrompt(prompt string, count int) string {
	if count <= 0 {
		count = DefaultPromptColours
	}
	return strings.TrimSpace(prompt) +
		" And make sure the colors are not too similar to each other and used together to create a beautiful design." +
		fmt.Sprintf(" Also, the color palette must consist of %d colors", count) +
		" and make sure to return the color codes of the color palette in hex format" +
		" and return only the color codes in the response, do not return text or anything else."
}
