// Package external provides a palette source backed by a palette-provider
// plugin binary, spoken to over go-plugin RPC or JSON on stdio.
package external

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/source"
	"github.com/jmylchreest/recolour/pkg/plugin"
)

// DefaultTimeout bounds a single plugin generation.
const DefaultTimeout = 60 * time.Second

// Source implements source.Source for external plugins.
type Source struct {
	path    string
	args    map[string]string
	timeout time.Duration
	verbose bool

	runner ProcessRunner
}

// New creates an external plugin source.
func New() *Source {
	return &Source{timeout: DefaultTimeout}
}

// NewWithRunner creates a source that runs plugins through runner.
func NewWithRunner(runner ProcessRunner) *Source {
	s := New()
	s.runner = runner
	return s
}

// Name returns the source name.
func (s *Source) Name() string {
	return "plugin"
}

// Description returns the source description.
func (s *Source) Description() string {
	return "Run an external palette-provider plugin (go-plugin or json-stdio)"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Source) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "plugin.path", "", "Path to the palette-provider plugin executable (required)")
	cmd.Flags().StringToStringVar(&s.args, "plugin.arg", nil, "Argument passed to the plugin as key=value (repeatable)")
	cmd.Flags().DurationVar(&s.timeout, "plugin.timeout", s.timeout, "Plugin generation timeout")
	cmd.Flags().BoolVar(&s.verbose, "plugin.verbose", false, "Show plugin logs")
}

// Validate checks that the plugin path points at a file.
func (s *Source) Validate() error {
	if s.path == "" {
		return fmt.Errorf("--plugin.path is required")
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("plugin not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("plugin path is a directory: %s", s.path)
	}
	if s.timeout <= 0 {
		return fmt.Errorf("--plugin.timeout must be positive")
	}
	return nil
}

// Generate runs the plugin and validates the palettes it returns.
func (s *Source) Generate(ctx context.Context, opts source.GenerateOptions) ([]colour.Palette, error) {
	logger := opts.Log().With("source", s.Name(), "plugin", s.path)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	executor, err := NewExecutor(ctx, s.path, s.runner, logger, s.verbose)
	if err != nil {
		return nil, err
	}
	defer executor.Close()

	raw, err := executor.Generate(ctx, plugin.ProviderOptions{
		Verbose:    s.verbose,
		Count:      opts.Count,
		PluginArgs: s.args,
	})
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", executor.Info().Name, err)
	}

	palettes, err := source.NormalisePalettes(raw)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", executor.Info().Name, err)
	}
	logger.Debug("plugin returned palettes", "count", len(palettes))
	return palettes, nil
}
