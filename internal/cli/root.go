// Package cli provides the command-line interface for recolour.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/config"
	"github.com/jmylchreest/recolour/internal/source"
	"github.com/jmylchreest/recolour/internal/source/external"
	"github.com/jmylchreest/recolour/internal/source/genai"
	"github.com/jmylchreest/recolour/internal/source/image"
	"github.com/jmylchreest/recolour/internal/source/literal"
	"github.com/jmylchreest/recolour/internal/source/remote"
	"github.com/jmylchreest/recolour/internal/version"
)

// app carries the state shared by every command of one root command tree.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool

	cfg      config.Config
	logger   hclog.Logger
	registry *source.Registry

	// isTerminal reports whether w is an interactive terminal.
	isTerminal func(w io.Writer) bool
}

// NewRootCmd builds the recolour command tree.
func NewRootCmd() *cobra.Command {
	a := &app{
		cfg:        config.Default(),
		logger:     hclog.NewNullLogger(),
		registry:   defaultRegistry(),
		isTerminal: isTerminal,
	}
	return a.rootCmd()
}

// defaultRegistry registers every built-in palette source.
func defaultRegistry() *source.Registry {
	r := source.NewRegistry()
	r.Register(literal.New())
	r.Register(remote.New("", 0))
	r.Register(genai.New("", ""))
	r.Register(image.New())
	r.Register(external.New())
	return r
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recolour",
		Short: "Recolour design elements with generated palettes",
		Long: `Recolour takes the elements of a design frame and repaints them with
palettes from a local list, the palette service, a generative model,
an image, or an external plugin.

Colours are matched in CIE L*a*b* space. Overlapping elements are pushed
apart in lightness so text stays readable on its background, and
gradient fills keep their shape while taking on the new hue.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.SetVersionTemplate(version.String() + "\n")

	assign := a.assignCmd()
	palette := a.paletteCmd()
	a.registerSourceFlags(assign, palette)

	root.AddCommand(a.versionCmd())
	root.AddCommand(assign)
	root.AddCommand(palette)
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.sourcesCmd())
	root.AddCommand(a.pluginInfoCmd())

	return root
}

// registerSourceFlags registers source-specific flags with commands that use them.
func (a *app) registerSourceFlags(cmds ...*cobra.Command) {
	for _, name := range a.registry.List() {
		s, _ := a.registry.Get(name)
		for _, cmd := range cmds {
			s.RegisterFlags(cmd)
		}
	}
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet, a.logJSON)

	return a.applySourceDefaults(cmd)
}

// applySourceDefaults copies configured service and model settings into
// source flags the user did not set explicitly.
func (a *app) applySourceDefaults(cmd *cobra.Command) error {
	defaults := map[string]string{
		"remote.url":     a.cfg.Service.URL,
		"remote.timeout": a.cfg.Service.Timeout.String(),
		"genai.model":    a.cfg.GenAI.Model,
		"genai.backend":  a.cfg.GenAI.Backend,
	}

	for name, value := range defaults {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed || value == "" {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("invalid configured value for --%s: %w", name, err)
		}
	}
	return nil
}

// newLogger returns the process logger. Quiet wins over verbose.
func newLogger(w io.Writer, verbose, quiet, jsonFormat bool) hclog.Logger {
	level := hclog.Warn
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "recolour",
		Level:      level,
		Output:     w,
		JSONFormat: jsonFormat,
	})
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
