// Package config loads recolour settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/recolour/internal/recolour"
	"github.com/jmylchreest/recolour/internal/source/genai"
	"github.com/jmylchreest/recolour/internal/source/remote"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECOLOUR_"

// Config holds the recolour settings.
type Config struct {
	// MinLightnessDiff is the L* gap enforced between overlapping elements.
	MinLightnessDiff float64 `yaml:"min_lightness_diff"`
	Contrast         bool    `yaml:"contrast"`
	Strategy         string  `yaml:"strategy"`
	GradientStrategy string  `yaml:"gradient_strategy"`

	Service ServiceConfig `yaml:"service"`
	GenAI   GenAIConfig   `yaml:"genai"`
	Server  ServerConfig  `yaml:"server"`
}

// ServiceConfig points at the palette service.
type ServiceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// GenAIConfig selects the Gen AI model and backend.
type GenAIConfig struct {
	Model   string `yaml:"model"`
	Backend string `yaml:"backend"`
}

// ServerConfig configures `recolour serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MinLightnessDiff: recolour.DefaultMinLightnessDiff,
		Contrast:         true,
		Strategy:         string(recolour.StrategyOrdered),
		GradientStrategy: recolour.GradientStructure,
		Service: ServiceConfig{
			URL:     remote.DefaultURL,
			Timeout: remote.DefaultTimeout,
		},
		GenAI: GenAIConfig{
			Model:   genai.DefaultModel,
			Backend: genai.DefaultBackend,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/recolour/config.yaml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "recolour", "config.yaml")
}

// Load reads path over the defaults and applies environment overrides.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - config path is chosen by the user
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from RECOLOUR_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	env := func(key string) string {
		return strings.TrimSpace(getenv(EnvPrefix + key))
	}

	if v := env("MIN_LIGHTNESS_DIFF"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMIN_LIGHTNESS_DIFF: %w", EnvPrefix, err)
		}
		c.MinLightnessDiff = f
	}
	if v := env("CONTRAST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCONTRAST: %w", EnvPrefix, err)
		}
		c.Contrast = b
	}
	if v := env("STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := env("GRADIENT_STRATEGY"); v != "" {
		c.GradientStrategy = v
	}
	if v := env("SERVICE_URL"); v != "" {
		c.Service.URL = v
	}
	if v := env("SERVICE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sSERVICE_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Service.Timeout = d
	}
	if v := env("GENAI_MODEL"); v != "" {
		c.GenAI.Model = v
	}
	if v := env("GENAI_BACKEND"); v != "" {
		c.GenAI.Backend = v
	}
	if v := env("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("service.timeout must be positive, got %s", c.Service.Timeout)
	}
	if c.GenAI.Backend != "gemini-api" && c.GenAI.Backend != "vertex-ai" {
		return fmt.Errorf("genai.backend must be gemini-api or vertex-ai, got %q", c.GenAI.Backend)
	}
	return nil
}

// Options converts the configuration into pipeline options.
func (c Config) Options() (recolour.Options, error) {
	strategy, err := recolour.ParseStrategy(c.Strategy)
	if err != nil {
		return recolour.Options{}, err
	}
	gradient, err := recolour.ParseGradientStrategy(c.GradientStrategy)
	if err != nil {
		return recolour.Options{}, err
	}
	if c.MinLightnessDiff < 0 {
		return recolour.Options{}, fmt.Errorf("%w: min_lightness_diff is %v", recolour.ErrInvalidThreshold, c.MinLightnessDiff)
	}

	return recolour.Options{
		Strategy:         strategy,
		Gradient:         gradient,
		MinLightnessDiff: c.MinLightnessDiff,
		Contrast:         c.Contrast,
	}, nil
}
