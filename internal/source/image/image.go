// Package image provides a palette source that extracts colours from a local
// image file or HTTP(S) URL with k-means clustering.
package image

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/image"
	"github.com/jmylchreest/recolour/internal/source"
)

// Source implements source.Source for image extraction.
type Source struct {
	path      string
	algorithm string
	colours   int

	seedMode  string
	seedValue int64
}

// New creates an image source with default settings.
func New() *Source {
	return &Source{
		algorithm: string(colour.AlgorithmKMeans),
		colours:   colour.DefaultExtractorConfig().ColorCount,
		seedMode:  string(SeedModeContent),
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "image"
}

// Description returns the source description.
func (s *Source) Description() string {
	return "Extract a palette from an image file or HTTP(S) URL"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Source) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "image.path", "", "Path to image file or HTTP(S) URL (required)")
	cmd.Flags().StringVar(&s.algorithm, "image.algorithm", s.algorithm, "Extraction algorithm (kmeans)")
	cmd.Flags().IntVar(&s.colours, "image.colours", s.colours, "Number of colours to extract (1-256)")
	cmd.Flags().StringVar(&s.seedMode, "image.seed-mode", s.seedMode, "K-means seed mode: content, filepath, manual, random")
	cmd.Flags().Int64Var(&s.seedValue, "image.seed-value", 0, "K-means seed value (only used with --image.seed-mode=manual)")
}

// Validate checks if the source has all required inputs configured.
func (s *Source) Validate() error {
	if s.path == "" {
		return fmt.Errorf("image path or URL is required (use --image.path)")
	}
	if err := image.Validate(s.path); err != nil {
		return fmt.Errorf("invalid image path or URL: %w", err)
	}

	cfg := colour.ExtractorConfig{Algorithm: colour.Algorithm(s.algorithm), ColorCount: s.colours}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := ParseSeedMode(s.seedMode); err != nil {
		return err
	}
	return nil
}

// Generate loads the image and returns its palette, most dominant colour first.
// opts.Count overrides --image.colours when set.
func (s *Source) Generate(ctx context.Context, opts source.GenerateOptions) ([]colour.Palette, error) {
	logger := opts.Log().With("source", s.Name(), "path", s.path)

	img, err := image.Load(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	mode, err := ParseSeedMode(s.seedMode)
	if err != nil {
		return nil, err
	}
	seed, deterministic, err := calculateSeed(mode, img, s.path, s.seedValue)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate seed: %w", err)
	}

	extractorOpts := colour.ExtractorOptions{}
	if deterministic {
		extractorOpts.Seed = &seed
		logger.Debug("using seed", "mode", mode, "seed", seed)
	} else {
		logger.Debug("using seed", "mode", mode)
	}

	extractor, err := colour.NewExtractor(colour.Algorithm(s.algorithm), extractorOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	count := s.colours
	if opts.Count > 0 {
		count = opts.Count
	}

	palette, err := extractor.Extract(image.Fit(img, image.DefaultMaxSide), count)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	if palette.Len() == 0 {
		return nil, source.ErrEmptyPalette
	}

	logger.Debug("extracted palette", "colours", palette.Len())
	return []colour.Palette{palette}, nil
}
