package colour

import (
	"fmt"
	"image"
	"slices"
)

// Extractor defines the interface for palette extraction algorithms.
type Extractor interface {
	// Extract extracts a palette from an image, most dominant colour first.
	// The count parameter specifies the number of colors to extract.
	Extract(img image.Image, count int) (Palette, error)
}

// Algorithm represents the color extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses k-means clustering for color extraction.
	AlgorithmKMeans Algorithm = "kmeans"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
	}
}

// ExtractorOptions holds tuning for extractors.
type ExtractorOptions struct {
	// Seed makes extraction deterministic when set.
	Seed *int64
}

// NewExtractor creates a new Extractor based on the specified algorithm.
func NewExtractor(alg Algorithm, opts ExtractorOptions) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		e := NewKMeansExtractor()
		if opts.Seed != nil {
			e = e.WithSeed(*opts.Seed)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int
}

// DefaultExtractorConfig returns the default extractor configuration.
// Five colours matches what the palette service returns per palette.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmKMeans,
		ColorCount: 5,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !slices.Contains(ValidAlgorithms(), c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.ColorCount < 1 || c.ColorCount > MaxExtractColours {
		return fmt.Errorf("color count must be between 1 and %d, got %d", MaxExtractColours, c.ColorCount)
	}
	return nil
}
