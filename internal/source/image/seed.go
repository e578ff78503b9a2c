package image

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// SeedMode determines how the k-means seed is chosen.
type SeedMode string

const (
	// SeedModeContent hashes the pixels, so the same picture always yields the same palette.
	SeedModeContent SeedMode = "content"
	// SeedModeFilepath hashes the absolute path or URL.
	SeedModeFilepath SeedMode = "filepath"
	// SeedModeManual uses --image.seed-value.
	SeedModeManual SeedMode = "manual"
	// SeedModeRandom varies every run.
	SeedModeRandom SeedMode = "random"
)

// ValidSeedModes returns the accepted seed modes.
func ValidSeedModes() []SeedMode {
	return []SeedMode{SeedModeContent, SeedModeFilepath, SeedModeManual, SeedModeRandom}
}

// ParseSeedMode converts a flag value to a SeedMode.
func ParseSeedMode(s string) (SeedMode, error) {
	mode := SeedMode(s)
	if slices.Contains(ValidSeedModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode %q (valid: content, filepath, manual, random)", s)
}

// calculateSeed returns the seed for mode. The boolean is false for random
// mode, where the extractor keeps its own source.
func calculateSeed(mode SeedMode, img image.Image, path string, manual int64) (int64, bool, error) {
	switch mode {
	case SeedModeContent:
		seed, err := contentSeed(img)
		return seed, true, err
	case SeedModeFilepath:
		seed, err := filepathSeed(path)
		return seed, true, err
	case SeedModeManual:
		return manual, true, nil
	case SeedModeRandom:
		// #nosec G404 -- clustering seed, not crypto
		return time.Now().UnixNano() + int64(rand.Intn(1000000)), false, nil
	default:
		return 0, false, fmt.Errorf("unknown seed mode: %s", mode)
	}
}

// contentSeed hashes the image dimensions and a grid of sampled pixels.
func contentSeed(img image.Image) (int64, error) {
	if img == nil {
		return 0, fmt.Errorf("image is required for content seed mode")
	}

	bounds := img.Bounds()
	hasher := sha256.New()

	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions fit
	binary.LittleEndian.PutUint32(dims[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions fit
	hasher.Write(dims)

	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	px := make([]byte, 4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			px[0], px[1], px[2], px[3] = byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8)
			hasher.Write(px)
		}
	}

	return int64(binary.LittleEndian.Uint64(hasher.Sum(nil)[:8])), nil // #nosec G115 -- hash bits
}

// filepathSeed hashes the absolute path, or the URL as given.
func filepathSeed(path string) (int64, error) {
	if path == "" {
		return 0, fmt.Errorf("image path is required for filepath seed mode")
	}

	key := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
	}

	sum := sha256.Sum256([]byte(key))
	return int64(binary.LittleEndian.Uint64(sum[:8])), nil // #nosec G115 -- hash bits
}
