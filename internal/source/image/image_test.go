package image

import (
	"context"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/recolour/internal/source"
)

func writeStripes(t *testing.T) string {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 20, 20))
	for y := range 20 {
		for x := range 20 {
			if x < 15 {
				img.Set(x, y, color.RGBA{R: 20, G: 40, B: 220, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 240, G: 200, B: 10, A: 255})
			}
		}
	}
	path := filepath.Join(t.TempDir(), "stripes.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	s := New()
	if s.Name() != "image" {
		t.Errorf("Name() = %q, want image", s.Name())
	}
	if s.colours != 5 {
		t.Errorf("colours = %d, want 5", s.colours)
	}
	if s.seedMode != "content" {
		t.Errorf("seedMode = %q, want content", s.seedMode)
	}
}

func TestValidate(t *testing.T) {
	path := writeStripes(t)

	tests := []struct {
		name    string
		modify  func(*Source)
		wantErr bool
	}{
		{name: "valid", modify: func(s *Source) { s.path = path }},
		{name: "missing path", modify: func(*Source) {}, wantErr: true},
		{name: "not an image", modify: func(s *Source) { s.path = filepath.Join(t.TempDir(), "notes.txt") }, wantErr: true},
		{name: "too many colours", modify: func(s *Source) { s.path = path; s.colours = 300 }, wantErr: true},
		{name: "bad algorithm", modify: func(s *Source) { s.path = path; s.algorithm = "median" }, wantErr: true},
		{name: "bad seed mode", modify: func(s *Source) { s.path = path; s.seedMode = "lucky" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.modify(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	s := New()
	s.path = writeStripes(t)

	palettes, err := s.Generate(context.Background(), source.GenerateOptions{Count: 2})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(palettes) != 1 {
		t.Fatalf("Generate() returned %d palettes, want 1", len(palettes))
	}

	want := []string{"#1428dc", "#f0c80a"}
	if diff := cmp.Diff(want, []string(palettes[0])); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateContentSeedIsDeterministic(t *testing.T) {
	path := writeStripes(t)

	run := func() []string {
		s := New()
		s.path = path
		palettes, err := s.Generate(context.Background(), source.GenerateOptions{Count: 3})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		return palettes[0]
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("content seed produced different palettes (-first +second):\n%s", diff)
	}
}

func TestCalculateSeed(t *testing.T) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))

	seed, deterministic, err := calculateSeed(SeedModeManual, img, "", 42)
	if err != nil || !deterministic || seed != 42 {
		t.Errorf("calculateSeed(manual) = %d, %v, %v; want 42, true, nil", seed, deterministic, err)
	}

	if _, deterministic, _ := calculateSeed(SeedModeRandom, img, "", 0); deterministic {
		t.Error("calculateSeed(random) reported deterministic")
	}

	a, _, _ := calculateSeed(SeedModeFilepath, nil, "https://example.com/a.png", 0)
	b, _, _ := calculateSeed(SeedModeFilepath, nil, "https://example.com/b.png", 0)
	if a == b {
		t.Error("calculateSeed(filepath) gave equal seeds for different URLs")
	}

	if _, _, err := calculateSeed(SeedModeContent, nil, "", 0); err == nil {
		t.Error("calculateSeed(content, nil image) expected error")
	}
	if _, _, err := calculateSeed(SeedModeFilepath, nil, "", 0); err == nil {
		t.Error("calculateSeed(filepath, empty path) expected error")
	}
}
