package remote

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/source"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "frame.png")
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

func TestValidate(t *testing.T) {
	imagePath := writeTestImage(t)

	tests := []struct {
		name    string
		src     *Source
		wantErr bool
	}{
		{name: "prompt", src: &Source{url: DefaultURL, prompt: "sunset", quality: 90}},
		{name: "image", src: &Source{url: DefaultURL, image: imagePath, quality: 90}},
		{name: "neither", src: &Source{url: DefaultURL, quality: 90}, wantErr: true},
		{name: "both", src: &Source{url: DefaultURL, prompt: "x", image: imagePath, quality: 90}, wantErr: true},
		{name: "bad scheme", src: &Source{url: "ftp://host", prompt: "x", quality: 90}, wantErr: true},
		{name: "bad quality", src: &Source{url: DefaultURL, prompt: "x", quality: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.src.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateFromImage(t *testing.T) {
	var gotType string
	var gotSOI bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_image" {
			t.Errorf("path = %s, want /process_image", r.URL.Path)
		}
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotSOI = len(body) > 2 && body[0] == 0xFF && body[1] == 0xD8
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"color_palettes":[["#62442C","#D9914A","#E7D8C7","#DBDADA"],["#000000"]]}`))
	}))
	defer server.Close()

	s := New(server.URL, 0)
	s.image = writeTestImage(t)

	got, err := s.Generate(context.Background(), source.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []colour.Palette{{"#62442c", "#d9914a", "#e7d8c7", "#dbdada"}, {"#000000"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	if gotType != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", gotType)
	}
	if !gotSOI {
		t.Error("uploaded body is not a JPEG")
	}
}

func TestGenerateFromPrompt(t *testing.T) {
	var req PromptRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_prompt" {
			t.Errorf("path = %s, want /process_prompt", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"palette":"  #112233 #445566\n#778899  "}`))
	}))
	defer server.Close()

	s := New(server.URL+"/", 0)
	s.prompt = "calm ocean"

	got, err := s.Generate(context.Background(), source.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []colour.Palette{{"#112233", "#445566", "#778899"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(req.InputString, "calm ocean And make sure") {
		t.Errorf("input_string = %q, want augmented prompt", req.InputString)
	}
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		name    string
		prompt  bool
		body    string
		status  int
		wantErr error
	}{
		{name: "image missing field", body: `{"palettes":[]}`, wantErr: source.ErrMalformedPalette},
		{name: "image bad entry", body: `{"color_palettes":[["#zzzzzz"]]}`, wantErr: source.ErrMalformedPalette},
		{name: "image empty palette", body: `{"color_palettes":[[]]}`, wantErr: source.ErrEmptyPalette},
		{name: "image not json", body: `<html>`, wantErr: source.ErrMalformedPalette},
		{name: "prompt missing field", prompt: true, body: `{}`, wantErr: source.ErrMalformedPalette},
		{name: "prompt empty", prompt: true, body: `{"palette":"   "}`, wantErr: source.ErrEmptyPalette},
		{name: "prompt prose", prompt: true, body: `{"palette":"Sure! #112233"}`, wantErr: source.ErrMalformedPalette},
		{name: "server error", prompt: true, body: `boom`, status: http.StatusInternalServerError},
	}

	imagePath := writeTestImage(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := New(server.URL, 0)
			if tt.prompt {
				s.prompt = "x"
			} else {
				s.image = imagePath
			}

			palettes, err := s.Generate(context.Background(), source.GenerateOptions{})
			if err == nil {
				t.Fatalf("Generate() = %v, want error", palettes)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
