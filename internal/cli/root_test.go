package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/config"
	"github.com/jmylchreest/recolour/internal/recolour"
)

const testDocument = `{
  "frame": "Hero",
  "elements": [
    {"id": "bg", "name": "Background", "bounds": {"x": 0, "y": 0, "width": 100, "height": 100},
     "fill": {"type": "solid", "color": {"r": 0.5, "g": 0.5, "b": 0.5}}},
    {"id": "title", "name": "Title", "bounds": {"x": 10, "y": 10, "width": 50, "height": 20},
     "fill": {"type": "solid", "color": {"r": 0.2, "g": 0.2, "b": 0.2}}},
    {"id": "photo", "fill": {"type": "image", "image_ref": "img-1"}}
  ]
}`

// runCLI executes a fresh command tree with an empty config file.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := writeEmptyConfig(t)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssignJSON(t *testing.T) {
	doc := writeDocument(t)

	stdout, _, err := runCLI(t, "assign",
		"--document", doc,
		"--palette", "#264653 #e9c46a",
		"--palette", "#000000,#ffffff",
		"--no-contrast",
		"--format", "json",
	)
	if err != nil {
		t.Fatalf("assign error = %v", err)
	}

	var results []recolour.Result
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	for i, res := range results {
		if want := "Palette Frame " + string(rune('1'+i)); res.Label != want {
			t.Errorf("result %d label = %q, want %q", i, res.Label, want)
		}
		if res.Frame != "Hero" {
			t.Errorf("result %d frame = %q, want Hero", i, res.Frame)
		}
		if res.Session != results[0].Session {
			t.Errorf("results do not share a session: %q vs %q", res.Session, results[0].Session)
		}

		// Round-robin gives bg and title distinct colours, and photo the first again.
		if res.Assignment["bg"] == res.Assignment["title"] {
			t.Errorf("result %d: bg and title share %s", i, res.Assignment["bg"])
		}
		if res.Assignment["photo"] != res.Assignment["bg"] {
			t.Errorf("result %d: photo = %s, want %s", i, res.Assignment["photo"], res.Assignment["bg"])
		}
		if !res.Elements[2].Skipped {
			t.Errorf("result %d: image element not skipped", i)
		}
		if got := res.Elements[0].Original; got != "#808080" {
			t.Errorf("result %d: bg original = %s, want #808080", i, got)
		}
		if got := res.Elements[2].Original; got != "" {
			t.Errorf("result %d: image original = %q, want empty", i, got)
		}
	}

	got := []string{results[1].Assignment["bg"], results[1].Assignment["title"]}
	slices.Sort(got)
	if diff := cmp.Diff([]string{"#000000", "#ffffff"}, got); diff != "" {
		t.Errorf("second palette colours mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignTableWithReport(t *testing.T) {
	doc := writeDocument(t)

	stdout, _, err := runCLI(t, "assign",
		"--document", doc,
		"--palette", "#808080 #7f7f7f",
		"--report",
	)
	if err != nil {
		t.Fatalf("assign error = %v", err)
	}

	for _, want := range []string{"Palette Frame 1", "Background", "image", "Contrast report:", "WCAG BEFORE"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestAssignWritesOutputFile(t *testing.T) {
	doc := writeDocument(t)
	out := filepath.Join(t.TempDir(), "nested", "result.json")

	stdout, _, err := runCLI(t, "assign",
		"--document", doc,
		"--palette", "#ff0000 #00ff00 #0000ff",
		"--strategy", "proximity",
		"--format", "json",
		"--output", out,
	)
	if err != nil {
		t.Fatalf("assign error = %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty when writing to a file", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	var results []recolour.Result
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("output file is not JSON: %v", err)
	}
	if results[0].Strategy != recolour.StrategyProximity {
		t.Errorf("strategy = %q, want proximity", results[0].Strategy)
	}
	if _, ok := results[0].Assignment["photo"]; ok {
		t.Error("proximity assigned a colour to an image element")
	}
}

func TestAssignErrors(t *testing.T) {
	doc := writeDocument(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing document",
			args:    []string{"assign", "--palette", "#ffffff"},
			wantErr: "document",
		},
		{
			name:    "unknown source",
			args:    []string{"assign", "--document", doc, "--source", "nope"},
			wantErr: "unknown source",
		},
		{
			name:    "source not configured",
			args:    []string{"assign", "--document", doc},
			wantErr: "--palette",
		},
		{
			name:    "invalid strategy",
			args:    []string{"assign", "--document", doc, "--palette", "#ffffff", "--strategy", "random"},
			wantErr: "unknown strategy",
		},
		{
			name:    "invalid gradient strategy",
			args:    []string{"assign", "--document", doc, "--palette", "#ffffff", "--gradient", "mesh"},
			wantErr: "unknown gradient strategy",
		},
		{
			name:    "negative threshold",
			args:    []string{"assign", "--document", doc, "--palette", "#ffffff", "--min-lightness-diff", "-1"},
			wantErr: recolour.ErrInvalidThreshold.Error(),
		},
		{
			name:    "malformed palette",
			args:    []string{"assign", "--document", doc, "--palette", "#ffffff notacolour"},
			wantErr: colour.ErrInvalidColorFormat.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPaletteCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "palette", "--palette", "#FF0000 #00ff00", "--json")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}

	var got []colour.Palette
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff([]colour.Palette{{"#ff0000", "#00ff00"}}, got); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}

	stdout, _, err = runCLI(t, "palette", "--palette", "#ff0000 #00ff00")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}
	if want := "1: #ff0000 #00ff00\n"; stdout != want {
		t.Errorf("palette output = %q, want %q", stdout, want)
	}
}

func TestSourcesCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "sources")
	if err != nil {
		t.Fatalf("sources error = %v", err)
	}
	for _, name := range []string{"genai", "image", "literal", "plugin", "remote"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("sources output missing %q:\n%s", name, stdout)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(stdout, "recolour version ") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestConfigDefaultsApplyToSourceFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "service:\n  url: http://palettes.internal:9000\n  timeout: 5s\ngenai:\n  model: gemini-test\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "palette", "--palette", "#ffffff", "--genai.model", "explicit-model"})
	if err := root.Execute(); err != nil {
		t.Fatalf("palette error = %v", err)
	}

	cmd, _, err := root.Find([]string{"palette"})
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"remote.url":     "http://palettes.internal:9000",
		"remote.timeout": "5s",
		"genai.model":    "explicit-model",
		"genai.backend":  "gemini-api",
	}
	for name, want := range tests {
		if got := cmd.Flags().Lookup(name).Value.String(); got != want {
			t.Errorf("--%s = %q, want %q", name, got, want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		wantDebug      bool
		wantWarn       bool
	}{
		{name: "default", wantWarn: true},
		{name: "verbose", verbose: true, wantDebug: true, wantWarn: true},
		{name: "quiet", quiet: true},
		{name: "quiet wins", verbose: true, quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tt.verbose, tt.quiet, false)
			if got := logger.IsDebug(); got != tt.wantDebug {
				t.Errorf("IsDebug() = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.IsWarn(); got != tt.wantWarn {
				t.Errorf("IsWarn() = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestPaletteSwatchesOnTerminal(t *testing.T) {
	a := &app{
		cfg:        config.Default(),
		logger:     hclog.NewNullLogger(),
		registry:   defaultRegistry(),
		isTerminal: func(io.Writer) bool { return true },
	}
	root := a.rootCmd()

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeEmptyConfig(t), "palette", "--palette", "#ff0000 #00ff00"})
	if err := root.Execute(); err != nil {
		t.Fatalf("palette error = %v", err)
	}

	line := strings.TrimSuffix(stdout.String(), "\n")
	if !strings.HasPrefix(line, "1: #ff0000 #00ff00  ") {
		t.Fatalf("palette output = %q", line)
	}
	if got, want := lipgloss.Width(line), len("1: #ff0000 #00ff00  ")+2*swatchWidth; got != want {
		t.Errorf("line width = %d, want %d", got, want)
	}
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPaletteCommandLab(t *testing.T) {
	stdout, _, err := runCLI(t, "palette", "--palette", "#000000 #808080 #ffffff", "--sorted", "--lab")
	if err != nil {
		t.Fatalf("palette error = %v", err)
	}

	var got colour.PaletteJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
	if got.Colors[0].Hex != "#808080" {
		t.Errorf("first colour = %s, want the centroid-nearest #808080", got.Colors[0].Hex)
	}
	if got.Colors[0].Gap > got.Colors[2].Gap {
		t.Errorf("sorted palette gaps not ascending: %v", got.Colors)
	}
}
