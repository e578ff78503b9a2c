package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/scene"
)

const swatchWidth = 4

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

// swatch renders a block of background colour.
func swatch(hex string, width int) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Render(strings.Repeat(" ", width))
}

// paletteSwatch renders every palette colour side by side.
func paletteSwatch(p colour.Palette) string {
	var b strings.Builder
	for _, hex := range p {
		b.WriteString(swatch(hex, swatchWidth))
	}
	return b.String()
}

// fillSwatch previews a fill. Gradients show one cell per stop.
func fillSwatch(f scene.Fill) string {
	switch {
	case f.IsSolid():
		return swatch(f.Color.Hex(), swatchWidth)
	case f.IsGradient():
		var b strings.Builder
		for _, s := range f.Stops {
			b.WriteString(swatch(s.Color.Hex(), 2))
		}
		return b.String()
	default:
		return ""
	}
}
