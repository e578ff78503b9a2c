// Recolour - palette-driven recolouring of design elements
//
// Recolour repaints the elements of a design frame with palettes from a
// local list, a palette service, a generative model, an image or a plugin,
// keeping overlapping elements readable and gradients in shape.
package main

import (
	"os"

	"github.com/jmylchreest/recolour/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
