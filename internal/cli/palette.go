package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
)

func (a *app) paletteCmd() *cobra.Command {
	var (
		sourceName string
		count      int
		sorted     bool
		asJSON     bool
		withLab    bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Fetch palettes from a source without recolouring anything",
		Long: `Fetch palettes from a source and print them.

Useful for checking what a source returns before running assign.

Examples:
  # Palettes suggested by the palette service for a prompt
  recolour palette --source remote --remote.prompt "sunset over the sea"

  # Five colours extracted from an image, in assignment order
  recolour palette --source image --image.path wallpaper.jpg --sorted

  # Inspect how far each colour sits from the palette centroid
  recolour palette --palette "#264653 #2a9d8f #e9c46a" --sorted --lab`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			palettes, err := a.generatePalettes(cmd, sourceName, count)
			if err != nil {
				return err
			}
			if sorted {
				for i, p := range palettes {
					palettes[i] = colour.SortByDistance(p)
				}
			}

			out := cmd.OutOrStdout()
			if withLab {
				for _, p := range palettes {
					data, err := p.ToJSON()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
				}
				return nil
			}
			if asJSON {
				return writeJSON(out, palettes)
			}

			swatches := a.isTerminal(out)
			for i, p := range palettes {
				line := fmt.Sprintf("%d: %s", i+1, strings.Join(p, " "))
				if swatches {
					line += "  " + paletteSwatch(p)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "literal", "palette source ("+strings.Join(a.registry.List(), ", ")+")")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "colours requested per palette (0 lets the source decide)")
	cmd.Flags().BoolVar(&sorted, "sorted", false, "print each palette in assignment order")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print palettes as JSON")
	cmd.Flags().BoolVar(&withLab, "lab", false, "print each colour's L*a*b* value and distance from the palette centroid")

	return cmd
}

func (a *app) sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List available palette sources",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			table := NewTable([]string{"SOURCE", "DESCRIPTION"})
			table.SetColumnMaxWidth(1, 60)
			for _, name := range a.registry.List() {
				s, _ := a.registry.Get(name)
				table.AddRow([]string{name, s.Description()})
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
		},
	}
}
