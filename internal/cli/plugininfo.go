package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/source/external"
)

func (a *app) pluginInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plugin-info PATH",
		Short: "Show a palette-provider plugin's metadata and arguments",
		Long: `Query a palette-provider plugin and print what it reports about itself,
including the keys it accepts through --plugin.arg.

Example:
  recolour plugin-info ./providers/coolors`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, err := external.NewExecutor(cmd.Context(), args[0], nil, a.logger.Named("plugin"), false)
			if err != nil {
				return err
			}
			defer executor.Close()

			flags, err := executor.FlagHelp()
			if err != nil {
				return fmt.Errorf("failed to read plugin arguments: %w", err)
			}
			info := executor.Info()
			info.PluginProtocol = string(executor.Protocol())
			info.Flags = flags

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, info)
			}

			fmt.Fprintf(out, "Name:        %s\n", info.Name)
			fmt.Fprintf(out, "Version:     %s\n", info.Version)
			fmt.Fprintf(out, "Protocol:    %s (API %s)\n", info.PluginProtocol, info.ProtocolVersion)
			if info.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", info.Description)
			}
			if len(flags) == 0 {
				fmt.Fprintln(out, "\nThe plugin takes no arguments.")
				return nil
			}

			table := NewTable([]string{"ARG", "TYPE", "DEFAULT", "REQUIRED", "DESCRIPTION"})
			table.SetColumnMaxWidth(4, 50)
			for _, f := range flags {
				required := ""
				if f.Required {
					required = "yes"
				}
				table.AddRow([]string{f.Name, f.Type, f.Default, required, f.Description})
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, table.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plugin info as JSON")
	return cmd
}
