package main

import (
	"fmt"
	"os"

	"github.com/aretw0/contrib/internal/presentation/graph"
	"github.com/aretw0/contrib/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the contributions in a readable form",
	Long: `Renders the generated manifest as a markdown summary in the terminal, or as a
Mermaid diagram (graph LR) of the menus. With --set, the diagram marks which
menu entries are visible for those context values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		pairs, _ := cmd.Flags().GetStringArray("set")

		_, m, err := loadContributions()
		if err != nil {
			return err
		}

		switch format {
		case "markdown":
			render, err := tui.NewRenderer(os.Stdout)
			if err != nil {
				return err
			}
			out, err := render(tui.ManifestMarkdown(m))
			if err != nil {
				return err
			}
			if tui.IsTerminal(os.Stdout) {
				tui.PrintBanner(cmd.OutOrStdout())
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		case "mermaid":
			var overlay *graph.Overlay
			if len(pairs) > 0 {
				values, err := parseValues(pairs)
				if err != nil {
					return err
				}
				overlay = &graph.Overlay{Values: values}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m, overlay))
		default:
			return fmt.Errorf("unknown format %q (want markdown or mermaid)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("format", "markdown", "Output format: markdown or mermaid")
	inspectCmd.Flags().StringArray("set", nil, "Context value as key=value for the mermaid overlay (repeatable)")
}
