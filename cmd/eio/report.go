package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/eio/internal/cli"
	"github.com/aretw0/eio/internal/presentation/tui"
)

var reportCmd = &cobra.Command{
	Use:   "report <model>",
	Short: "Render a Markdown summary of a model",
	Long:  `Renders with styling on a terminal and as plain Markdown when piped.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		md, err := cli.Report(cmd.Context(), app.ws, args[0])
		if err != nil {
			fail("Error building report: %v", err)
		}
		render := tui.RendererFor(os.Stdout)
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			render = tui.NewPlainRenderer()
		}
		out, err := render(md)
		if err != nil {
			fail("Error rendering report: %v", err)
		}
		fmt.Print(out)
	},
}

func init() {
	reportCmd.Flags().Bool("plain", false, "Print raw Markdown even on a terminal")
	needsWorkspace(reportCmd)
	rootCmd.AddCommand(reportCmd)
}
