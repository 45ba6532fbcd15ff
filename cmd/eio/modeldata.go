package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var modeldataCmd = &cobra.Command{
	Use:   "modeldata",
	Short: "Inspect model data",
}

var modeldataInfoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Print the model data as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := app.ws.Sessions().LoadModelData(cmd.Context(), args[0])
		if err != nil {
			fail("Error loading model data of '%s': %v", args[0], err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fail("Error encoding model data: %v", err)
		}
	},
}

func init() {
	modeldataCmd.AddCommand(modeldataInfoCmd)
	needsWorkspace(modeldataInfoCmd)
	rootCmd.AddCommand(modeldataCmd)
}
