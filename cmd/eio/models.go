package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List and remove stored models",
}

var modelsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored models",
	Run: func(cmd *cobra.Command, args []string) {
		pattern, _ := cmd.Flags().GetString("match")
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			fail("Invalid pattern %q", pattern)
		}

		models, err := app.ws.Models(cmd.Context())
		if err != nil {
			fail("Error listing models: %v", err)
		}

		shown := 0
		for _, m := range models {
			if pattern != "" {
				if ok, _ := doublestar.Match(pattern, m); !ok {
					continue
				}
			}
			fmt.Println("- " + m)
			shown++
		}
		if shown == 0 {
			fmt.Println("No models found.")
		}
	},
}

var modelsRmCmd = &cobra.Command{
	Use:   "rm <model>...",
	Short: "Remove one or more models",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hasError := false
		for _, model := range args {
			if err := app.ws.Sessions().Delete(cmd.Context(), model); err != nil {
				fmt.Printf("Error removing '%s': %v\n", model, err)
				hasError = true
				continue
			}
			fmt.Printf("Removed model '%s'\n", model)
		}
		if hasError {
			fail("Some models could not be removed.")
		}
	},
}

func init() {
	modelsLsCmd.Flags().String("match", "", "Only list models matching this glob (doublestar syntax)")
	modelsCmd.AddCommand(modelsLsCmd, modelsRmCmd)
	needsWorkspace(modelsLsCmd, modelsRmCmd)
	rootCmd.AddCommand(modelsCmd)
}
