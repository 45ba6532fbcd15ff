package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/eio/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [model]...",
	Short: "Check models for consistency",
	Long:  `Loads each model (all stored models by default) and reports count mismatches, malformed records and dangling references.`,
	Run: func(cmd *cobra.Command, args []string) {
		models := args
		if len(models) == 0 {
			var err error
			if models, err = app.ws.Models(cmd.Context()); err != nil {
				fail("Error listing models: %v", err)
			}
		}
		jobs, _ := cmd.Flags().GetInt("jobs")

		results, err := cli.Validate(cmd.Context(), app.ws, models, jobs)
		if err != nil {
			fail("Validation aborted: %v", err)
		}

		invalid := 0
		for _, r := range results {
			if r.Err != nil {
				invalid++
				fmt.Printf("✗ %s: %v\n", r.Model, r.Err)
				continue
			}
			fmt.Printf("✓ %s\n", r.Model)
		}
		if invalid > 0 {
			fail("%d of %d models are invalid.", invalid, len(results))
		}
		fmt.Printf("All %d models are valid.\n", len(results))
	},
}

func init() {
	validateCmd.Flags().IntP("jobs", "j", 4, "Models validated in parallel")
	needsWorkspace(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
