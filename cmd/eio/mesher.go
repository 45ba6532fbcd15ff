package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var mesherCmd = &cobra.Command{
	Use:   "mesher",
	Short: "Inspect configured mesh generators",
}

var mesherLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered generators and their availability",
	Run: func(cmd *cobra.Command, args []string) {
		reg := app.ws.Meshers()
		names := reg.Names()
		if len(names) == 0 {
			fmt.Println("No mesh generators configured.")
		}
		for _, name := range names {
			m, _ := reg.Get(name)
			status := "unavailable"
			if m.Available() {
				status = "available"
			}
			fmt.Printf("- %s (%s)\n", name, status)
		}
		fmt.Printf("Default: %s\n", reg.Default())
	},
}

var mesherControlCmd = &cobra.Command{
	Use:   "control",
	Short: "Print the effective mesh control parameters as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		ctl, err := app.cfg.MeshControl()
		if err != nil {
			fail("Error reading mesh control: %v", err)
		}
		if _, set := app.cfg.Mesh["generator"]; !set {
			ctl.Generator = app.ws.Meshers().Default()
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		if err := enc.Encode(ctl); err != nil {
			fail("Error encoding mesh control: %v", err)
		}
	},
}

func init() {
	mesherCmd.AddCommand(mesherLsCmd, mesherControlCmd)
	needsWorkspace(mesherLsCmd, mesherControlCmd)
	rootCmd.AddCommand(mesherCmd)
}
