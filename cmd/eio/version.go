package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of eio",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(eio.Version))
			return
		}
		fmt.Printf("eio version %s\n", strings.TrimSpace(eio.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
