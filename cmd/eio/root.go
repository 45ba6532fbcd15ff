package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/internal/cli"
	"github.com/aretw0/eio/internal/config"
	"github.com/aretw0/eio/pkg/observability"
)

// app holds what PersistentPreRunE builds for the subcommands.
var app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	ws       *eio.Workspace
	closer   io.Closer
}

var rootCmd = &cobra.Command{
	Use:   "eio",
	Short: "eio stores and inspects finite-element models",
	Long: `eio reads and writes finite-element models kept as plain text record
streams: geometry (nodes, elements, bodies, loops, boundaries) and model data
(description, body records, parameter groups).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["workspace"] != "true" {
			return nil
		}
		return openApp(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.closer != nil {
			app.closer.Close()
		}
	},
}

// needsWorkspace marks commands that operate on stored models.
func needsWorkspace(cmds ...*cobra.Command) {
	for _, c := range cmds {
		if c.Annotations == nil {
			c.Annotations = map[string]string{}
		}
		c.Annotations["workspace"] = "true"
	}
}

func openApp(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dir") {
		cfg.Dir, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flags().Changed("backend") {
		backend, _ := cmd.Flags().GetString("backend")
		cfg.Backend = config.Backend(backend)
	}
	debug, _ := cmd.Flags().GetBool("debug")

	logger, err := cli.NewLogger(debug, cfg.LogLevel)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ws, closer, err := cli.OpenWorkspace(cfg, logger, metrics)
	if err != nil {
		return err
	}
	app.cfg, app.logger, app.registry, app.metrics = cfg, logger, registry, metrics
	app.ws, app.closer = ws, closer
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fail reports err and exits, like every command does on failure.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().String("dir", "", "Directory holding the models (file backend)")
	rootCmd.PersistentFlags().String("backend", "", "Repository backend: file, memory or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
