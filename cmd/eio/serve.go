package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/internal/cli"
	httpAdapter "github.com/aretw0/eio/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only HTTP inspection API",
	Run: func(cmd *cobra.Command, args []string) {
		addr := app.cfg.Listen
		if cmd.Flags().Changed("listen") {
			addr, _ = cmd.Flags().GetString("listen")
		}

		handler := httpAdapter.NewHandler(app.ws.Sessions(),
			httpAdapter.WithGatherer(app.registry),
			httpAdapter.WithLogger(app.logger),
			httpAdapter.WithVersion(strings.TrimSpace(eio.Version)),
		)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		out := cmd.OutOrStdout()
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			cli.PrintSystemMessage(out, "Starting eio server on %s", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				fail("Server error: %v", err)
			}
		case <-ctx.Done():
			fmt.Fprintln(out)
			cli.PrintSystemMessage(out, "Start shutdown... Signal: %v", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				cli.PrintSystemMessage(out, "Graceful shutdown did not complete in %v: %v", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					cli.PrintSystemMessage(out, "Error killing server: %v", err)
				}
			}
			cli.PrintSystemMessage(out, "eio server stopped gracefully")
		}
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Address to listen on (overrides the config)")
	needsWorkspace(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
