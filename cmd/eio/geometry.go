package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/eio/internal/presentation/graph"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
)

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Inspect model geometry",
}

var geometryInfoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Print the geometry header",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var d domain.GeometryDescriptor
		err := app.ws.Sessions().WithModel(cmd.Context(), args[0], func(ctx context.Context, mgr ports.ModelManager) error {
			a := app.ws.Sessions().Geometry(mgr)
			if err := a.Open(ctx); err != nil {
				return err
			}
			defer a.Close()
			d = a.Descriptor()
			return nil
		})
		if err != nil {
			fail("Error reading geometry of '%s': %v", args[0], err)
		}

		fmt.Printf("Bodies:     %d\n", d.Bodies)
		fmt.Printf("Elements:   %d\n", d.Boundaries)
		fmt.Printf("Boundaries: %d outer, %d inner\n", d.Outer, d.Inner)
		fmt.Printf("Vertices:   %d\n", d.Vertices)
		fmt.Printf("Loops:      %d (longest %d)\n", d.Loops, d.MaxLoop)
	},
}

var geometryDumpCmd = &cobra.Command{
	Use:   "dump <model>",
	Short: "Print the whole geometry as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := app.ws.Sessions().LoadGeometry(cmd.Context(), args[0])
		if err != nil {
			fail("Error loading geometry of '%s': %v", args[0], err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fail("Error encoding geometry: %v", err)
		}
	},
}

var geometryGraphCmd = &cobra.Command{
	Use:   "graph <model>",
	Short: "Print the body/loop/boundary topology as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := app.ws.Sessions().LoadGeometry(cmd.Context(), args[0])
		if err != nil {
			fail("Error loading geometry of '%s': %v", args[0], err)
		}
		bodies, _ := cmd.Flags().GetIntSlice("highlight")
		var overlay *graph.Overlay
		if len(bodies) > 0 {
			overlay = &graph.Overlay{Bodies: bodies}
		}
		fmt.Print(graph.GenerateMermaid(snap, overlay))
	},
}

func init() {
	geometryGraphCmd.Flags().IntSlice("highlight", nil, "Body tags to highlight")
	geometryCmd.AddCommand(geometryInfoCmd, geometryDumpCmd, geometryGraphCmd)
	needsWorkspace(geometryInfoCmd, geometryDumpCmd, geometryGraphCmd)
	rootCmd.AddCommand(geometryCmd)
}
