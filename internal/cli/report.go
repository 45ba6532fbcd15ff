package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/modeldata"
)

// Report renders a Markdown summary of model.
// Missing geometry or model data is reported, not returned as an error.
func Report(ctx context.Context, ws *eio.Workspace, model string) (string, error) {
	snap, err := ws.Sessions().LoadGeometry(ctx, model)
	if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
		return "", fmt.Errorf("load geometry of %s: %w", model, err)
	}
	doc, err := ws.Sessions().LoadModelData(ctx, model)
	if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
		return "", fmt.Errorf("load model data of %s: %w", model, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Model `%s`\n\n", model)
	writeGeometry(&sb, snap)
	writeModelData(&sb, doc)
	return sb.String(), nil
}

func writeGeometry(sb *strings.Builder, snap *geometry.Snapshot) {
	sb.WriteString("## Geometry\n\n")
	if snap == nil {
		sb.WriteString("_No geometry stored._\n\n")
		return
	}
	d := snap.Descriptor
	sb.WriteString("| Record | Declared | Stored |\n|---|---|---|\n")
	rows := []struct {
		name     string
		declared int
		stored   int
	}{
		{"Nodes", d.Vertices, len(snap.Nodes)},
		{"Elements", d.Boundaries, len(snap.Elements)},
		{"Bodies", d.Bodies, len(snap.Bodies)},
		{"Loops", d.Loops, len(snap.Loops)},
		{"Boundaries", d.Outer + d.Inner, len(snap.Boundaries)},
	}
	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %d | %d |\n", r.name, r.declared, r.stored)
	}
	fmt.Fprintf(sb, "\nOuter boundaries: %d, inner boundaries: %d, longest loop: %d.\n\n", d.Outer, d.Inner, d.MaxLoop)

	if err := snap.Validate(); err != nil {
		sb.WriteString("### Problems\n\n")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(sb, "- %s\n", line)
		}
		sb.WriteString("\n")
	}
}

func writeModelData(sb *strings.Builder, doc *modeldata.Document) {
	sb.WriteString("## Model Data\n\n")
	if doc == nil {
		sb.WriteString("_No model data stored._\n")
		return
	}

	sb.WriteString("| Category | Groups | Fields |\n|---|---|---|\n")
	fmt.Fprintf(sb, "| bodies | %d | - |\n", len(doc.Bodies))
	for _, cat := range domain.Categories() {
		groups, fields := 0, 0
		for _, g := range doc.Groups {
			if g.Category == cat {
				groups++
				fields += len(g.Fields)
			}
		}
		fmt.Fprintf(sb, "| %s | %d | %d |\n", cat, groups, fields)
	}

	c := doc.Constants
	fmt.Fprintf(sb, "\nGravity: (%g, %g, %g), Boltzmann: %g.\n", c.Gravity[0], c.Gravity[1], c.Gravity[2], c.Boltzmann)
	co := doc.Coordinates
	fmt.Fprintf(sb, "Coordinates: dimension %d, system %d, symmetry %d.\n", co.Dimension, co.CoordSys, co.Symmetry)
}
