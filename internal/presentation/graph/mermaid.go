package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/eio/pkg/geometry"
)

// Overlay marks bodies to highlight on the graph.
type Overlay struct {
	Bodies []int
}

// GenerateMermaid produces a Mermaid flowchart of the geometry topology:
// bodies ((circle)) point at their loops [rectangle], loops at the edge
// elements they reference, and boundaries [[subroutine]] join their left and
// right bodies. A negative loop reference means the loop is traversed in
// reverse and is drawn dotted.
func GenerateMermaid(s *geometry.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, b := range s.Bodies {
		fmt.Fprintf(&sb, "    %s((\"body %d\"))\n", bodyID(b.Tag), b.Tag)
		for _, ref := range b.Loops {
			arrow := "-->"
			if ref < 0 {
				arrow = "-.->"
				ref = -ref
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", bodyID(b.Tag), arrow, loopID(ref))
		}
	}

	for _, l := range s.Loops {
		fmt.Fprintf(&sb, "    %s[\"loop %d\"]\n", loopID(l.Tag), l.Tag)
		for _, ref := range l.Nodes {
			arrow := "-->"
			if ref < 0 {
				arrow = "-.->"
				ref = -ref
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", loopID(l.Tag), arrow, elementID(ref))
		}
	}

	for _, b := range s.Boundaries {
		fmt.Fprintf(&sb, "    %s[[\"boundary %d\"]]\n", boundaryID(b.Tag), b.Tag)
		for _, side := range []int{b.Left, b.Right} {
			// zero means the outside of the model
			if side > 0 {
				fmt.Fprintf(&sb, "    %s --- %s\n", boundaryID(b.Tag), bodyID(side))
			}
		}
	}

	if overlay != nil && len(overlay.Bodies) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) so the highlight reads on light and dark themes.
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[int]bool)
		for _, tag := range overlay.Bodies {
			if !seen[tag] {
				seen[tag] = true
				fmt.Fprintf(&sb, "    class %s selected;\n", bodyID(tag))
			}
		}
	}

	return sb.String()
}

func bodyID(tag int) string { return sanitizeMermaidID("b", tag) }
func loopID(tag int) string { return sanitizeMermaidID("l", tag) }
func elementID(tag int) string { return sanitizeMermaidID("e", tag) }
func boundaryID(tag int) string { return sanitizeMermaidID("bd", tag) }

// sanitizeMermaidID builds an identifier that is safe for any tag, including
// negative ones.
func sanitizeMermaidID(prefix string, tag int) string {
	if tag < 0 {
		return fmt.Sprintf("%s_m%d", prefix, -tag)
	}
	return fmt.Sprintf("%s_%d", prefix, tag)
}
