// Package graph renders the static directed view of a machine in formats
// diagram tools understand: Mermaid flowcharts and Graphviz DOT.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// Overlay carries dynamic state to highlight on top of the static structure:
// configurations a walk has already visited and the one currently active.
type Overlay struct {
	Visited []string
	Current string
}

// Mermaid renders the graph as a Mermaid flowchart. Compound states become
// subgraphs, the initial configuration a circle, blocked self-loops dotted
// arrows. Overlay styles are appended when an overlay is given.
func Mermaid(g *graph.DirectedGraph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	children := make(map[string][]graph.Node)
	for _, node := range g.Nodes {
		children[node.Parent] = append(children[node.Parent], node)
	}

	var emit func(node graph.Node, indent string)
	emit = func(node graph.Node, indent string) {
		safeID := sanitizeID(node.ID)
		if node.Type == domain.NodeCompound {
			sb.WriteString(fmt.Sprintf("%ssubgraph %s[\"%s\"]\n", indent, safeID, node.ID))
			for _, child := range children[node.ID] {
				emit(child, indent+"    ")
			}
			sb.WriteString(indent + "end\n")
			return
		}
		opener, closer := "[", "]"
		if node.ID == g.Initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\"%s\"%s\n", indent, safeID, opener, node.ID, closer))
	}
	for _, node := range children[""] {
		emit(node, "    ")
	}

	for _, edge := range g.Edges {
		src, dst := sanitizeID(edge.Source), sanitizeID(edge.Target)
		if edge.Blocked {
			sb.WriteString(fmt.Sprintf("    %s -. \"%s (blocked)\" .-> %s\n", src, edge.Event, dst))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", src, edge.Event, dst))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of renderer theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeID(id)
			if safeID != "" && !styled[safeID] {
				styled[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeID(overlay.Current)))
		}
	}

	return sb.String()
}

// sanitizeID turns a dotted configuration key into an identifier Mermaid and
// DOT both accept.
func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
