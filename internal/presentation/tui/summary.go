package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// MachineSummary builds a markdown description of a machine for terminal
// rendering: event vocabulary, the state tree, and every declared transition.
func MachineSummary(g *graph.DirectedGraph, events []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", g.MachineID)
	fmt.Fprintf(&sb, "Initial configuration: `%s`\n\n", g.Initial)

	sb.WriteString("## Events\n\n")
	for _, event := range events {
		fmt.Fprintf(&sb, "- `%s`\n", event)
	}

	sb.WriteString("\n## States\n\n")
	sb.WriteString("| State | Kind | Initial child |\n")
	sb.WriteString("|---|---|---|\n")
	for _, node := range g.Nodes {
		kind := "atomic"
		if node.Type == domain.NodeCompound {
			kind = "compound"
		}
		initial := node.Initial
		if initial == "" {
			initial = "-"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", node.ID, kind, initial)
	}

	sb.WriteString("\n## Transitions\n\n")
	for _, edge := range g.Edges {
		if edge.Blocked {
			fmt.Fprintf(&sb, "- `%s` blocks `%s`\n", edge.Source, edge.Event)
			continue
		}
		fmt.Fprintf(&sb, "- `%s` on `%s` -> `%s`\n", edge.Source, edge.Event, edge.Target)
	}
	return sb.String()
}
