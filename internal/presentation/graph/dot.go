package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// Dot renders the graph in Graphviz DOT. Compound states become clusters so
// the hierarchy survives layout; the initial configuration is drawn as a
// double circle and blocked self-loops as dashed edges.
func Dot(g *graph.DirectedGraph) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %q {\n", g.MachineID))
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box];\n")

	children := make(map[string][]graph.Node)
	for _, node := range g.Nodes {
		children[node.Parent] = append(children[node.Parent], node)
	}

	var emit func(node graph.Node, indent string)
	emit = func(node graph.Node, indent string) {
		if node.Type == domain.NodeCompound {
			sb.WriteString(fmt.Sprintf("%ssubgraph cluster_%s {\n", indent, sanitizeID(node.ID)))
			sb.WriteString(fmt.Sprintf("%s    label=%q;\n", indent, node.ID))
			for _, child := range children[node.ID] {
				emit(child, indent+"    ")
			}
			sb.WriteString(indent + "}\n")
			return
		}
		shape := ""
		if node.ID == g.Initial {
			shape = " [shape=doublecircle]"
		}
		sb.WriteString(fmt.Sprintf("%s%q%s;\n", indent, node.ID, shape))
	}
	for _, node := range children[""] {
		emit(node, "    ")
	}

	for _, edge := range g.Edges {
		attrs := fmt.Sprintf("label=%q", edge.Event)
		if edge.Blocked {
			attrs += ", style=dashed"
		}
		sb.WriteString(fmt.Sprintf("    %q -> %q [%s];\n", edge.Source, edge.Target, attrs))
	}

	sb.WriteString("}\n")
	return sb.String()
}
