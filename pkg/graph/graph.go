/*
Package graph turns a compiled machine into a directed graph for model-based
testing: a static node/edge view over the declared state tree, and an
adjacency map over the configurations actually reachable from the initial
state.

Both structures use canonical serialized keys (Configuration.Key and
Event.Key) so distinct configurations and events never collide, and both are
read-only once built.
*/
package graph

import (
	"fmt"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
)

// Node is one vertex of the static directed graph: a declared state node.
type Node struct {
	ID       string          `json:"id"`
	Type     domain.NodeType `json:"type"`
	Initial  string          `json:"initial,omitempty"`
	Parent   string          `json:"parent,omitempty"`
	Children []string        `json:"children,omitempty"`
}

// Edge is one labeled arc of the static directed graph.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Event  string `json:"event"`
	// Blocked marks a forbidden-event self-loop, present only when the
	// builder is configured to include them.
	Blocked bool `json:"blocked,omitempty"`
}

// DirectedGraph is the static view of a machine: every declared state node
// and every declared transition, independent of reachability.
type DirectedGraph struct {
	MachineID string `json:"machine_id"`
	Initial   string `json:"initial"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
}

// Option configures graph and adjacency construction.
type Option func(*options)

type options struct {
	includeBlocked bool
	includeNoops   bool
	iterationCap   int
}

// WithBlockedEdges renders forbidden-event entries as annotated self-loops
// instead of omitting them. Off by default: a forbidden event produces no
// movement, and most consumers only want real edges.
func WithBlockedEdges() Option {
	return func(o *options) { o.includeBlocked = true }
}

// WithNoopEdges records unhandled-event self-edges in the adjacency map.
// Off by default.
func WithNoopEdges() Option {
	return func(o *options) { o.includeNoops = true }
}

// WithIterationCap overrides the defensive bound on adjacency fixed-point
// expansion. The default is generous; tripping it means the machine or the
// engine is broken, not that the cap is too small.
func WithIterationCap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.iterationCap = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{iterationCap: 10000}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ToDirectedGraph enumerates every declared state node and transition of the
// machine. Transition targets are already resolved to absolute IDs, so every
// edge connects two existing nodes.
func ToDirectedGraph(m *statewalk.Machine, opts ...Option) (*DirectedGraph, error) {
	o := buildOptions(opts)
	nodes, err := m.StateNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate state nodes: %w", err)
	}

	g := &DirectedGraph{
		MachineID: m.ID(),
		Initial:   m.InitialState().Configuration.Key(),
	}
	for _, info := range nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:       info.ID,
			Type:     info.Type,
			Initial:  info.Initial,
			Parent:   info.Parent,
			Children: info.Children,
		})
		for _, tr := range info.Transitions {
			switch tr.Kind {
			case domain.TransitionForbidden:
				if o.includeBlocked {
					g.Edges = append(g.Edges, Edge{
						Source:  info.ID,
						Target:  info.ID,
						Event:   tr.Event,
						Blocked: true,
					})
				}
			case domain.TransitionTargeted:
				g.Edges = append(g.Edges, Edge{
					Source: info.ID,
					Target: tr.Target,
					Event:  tr.Event,
				})
			}
		}
	}
	return g, nil
}
