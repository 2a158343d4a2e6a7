package paths

import (
	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// Generator is a named path-selection strategy. One concrete type exists per
// strategy; test models pick one per run.
type Generator interface {
	// Name identifies the strategy in reports and diagnostics.
	Name() string
	// Paths produces the ordered set of paths to replay against a system
	// under test.
	Paths(m *statewalk.Machine) ([]*domain.Path, error)
}

type shortestGenerator struct {
	opts []graph.Option
}

// Shortest selects, for every reachable configuration, the unique shortest
// path to it.
func Shortest(opts ...graph.Option) Generator {
	return &shortestGenerator{opts: opts}
}

func (g *shortestGenerator) Name() string { return "shortest-paths" }

func (g *shortestGenerator) Paths(m *statewalk.Machine) ([]*domain.Path, error) {
	set, order, err := ShortestPaths(m, g.opts...)
	if err != nil {
		return nil, err
	}
	return set.Flatten(order), nil
}

type simpleGenerator struct {
	opts []graph.Option
}

// Simple selects every cycle-free path to every reachable configuration.
// Exhaustive, and exponential on heavily connected machines; prefer Shortest
// when the suite only needs to touch each configuration once.
func Simple(opts ...graph.Option) Generator {
	return &simpleGenerator{opts: opts}
}

func (g *simpleGenerator) Name() string { return "simple-paths" }

func (g *simpleGenerator) Paths(m *statewalk.Machine) ([]*domain.Path, error) {
	set, order, err := SimplePaths(m, g.opts...)
	if err != nil {
		return nil, err
	}
	return set.Flatten(order), nil
}

type eventsGenerator struct {
	events []any
	strict bool
}

// Events replays one explicit event sequence. With strict set, a no-op step
// fails generation instead of being recorded.
func Events(events []any, strict bool) Generator {
	return &eventsGenerator{events: events, strict: strict}
}

func (g *eventsGenerator) Name() string { return "from-events" }

func (g *eventsGenerator) Paths(m *statewalk.Machine) ([]*domain.Path, error) {
	path, err := FromEvents(m, g.events, g.strict)
	if err != nil {
		return nil, err
	}
	return []*domain.Path{path}, nil
}
