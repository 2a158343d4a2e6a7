package graph

import (
	"fmt"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
)

// AdjacencyEdge records one (configuration, event) outcome.
type AdjacencyEdge struct {
	Event domain.Event        `json:"event"`
	State domain.Configuration `json:"state"`
	// Changed is false only for no-op self-edges recorded under
	// WithNoopEdges.
	Changed bool `json:"changed"`
}

// AdjacencyEntry holds the outgoing edges of one reachable configuration,
// keyed by canonical event key and ordered by the machine's declared event
// order.
type AdjacencyEntry struct {
	Configuration domain.Configuration
	edges         map[string]AdjacencyEdge
	order         []string
}

// Edges iterates the entry's edges in declared event order.
func (e *AdjacencyEntry) Edges() []AdjacencyEdge {
	out := make([]AdjacencyEdge, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.edges[key])
	}
	return out
}

// Edge looks an edge up by canonical event key.
func (e *AdjacencyEntry) Edge(eventKey string) (AdjacencyEdge, bool) {
	edge, ok := e.edges[eventKey]
	return edge, ok
}

// AdjacencyMap is the reachable behavior of a machine: for every
// configuration reachable from the initial state, the outcome of every
// declared event. Built once, then read-only.
type AdjacencyMap struct {
	Initial domain.Configuration
	entries map[string]*AdjacencyEntry
	order   []string // discovery order of configuration keys
}

// Entry returns the adjacency entry for a canonical configuration key.
func (a *AdjacencyMap) Entry(configKey string) (*AdjacencyEntry, bool) {
	entry, ok := a.entries[configKey]
	return entry, ok
}

// Configurations returns the reachable configurations in discovery order.
func (a *AdjacencyMap) Configurations() []domain.Configuration {
	out := make([]domain.Configuration, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.entries[key].Configuration)
	}
	return out
}

// Len returns the number of reachable configurations.
func (a *AdjacencyMap) Len() int { return len(a.order) }

// Triple is one flattened adjacency record.
type Triple struct {
	State     domain.Configuration `json:"state"`
	Event     domain.Event         `json:"event"`
	NextState domain.Configuration `json:"next_state"`
}

// ToArray flattens the map into (state, event, nextState) triples ordered by
// discovery order, for deterministic snapshot comparison.
func (a *AdjacencyMap) ToArray() []Triple {
	var out []Triple
	for _, key := range a.order {
		entry := a.entries[key]
		for _, edge := range entry.Edges() {
			out = append(out, Triple{
				State:     entry.Configuration,
				Event:     edge.Event,
				NextState: edge.State,
			})
		}
	}
	return out
}

// GetAdjacencyMap explores the machine by fixed-point expansion: starting at
// the initial configuration, every declared event is applied to every newly
// discovered configuration until no new configuration appears. The
// configuration space is bounded by the tree's leaf count, so expansion
// always converges on a correct engine; the iteration cap turns a
// non-converging construction bug into domain.ErrGraphOverflow instead of a
// hang.
func GetAdjacencyMap(m *statewalk.Machine, opts ...Option) (*AdjacencyMap, error) {
	o := buildOptions(opts)
	events := m.Events()

	initial := m.InitialState().Configuration
	adjacency := &AdjacencyMap{
		Initial: initial,
		entries: make(map[string]*AdjacencyEntry),
	}

	frontier := []domain.Configuration{initial}
	for iterations := 0; len(frontier) > 0; iterations++ {
		if iterations >= o.iterationCap {
			return nil, fmt.Errorf("%w: expansion exceeded %d iterations", domain.ErrGraphOverflow, o.iterationCap)
		}

		config := frontier[0]
		frontier = frontier[1:]
		key := config.Key()
		if _, seen := adjacency.entries[key]; seen {
			continue
		}
		entry := &AdjacencyEntry{
			Configuration: config,
			edges:         make(map[string]AdjacencyEdge),
		}
		adjacency.entries[key] = entry
		adjacency.order = append(adjacency.order, key)

		for _, eventType := range events {
			event := domain.Event{Type: eventType}
			state, err := m.Transition(config, event)
			if err != nil {
				return nil, fmt.Errorf("expansion from %q on %q: %w", key, eventType, err)
			}
			if !state.Changed && !o.includeNoops {
				continue
			}
			entry.edges[event.Key()] = AdjacencyEdge{
				Event:   event,
				State:   state.Configuration,
				Changed: state.Changed,
			}
			entry.order = append(entry.order, event.Key())
			if _, seen := adjacency.entries[state.Configuration.Key()]; !seen {
				frontier = append(frontier, state.Configuration)
			}
		}
	}
	return adjacency, nil
}
