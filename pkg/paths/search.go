package paths

import (
	"fmt"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// PathSet maps canonical configuration keys to the paths reaching them.
// Every reachable configuration appears; the initial configuration carries
// an empty path.
type PathSet map[string][]*domain.Path

// Targets returns the configuration keys of the set in an unspecified order.
func (ps PathSet) Targets() []string {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	return keys
}

// Flatten collects every path of the set following the given target order
// (the searches return their discovery order for exactly this purpose).
func (ps PathSet) Flatten(order []domain.Configuration) []*domain.Path {
	var out []*domain.Path
	for _, config := range order {
		out = append(out, ps[config.Key()]...)
	}
	return out
}

// ShortestPaths runs breadth-first search over the adjacency map from the
// initial configuration and returns, for every reachable configuration, the
// unique shortest path to it.
//
// Determinism: the queue is FIFO and a configuration is marked visited the
// moment it is first reached (not when dequeued), so the recorded path is
// the first found. Among equal-length candidates that makes it the
// lexicographically-first by declared event order.
func ShortestPaths(m *statewalk.Machine, opts ...graph.Option) (PathSet, []domain.Configuration, error) {
	adjacency, err := graph.GetAdjacencyMap(m, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("shortest paths: %w", err)
	}

	initial := adjacency.Initial
	result := PathSet{
		initial.Key(): {{Target: initial}},
	}
	order := []domain.Configuration{initial}

	queue := []domain.Configuration{initial}
	for len(queue) > 0 {
		config := queue[0]
		queue = queue[1:]
		entry, ok := adjacency.Entry(config.Key())
		if !ok {
			continue
		}
		base := result[config.Key()][0]
		for _, edge := range entry.Edges() {
			nextKey := edge.State.Key()
			if _, visited := result[nextKey]; visited {
				continue
			}
			path := base.Clone()
			path.Target = edge.State
			path.Steps = append(path.Steps, domain.Step{
				State:     config,
				Event:     edge.Event,
				NextState: edge.State,
				Changed:   edge.Changed,
			})
			result[nextKey] = []*domain.Path{path}
			order = append(order, edge.State)
			queue = append(queue, edge.State)
		}
	}
	return result, order, nil
}

// SimplePaths runs depth-first search and returns, for every reachable
// configuration, every distinct simple (cycle-free) path to it. Cycle
// avoidance is local to the path under construction: a configuration
// already on the current path terminates that branch, but the same
// configuration may still be reached along other branches.
func SimplePaths(m *statewalk.Machine, opts ...graph.Option) (PathSet, []domain.Configuration, error) {
	adjacency, err := graph.GetAdjacencyMap(m, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("simple paths: %w", err)
	}

	initial := adjacency.Initial
	result := PathSet{}
	var order []domain.Configuration

	record := func(target domain.Configuration, steps []domain.Step) {
		key := target.Key()
		if _, seen := result[key]; !seen {
			order = append(order, target)
		}
		path := &domain.Path{
			Target: append(domain.Configuration(nil), target...),
			Steps:  append([]domain.Step(nil), steps...),
		}
		result[key] = append(result[key], path)
	}

	onPath := map[string]bool{}
	var steps []domain.Step

	var visit func(config domain.Configuration)
	visit = func(config domain.Configuration) {
		key := config.Key()
		onPath[key] = true
		record(config, steps)

		if entry, ok := adjacency.Entry(key); ok {
			for _, edge := range entry.Edges() {
				if onPath[edge.State.Key()] {
					continue
				}
				steps = append(steps, domain.Step{
					State:     config,
					Event:     edge.Event,
					NextState: edge.State,
					Changed:   edge.Changed,
				})
				visit(edge.State)
				steps = steps[:len(steps)-1]
			}
		}
		delete(onPath, key)
	}
	visit(initial)

	return result, order, nil
}
