package testmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
)

// Report accumulates what a run exercised across all executed paths: the
// union of configurations reached and of (configuration, event) transitions
// taken. It backs the coverage assertion "every state node and every
// non-forbidden transition was exercised at least once".
type Report struct {
	MachineID     string
	Generator     string
	PathsExecuted int
	Failures      []*AssertionError

	visitedConfigs     map[string]bool
	visitedTransitions map[string]bool
	machine            *statewalk.Machine
}

func newReport(machine *statewalk.Machine, generator string) *Report {
	return &Report{
		MachineID:          machine.ID(),
		Generator:          generator,
		visitedConfigs:     make(map[string]bool),
		visitedTransitions: make(map[string]bool),
		machine:            machine,
	}
}

func (r *Report) visitConfiguration(config domain.Configuration) {
	r.visitedConfigs[config.Key()] = true
}

func (r *Report) visitStep(step domain.Step) {
	r.visitedConfigs[step.State.Key()] = true
	r.visitedConfigs[step.NextState.Key()] = true
	if step.Changed {
		r.visitedTransitions[step.State.Key()+"|"+step.Event.Key()] = true
	}
}

// ConfigurationsVisited returns the configurations reached, sorted.
func (r *Report) ConfigurationsVisited() []string {
	return sortedKeys(r.visitedConfigs)
}

// TransitionsVisited returns the "config|event" transition keys taken,
// sorted.
func (r *Report) TransitionsVisited() []string {
	return sortedKeys(r.visitedTransitions)
}

// Coverage summarizes how much of the machine the run exercised: the
// fraction of leaf states and of non-forbidden declared transitions visited,
// each in [0, 1].
func (r *Report) Coverage() (states, transitions float64, err error) {
	nodes, err := r.machine.StateNodes()
	if err != nil {
		return 0, 0, err
	}
	byID := nodesByID(nodes)

	var totalStates, hitStates int
	var totalTransitions, hitTransitions int
	for _, node := range nodes {
		if node.Type == domain.NodeAtomic {
			totalStates++
			if r.visitedConfigs[node.ID] {
				hitStates++
			}
		}
		for _, tr := range node.Transitions {
			if tr.Kind == domain.TransitionForbidden {
				continue
			}
			totalTransitions++
			if r.transitionTaken(node, tr.Event, byID) {
				hitTransitions++
			}
		}
	}

	states, transitions = 1, 1
	if totalStates > 0 {
		states = float64(hitStates) / float64(totalStates)
	}
	if totalTransitions > 0 {
		transitions = float64(hitTransitions) / float64(totalTransitions)
	}
	return states, transitions, nil
}

// AssertCoverage verifies that every leaf state node and every non-forbidden
// declared transition was exercised at least once. Compound nodes are
// covered through their leaves, since they are never themselves a configuration.
func (r *Report) AssertCoverage() error {
	nodes, err := r.machine.StateNodes()
	if err != nil {
		return err
	}
	byID := nodesByID(nodes)

	var missing []string
	for _, node := range nodes {
		if node.Type == domain.NodeCompound {
			continue
		}
		if !r.visitedConfigs[node.ID] {
			missing = append(missing, "state "+node.ID)
		}
	}
	for _, node := range nodes {
		for _, tr := range node.Transitions {
			if tr.Kind == domain.TransitionForbidden {
				continue
			}
			if !r.transitionTaken(node, tr.Event, byID) {
				missing = append(missing, fmt.Sprintf("transition %s on %s", tr.Event, node.ID))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("coverage incomplete (%d gaps): %s", len(missing), strings.Join(missing, ", "))
	}
	return nil
}

// transitionTaken reports whether node's own handler for event fired. Steps
// are recorded under their leaf configuration, so for a handler declared on a
// compound node the recorded leaf must also have this node as its deepest
// declarer of the event: a descendant declaring the event itself shadows this
// handler, and its steps must not count here.
func (r *Report) transitionTaken(node domain.NodeInfo, event string, byID map[string]domain.NodeInfo) bool {
	eventKey := domain.Event{Type: event}.Key()
	if node.Type == domain.NodeAtomic {
		// A leaf declaring the event always shadows its ancestors.
		return r.visitedTransitions[node.ID+"|"+eventKey]
	}
	for _, leaf := range byID {
		if leaf.Type != domain.NodeAtomic || !strings.HasPrefix(leaf.ID, node.ID+".") {
			continue
		}
		if r.visitedTransitions[leaf.ID+"|"+eventKey] && handlerFor(leaf, event, byID) == node.ID {
			return true
		}
	}
	return false
}

// handlerFor returns the ID of the deepest node, from leaf upward, that
// declares the event: the one whose entry a dispatch from leaf uses.
func handlerFor(leaf domain.NodeInfo, event string, byID map[string]domain.NodeInfo) string {
	for current := leaf; ; current = byID[current.Parent] {
		for _, tr := range current.Transitions {
			if tr.Event == event {
				return current.ID
			}
		}
		if current.Parent == "" {
			return ""
		}
	}
}

func nodesByID(nodes []domain.NodeInfo) map[string]domain.NodeInfo {
	byID := make(map[string]domain.NodeInfo, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}
	return byID
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
