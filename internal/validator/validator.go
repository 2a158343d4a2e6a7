// Package validator checks machine definitions eagerly and whole. Compilation
// reports structural problems one at a time as they are hit; Validate instead
// collects every dangling transition target and every state no event sequence
// can reach, so a broken definition gets fixed in one pass.
package validator

import (
	"fmt"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/internal/runtime"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/graph"
)

// Validate returns nil for a well-formed definition, or a
// *domain.DefinitionError aggregating everything wrong with it.
// Reachability is only checked once every target resolves, since exploring
// the machine needs working transitions.
func Validate(def *domain.MachineDef) error {
	var id string
	if def != nil {
		id = def.ID
	}

	tree, err := runtime.Compile(def)
	if err != nil {
		return &domain.DefinitionError{MachineID: id, Problems: []error{err}}
	}

	problems := tree.CheckTargets()
	if len(problems) == 0 {
		problems, err = unreachable(def, tree)
		if err != nil {
			return &domain.DefinitionError{MachineID: id, Problems: []error{err}}
		}
	}

	if len(problems) > 0 {
		return &domain.DefinitionError{MachineID: id, Problems: problems}
	}
	return nil
}

// unreachable crawls the machine from its initial configuration and reports
// every leaf the crawl never visits. A compound state is covered as soon as
// one of its leaves is.
func unreachable(def *domain.MachineDef, tree *runtime.Tree) ([]error, error) {
	m, err := statewalk.New(def)
	if err != nil {
		return nil, err
	}
	adjacency, err := graph.GetAdjacencyMap(m)
	if err != nil {
		return nil, err
	}

	reached := make(map[string]bool)
	for _, config := range adjacency.Configurations() {
		reached[config.Key()] = true
	}

	nodes, err := tree.Nodes()
	if err != nil {
		return nil, err
	}
	var problems []error
	for _, node := range nodes {
		if node.Type != domain.NodeAtomic {
			continue
		}
		if !reached[node.ID] {
			problems = append(problems, fmt.Errorf("state %q is unreachable from the initial configuration", node.ID))
		}
	}
	return problems, nil
}
