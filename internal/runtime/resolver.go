package runtime

import (
	"strings"

	"github.com/aretw0/statewalk/pkg/domain"
)

// Resolve walks the tree along the segments of a canonical configuration and
// returns the addressed node. Descending into an atomic node, or naming a
// child that does not exist, is an InvalidStateReferenceError.
func (t *Tree) Resolve(config domain.Configuration) (*Node, error) {
	if len(config) == 0 {
		return nil, &domain.InvalidStateReferenceError{Reference: config.Key()}
	}
	current := t.Root
	for _, segment := range config {
		child, ok := current.childByKey[segment]
		if !ok {
			return nil, &domain.InvalidStateReferenceError{Reference: config.Key()}
		}
		current = child
	}
	return current, nil
}

// DeepestInitial descends a node through its chain of initial children to
// the unique leaf that becomes active when the node is entered. An atomic
// node is its own deepest initial.
func DeepestInitial(node *Node) *Node {
	current := node
	for current.Type == domain.NodeCompound {
		// Compile guarantees the initial child exists.
		current = current.childByKey[current.Initial]
	}
	return current
}

// Configuration renders a node as the canonical path from the top of the
// tree down to it.
func (n *Node) Configuration() domain.Configuration {
	var depth int
	for p := n; p != nil && p.ID != ""; p = p.Parent {
		depth++
	}
	config := make(domain.Configuration, depth)
	for p := n; p != nil && p.ID != ""; p = p.Parent {
		depth--
		config[depth] = p.Key
	}
	return config
}

// resolveTarget resolves a transition target reference declared on node.
// References support three notations: a bare sibling key, a dotted path, and
// a key living on an ancestor's other branch. Resolution starts at the
// parent of the declaring node and retries one ancestor up at a time until a
// scope owns the first segment; descent below that scope is strict.
func resolveTarget(node *Node, ref string) (*Node, error) {
	if ref == "" {
		return nil, &domain.InvalidStateReferenceError{Reference: ref, Context: node.ID}
	}
	segments := strings.Split(ref, ".")
	for scope := node.Parent; scope != nil; scope = scope.Parent {
		candidate, ok := scope.childByKey[segments[0]]
		if !ok {
			continue
		}
		for _, segment := range segments[1:] {
			candidate, ok = candidate.childByKey[segment]
			if !ok {
				return nil, &domain.InvalidStateReferenceError{Reference: ref, Context: node.ID}
			}
		}
		return candidate, nil
	}
	return nil, &domain.InvalidStateReferenceError{Reference: ref, Context: node.ID}
}

// CheckTargets eagerly resolves every targeted transition declared anywhere
// in the tree and returns one error per dangling reference. Dispatch resolves
// lazily, so a broken target on a transition that never fires would otherwise
// stay hidden until runtime.
func (t *Tree) CheckTargets() []error {
	var problems []error
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, tr := range n.transitions {
			if !tr.Forbidden {
				if _, err := resolveTarget(n, tr.Target); err != nil {
					problems = append(problems, err)
				}
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.Root)
	return problems
}

// commonAncestor returns the deepest node that is an ancestor of both a and
// b (possibly one of them), or nil when only the implicit root is shared.
func commonAncestor(a, b *Node) *Node {
	seen := make(map[string]bool)
	for p := a; p != nil && p.ID != ""; p = p.Parent {
		seen[p.ID] = true
	}
	for p := b; p != nil && p.ID != ""; p = p.Parent {
		if seen[p.ID] {
			return p
		}
	}
	return nil
}
