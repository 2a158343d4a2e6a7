package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewalk/pkg/domain"
)

// Node is one compiled state of the tree. Children own their entries in
// declaration order; Parent is a non-owning back reference. The arena in
// Tree.byID keeps every node addressable by its interned dotted ID.
type Node struct {
	Key        string
	ID         string // dotted absolute path; "" only for the implicit root
	Type       domain.NodeType
	Parent     *Node
	Children   []*Node
	Initial    string
	OnEntry    []string
	OnExit     []string
	Activities []string

	childByKey  map[string]*Node
	transitions []transition
	transByType map[string]transition
}

// transition is the compiled tri-state entry for one event type. Unmapped is
// represented by absence from transByType.
type transition struct {
	Event     string
	Forbidden bool
	Target    string // raw reference as declared; resolved lazily
}

// Tree is the immutable compiled machine: an arena of nodes addressed by
// interned dotted IDs, plus the declared event vocabulary in declaration
// order. Safe for concurrent reads; never mutated after Compile.
type Tree struct {
	MachineID string
	Root      *Node
	byID      map[string]*Node
	events    []string
}

// Compile builds the tree from a definition literal. It checks structural
// invariants that must hold regardless of any event ever being dispatched:
// unique sibling keys, dot-free keys, compound nodes declaring an existing
// initial child, a non-empty root. Transition targets are resolved on
// dispatch (the resolution scope depends on the handling node), but see the
// validator for eager whole-definition checking.
func Compile(def *domain.MachineDef) (*Tree, error) {
	if def == nil {
		return nil, fmt.Errorf("nil machine definition")
	}
	if len(def.States) == 0 {
		return nil, fmt.Errorf("machine %q: no states declared", def.ID)
	}

	tree := &Tree{
		MachineID: def.ID,
		byID:      make(map[string]*Node),
	}
	root := &Node{
		Type:        domain.NodeCompound,
		Initial:     def.Initial,
		childByKey:  make(map[string]*Node),
		transByType: make(map[string]transition),
	}
	tree.Root = root

	seenEvents := make(map[string]bool)
	for _, sd := range def.States {
		child, err := tree.compileNode(root, sd, seenEvents)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	if err := checkInitial(root, def.ID); err != nil {
		return nil, err
	}
	return tree, nil
}

func (t *Tree) compileNode(parent *Node, sd domain.StateDef, seenEvents map[string]bool) (*Node, error) {
	if sd.Key == "" {
		return nil, fmt.Errorf("state under %q has an empty key", parent.ID)
	}
	if strings.Contains(sd.Key, ".") {
		return nil, fmt.Errorf("state key %q: dots are reserved for path notation", sd.Key)
	}
	if _, dup := parent.childByKey[sd.Key]; dup {
		return nil, fmt.Errorf("duplicate state key %q under %q", sd.Key, parent.ID)
	}

	id := sd.Key
	if parent.ID != "" {
		id = parent.ID + "." + sd.Key
	}
	node := &Node{
		Key:         sd.Key,
		ID:          id,
		Parent:      parent,
		Initial:     sd.Initial,
		OnEntry:     sd.OnEntry,
		OnExit:      sd.OnExit,
		Activities:  sd.Activities,
		childByKey:  make(map[string]*Node),
		transByType: make(map[string]transition),
	}
	if len(sd.States) == 0 {
		node.Type = domain.NodeAtomic
	} else {
		node.Type = domain.NodeCompound
	}

	for _, ed := range sd.On {
		if ed.Event == "" {
			return nil, fmt.Errorf("state %q: transition with empty event type", id)
		}
		if _, dup := node.transByType[ed.Event]; dup {
			return nil, fmt.Errorf("state %q: duplicate transition for event %q", id, ed.Event)
		}
		tr := transition{
			Event:     ed.Event,
			Forbidden: ed.Forbidden,
			Target:    ed.Target,
		}
		node.transitions = append(node.transitions, tr)
		node.transByType[ed.Event] = tr
		if !seenEvents[ed.Event] {
			seenEvents[ed.Event] = true
			t.events = append(t.events, ed.Event)
		}
	}

	for _, child := range sd.States {
		compiled, err := t.compileNode(node, child, seenEvents)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, compiled)
	}
	if err := checkInitial(node, id); err != nil {
		return nil, err
	}

	parent.childByKey[sd.Key] = node
	t.byID[id] = node
	return node, nil
}

func checkInitial(node *Node, label string) error {
	if node.Type != domain.NodeCompound {
		if node.Initial != "" {
			return fmt.Errorf("state %q: initial declared on an atomic state", label)
		}
		return nil
	}
	if node.Initial == "" {
		return fmt.Errorf("state %q: compound state without an initial child", label)
	}
	if _, ok := node.childByKey[node.Initial]; !ok {
		return fmt.Errorf("state %q: initial child %q does not exist", label, node.Initial)
	}
	return nil
}

// Lookup resolves a dotted absolute ID to its node.
func (t *Tree) Lookup(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Events returns the machine's declared event vocabulary in declaration
// order, each type once.
func (t *Tree) Events() []string {
	return append([]string(nil), t.events...)
}

// Nodes returns read-only snapshots of every compiled node in document
// order, with transition targets resolved to absolute IDs. Unresolvable
// targets are reported so graph construction never renders dangling edges.
func (t *Tree) Nodes() ([]domain.NodeInfo, error) {
	var infos []domain.NodeInfo
	var walk func(n *Node) error
	walk = func(n *Node) error {
		for _, child := range n.Children {
			info := domain.NodeInfo{
				ID:         child.ID,
				Key:        child.Key,
				Type:       child.Type,
				Initial:    child.Initial,
				OnEntry:    child.OnEntry,
				OnExit:     child.OnExit,
				Activities: child.Activities,
			}
			if child.Parent != nil {
				info.Parent = child.Parent.ID
			}
			for _, c := range child.Children {
				info.Children = append(info.Children, c.ID)
			}
			for _, tr := range child.transitions {
				ti := domain.TransitionInfo{Event: tr.Event}
				if tr.Forbidden {
					ti.Kind = domain.TransitionForbidden
				} else {
					ti.Kind = domain.TransitionTargeted
					target, err := resolveTarget(child, tr.Target)
					if err != nil {
						return err
					}
					ti.Target = target.ID
				}
				info.Transitions = append(info.Transitions, ti)
			}
			infos = append(infos, info)
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.Root); err != nil {
		return nil, err
	}
	return infos, nil
}

// Transitions exposes a node's declared entries in declaration order for the
// engine and the resolver.
func (n *Node) entry(eventType string) (transition, bool) {
	tr, ok := n.transByType[eventType]
	return tr, ok
}
