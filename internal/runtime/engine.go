package runtime

import (
	"github.com/aretw0/statewalk/pkg/domain"
)

// Engine computes transitions over a compiled tree. It is stateless: every
// method is a pure function of the tree and its arguments, so one Engine can
// serve any number of concurrent callers.
type Engine struct {
	tree *Tree
}

// NewEngine wraps a compiled tree.
func NewEngine(tree *Tree) *Engine {
	return &Engine{tree: tree}
}

// InitialState renders the machine's start state: the deepest-initial leaf
// under the root, with its entry actions and activities, and no history.
func (e *Engine) InitialState() *domain.State {
	leaf := DeepestInitial(e.tree.Root)
	config := leaf.Configuration()
	var actions []string
	for _, n := range pathFromTop(leaf) {
		actions = append(actions, n.OnEntry...)
	}
	return &domain.State{
		Value:         config.Value(),
		Configuration: config,
		Changed:       false,
		Actions:       actions,
		Activities:    collectActivities(leaf),
	}
}

// Dispatch applies one event to the active node and returns the resulting
// state together with the observed outcome classification.
//
// The lookup bubbles: a node with no entry at all for the event defers to
// its parent, up to the root. A node that maps the event to the forbidden
// marker stops the search without transitioning, even when an ancestor
// declares a handler. Only a targeted entry produces a transition; its
// target is resolved against the declaring node's scope and then descended
// to its deepest-initial leaf.
func (e *Engine) Dispatch(active *Node, event domain.Event, history *domain.State) (*domain.State, domain.TransitionResult, error) {
	for handler := active; handler != nil; handler = handler.Parent {
		tr, declared := handler.entry(event.Type)
		if !declared {
			continue
		}
		if tr.Forbidden {
			return e.unchangedState(active, history), domain.ResultBlocked, nil
		}
		target, err := resolveTarget(handler, tr.Target)
		if err != nil {
			return nil, "", err
		}
		return e.enter(active, target, history), domain.ResultChanged, nil
	}
	return e.unchangedState(active, history), domain.ResultUnhandled, nil
}

// enter performs the transition from the active leaf into target, collecting
// exit actions innermost-first up to (excluding) the common ancestor, then
// entry actions outermost-first down to the deepest-initial leaf of target.
func (e *Engine) enter(active, target *Node, history *domain.State) *domain.State {
	leaf := DeepestInitial(target)
	ancestor := commonAncestor(active, leaf)

	var actions []string
	for n := active; n != nil && n != ancestor && n.ID != ""; n = n.Parent {
		actions = append(actions, n.OnExit...)
	}
	entryPath := pathFromTop(leaf)
	if ancestor != nil {
		entryPath = entryPath[len(pathFromTop(ancestor)):]
	}
	for _, n := range entryPath {
		actions = append(actions, n.OnEntry...)
	}

	config := leaf.Configuration()
	return &domain.State{
		Value:         config.Value(),
		Configuration: config,
		Changed:       true,
		Actions:       actions,
		Activities:    collectActivities(leaf),
		History:       history,
	}
}

func (e *Engine) unchangedState(active *Node, history *domain.State) *domain.State {
	config := active.Configuration()
	return &domain.State{
		Value:         config.Value(),
		Configuration: config,
		Changed:       false,
		Actions:       []string{},
		Activities:    collectActivities(active),
		History:       history,
	}
}

// pathFromTop lists the nodes from the top of the tree down to n, inclusive.
func pathFromTop(n *Node) []*Node {
	var path []*Node
	for p := n; p != nil && p.ID != ""; p = p.Parent {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// collectActivities gathers the activity identifiers active while leaf is
// the configuration, outermost-first.
func collectActivities(leaf *Node) []string {
	var activities []string
	for _, n := range pathFromTop(leaf) {
		activities = append(activities, n.Activities...)
	}
	return activities
}
