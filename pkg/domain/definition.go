package domain

// MachineDef is the literal form of a machine: the root of the definition
// tree plus the machine identity. Definitions are plain data; compile one
// into a runnable machine with statewalk.New.
type MachineDef struct {
	ID      string     `json:"id" yaml:"id"`
	Initial string     `json:"initial" yaml:"initial"`
	States  []StateDef `json:"states" yaml:"states"`
}

// StateDef describes one node of the state tree. A node with child States is
// compound and must declare Initial; a node without children is atomic.
//
// Slices, not maps: declaration order is semantically significant (it breaks
// ties in path search), so the literal keeps states and events in the order
// the author wrote them.
type StateDef struct {
	Key        string       `json:"key" yaml:"key"`
	Initial    string       `json:"initial,omitempty" yaml:"initial,omitempty"`
	States     []StateDef   `json:"states,omitempty" yaml:"states,omitempty"`
	On         []EventDef   `json:"on,omitempty" yaml:"on,omitempty"`
	OnEntry    []string     `json:"on_entry,omitempty" yaml:"on_entry,omitempty"`
	OnExit     []string     `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`
	Activities []string     `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// EventDef maps one event type to its outcome on a node. The entry is
// tri-state; absence from StateDef.On is the third state (unmapped, the
// event bubbles to the parent):
//
//   - Forbidden false: the event transitions to Target.
//   - Forbidden true: the event is explicitly blocked at this node. It does
//     not bubble and does not change state. Distinct from omitting the event.
type EventDef struct {
	Event     string `json:"event" yaml:"event"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty"`
	Forbidden bool   `json:"forbidden,omitempty" yaml:"forbidden,omitempty"`
}

// On builds a targeted event entry.
func On(event, target string) EventDef {
	return EventDef{Event: event, Target: target}
}

// Forbid builds an explicitly-forbidden event entry.
func Forbid(event string) EventDef {
	return EventDef{Event: event, Forbidden: true}
}

// NodeType discriminates leaves from branches of the compiled tree.
type NodeType string

const (
	NodeAtomic   NodeType = "atomic"
	NodeCompound NodeType = "compound"
)

// TransitionKind is the compiled form of the tri-state event entry.
type TransitionKind string

const (
	// TransitionTargeted moves the machine to the resolved target.
	TransitionTargeted TransitionKind = "targeted"
	// TransitionForbidden blocks the event at this node without bubbling.
	TransitionForbidden TransitionKind = "forbidden"
)

// NodeInfo is a read-only snapshot of one compiled state node, exposed for
// graph construction and rendering. It carries resolved absolute IDs, so
// consumers never re-run reference resolution.
type NodeInfo struct {
	ID          string           // dotted absolute path, e.g. "red.walk"
	Key         string           // last segment of ID
	Type        NodeType
	Initial     string           // key of the default child (compound only)
	Parent      string           // ID of the parent, "" for top level
	Children    []string         // child IDs, declaration order
	Transitions []TransitionInfo // declaration order
	OnEntry     []string
	OnExit      []string
	Activities  []string
}

// TransitionInfo is one compiled transition entry of a node.
type TransitionInfo struct {
	Event  string
	Kind   TransitionKind
	Target string // resolved absolute ID; empty when Kind is TransitionForbidden
}
