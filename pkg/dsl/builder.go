package dsl

import (
	"github.com/aretw0/statewalk/pkg/domain"
)

// Builder manages the machine definition under construction.
type Builder struct {
	id      string
	initial string
	states  []*StateBuilder
}

// New creates a builder for a machine with the given identity.
func New(id string) *Builder {
	return &Builder{id: id}
}

// Initial sets the machine's initial top-level state key.
func (b *Builder) Initial(key string) *Builder {
	b.initial = key
	return b
}

// State adds a top-level state and returns its builder.
func (b *Builder) State(key string) *StateBuilder {
	sb := &StateBuilder{key: key, machine: b}
	b.states = append(b.states, sb)
	return sb
}

// Build assembles the definition literal. Structural validation happens when
// the definition is compiled; Build itself never fails.
func (b *Builder) Build() *domain.MachineDef {
	def := &domain.MachineDef{
		ID:      b.id,
		Initial: b.initial,
	}
	for _, sb := range b.states {
		def.States = append(def.States, sb.build())
	}
	return def
}

// StateBuilder configures one state node.
type StateBuilder struct {
	key        string
	initial    string
	on         []domain.EventDef
	onEntry    []string
	onExit     []string
	activities []string
	children   []*StateBuilder

	machine *Builder
	parent  *StateBuilder
}

// Initial sets the state's initial child key, making it compound.
func (sb *StateBuilder) Initial(key string) *StateBuilder {
	sb.initial = key
	return sb
}

// On declares a targeted transition.
func (sb *StateBuilder) On(event, target string) *StateBuilder {
	sb.on = append(sb.on, domain.On(event, target))
	return sb
}

// Forbid declares the event explicitly blocked at this state.
func (sb *StateBuilder) Forbid(event string) *StateBuilder {
	sb.on = append(sb.on, domain.Forbid(event))
	return sb
}

// OnEntry appends entry action identifiers.
func (sb *StateBuilder) OnEntry(actions ...string) *StateBuilder {
	sb.onEntry = append(sb.onEntry, actions...)
	return sb
}

// OnExit appends exit action identifiers.
func (sb *StateBuilder) OnExit(actions ...string) *StateBuilder {
	sb.onExit = append(sb.onExit, actions...)
	return sb
}

// Activities appends activity identifiers.
func (sb *StateBuilder) Activities(activities ...string) *StateBuilder {
	sb.activities = append(sb.activities, activities...)
	return sb
}

// Child adds a child state and returns its builder. Call Done on the child
// to come back to this state.
func (sb *StateBuilder) Child(key string) *StateBuilder {
	child := &StateBuilder{key: key, machine: sb.machine, parent: sb}
	sb.children = append(sb.children, child)
	return child
}

// Done returns to the parent state's builder, or to a top-level position
// where the next State call continues the machine.
func (sb *StateBuilder) Done() *StateBuilder {
	if sb.parent != nil {
		return sb.parent
	}
	return sb
}

// State starts a new top-level state from anywhere in the chain.
func (sb *StateBuilder) State(key string) *StateBuilder {
	return sb.machine.State(key)
}

// Build assembles the whole machine definition from anywhere in the chain.
func (sb *StateBuilder) Build() *domain.MachineDef {
	return sb.machine.Build()
}

func (sb *StateBuilder) build() domain.StateDef {
	def := domain.StateDef{
		Key:        sb.key,
		Initial:    sb.initial,
		On:         sb.on,
		OnEntry:    sb.onEntry,
		OnExit:     sb.onExit,
		Activities: sb.activities,
	}
	for _, child := range sb.children {
		def.States = append(def.States, child.build())
	}
	return def
}
