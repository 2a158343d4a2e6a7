package statewalk

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/statewalk/internal/loader"
	"github.com/aretw0/statewalk/internal/logging"
	"github.com/aretw0/statewalk/internal/runtime"
	"github.com/aretw0/statewalk/pkg/domain"
)

// Version is the library version, surfaced by the CLI.
var Version = "0.3.0"

// Machine is the public facade over a compiled state tree: it resolves
// external configuration representations, dispatches events, and exposes
// read-only snapshots for graph construction. A Machine is immutable after
// New and safe for concurrent use.
type Machine struct {
	def    *domain.MachineDef
	tree   *runtime.Tree
	engine *runtime.Engine
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLifecycleHooks registers observability callbacks invoked after every
// dispatch.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger injects a structured logger. The engine logs nothing by
// default; with a logger set it emits one debug record per dispatch.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New compiles a machine definition.
func New(def *domain.MachineDef, opts ...Option) (*Machine, error) {
	tree, err := runtime.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile machine: %w", err)
	}
	m := &Machine{
		def:    def,
		tree:   tree,
		engine: runtime.NewEngine(tree),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// LoadFile reads a YAML machine definition from disk and compiles it.
func LoadFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine definition: %w", err)
	}
	return LoadBytes(data, opts...)
}

// LoadBytes parses a YAML machine definition and compiles it.
func LoadBytes(data []byte, opts ...Option) (*Machine, error) {
	def, err := loader.Parse(data)
	if err != nil {
		return nil, err
	}
	return New(def, opts...)
}

// ID returns the machine identity from its definition.
func (m *Machine) ID() string { return m.def.ID }

// Definition returns the definition literal the machine was compiled from.
// Callers must treat it as read-only.
func (m *Machine) Definition() *domain.MachineDef { return m.def }

// Events returns the declared event vocabulary in declaration order.
func (m *Machine) Events() []string { return m.tree.Events() }

// StateNodes returns read-only snapshots of every state node in document
// order, with transition targets resolved to absolute IDs.
func (m *Machine) StateNodes() ([]domain.NodeInfo, error) {
	nodes, err := m.tree.Nodes()
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", m.def.ID, err)
	}
	return nodes, nil
}

// InitialState computes the machine's start state: the deepest-initial leaf
// under the root. History is absent.
func (m *Machine) InitialState() *domain.State {
	return m.engine.InitialState()
}

// Transition applies one event to the given state and returns the resulting
// immutable State. The state argument accepts a dotted string, a nested
// mapping, a Configuration, or a *State produced earlier; in the latter case
// the result's History points back to it. The event accepts a bare type
// string, an Event, or a map with a "type" entry.
//
// An event no node up to the root declares, or one the active branch
// explicitly forbids, is not an error: the result carries Changed == false
// and the unchanged configuration.
func (m *Machine) Transition(state any, event any) (*domain.State, error) {
	ev, err := domain.EventFrom(event)
	if err != nil {
		return nil, err
	}

	config, err := domain.ConfigurationFrom(state)
	if err != nil {
		return nil, err
	}
	node, err := m.tree.Resolve(config)
	if err != nil {
		return nil, err
	}

	var history *domain.State
	if prior, ok := state.(*domain.State); ok {
		history = prior
	}

	// A compound starting configuration denotes its deepest-initial leaf.
	node = runtime.DeepestInitial(node)

	next, result, err := m.engine.Dispatch(node, ev, history)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("dispatch",
		slog.String("machine", m.def.ID),
		slog.String("from", config.Key()),
		slog.String("event", ev.Type),
		slog.String("result", string(result)),
		slog.String("to", next.Configuration.Key()))

	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(&domain.TransitionObservation{
			MachineID: m.def.ID,
			From:      node.Configuration(),
			To:        next.Configuration,
			Event:     ev,
			Result:    result,
			Actions:   next.Actions,
		})
	}
	return next, nil
}
