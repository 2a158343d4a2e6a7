/*
Package statewalk is a hierarchical (statechart-style) finite-state-machine
interpreter with a graph layer for model-based test generation.

It separates the static state tree (Logic) from transition results (State)
and side-effects (action identifiers a Host executes). The engine itself is
pure: given the same configuration and event, the transition is always
reproducible, which is what makes exhaustive path generation possible.

# Concept

A machine is a tree of named states. Atomic states are leaves; compound
states declare children plus an initial child. Dispatching an event starts
at the active leaf and bubbles toward the root until a node declares the
event. A node may also explicitly forbid an event, which stops the bubbling
without transitioning. Entering a compound target descends its chain of
initial children to the unique leaf that becomes active.

On top of the interpreter, the graph layer turns any machine into a directed
graph over reachable configurations, and the paths layer enumerates shortest
or simple (cycle-free) paths through it. The testmodel package replays those
paths against a real system under test and asserts the observed state
matches the prediction at every step.

# Usage

	def := &domain.MachineDef{
		ID:      "light",
		Initial: "green",
		States: []domain.StateDef{
			{Key: "green", On: []domain.EventDef{domain.On("TIMER", "yellow")}},
			{Key: "yellow", On: []domain.EventDef{domain.On("TIMER", "red")}},
			{Key: "red", Initial: "walk", On: []domain.EventDef{domain.On("TIMER", "green")},
				States: []domain.StateDef{
					{Key: "walk", On: []domain.EventDef{domain.On("PED_COUNTDOWN", "wait"), domain.Forbid("TIMER")}},
					{Key: "wait", On: []domain.EventDef{domain.On("PED_COUNTDOWN", "stop"), domain.Forbid("TIMER")}},
					{Key: "stop"},
				}},
		},
	}

	machine, err := statewalk.New(def)
	if err != nil {
		log.Fatal(err)
	}

	state := machine.InitialState() // value "green"

	state, err = machine.Transition(state, "TIMER") // value "yellow"
	if err != nil {
		log.Fatal(err)
	}

	// Configurations are accepted as dotted strings or nested mappings.
	state, err = machine.Transition("red.walk", "PED_COUNTDOWN")

Machines can also be loaded from YAML files (see LoadFile) or built with the
fluent builder in pkg/dsl.
*/
package statewalk
