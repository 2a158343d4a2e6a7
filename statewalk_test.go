package statewalk_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
)

func lightDef() *domain.MachineDef {
	return &domain.MachineDef{
		ID:      "light",
		Initial: "green",
		States: []domain.StateDef{
			{Key: "green", On: []domain.EventDef{domain.On("TIMER", "yellow")}},
			{Key: "yellow", On: []domain.EventDef{domain.On("TIMER", "red")}},
			{
				Key:     "red",
				Initial: "walk",
				On:      []domain.EventDef{domain.On("TIMER", "green")},
				States: []domain.StateDef{
					{Key: "walk", On: []domain.EventDef{
						domain.On("PED_COUNTDOWN", "wait"),
						domain.Forbid("TIMER"),
					}},
					{Key: "wait", On: []domain.EventDef{
						domain.On("PED_COUNTDOWN", "stop"),
						domain.Forbid("TIMER"),
					}},
					{Key: "stop"},
				},
			},
		},
	}
}

func newLight(t *testing.T, opts ...statewalk.Option) *statewalk.Machine {
	t.Helper()
	m, err := statewalk.New(lightDef(), opts...)
	if err != nil {
		t.Fatalf("failed to build machine: %v", err)
	}
	return m
}

func TestMachine_InitialState(t *testing.T) {
	m := newLight(t)
	state := m.InitialState()
	if state.Value != "green" || state.History != nil {
		t.Errorf("unexpected initial state: %+v", state)
	}
}

func TestMachine_TransitionForms(t *testing.T) {
	m := newLight(t)

	t.Run("dotted string state", func(t *testing.T) {
		state, err := m.Transition("red.walk", "PED_COUNTDOWN")
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		if !reflect.DeepEqual(state.Value, map[string]any{"red": "wait"}) {
			t.Errorf("unexpected value: %v", state.Value)
		}
	})

	t.Run("nested mapping state", func(t *testing.T) {
		state, err := m.Transition(map[string]any{"red": "walk"}, "PED_COUNTDOWN")
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		if state.Configuration.Key() != "red.wait" {
			t.Errorf("unexpected configuration: %q", state.Configuration.Key())
		}
	})

	t.Run("event object", func(t *testing.T) {
		state, err := m.Transition("green", map[string]any{"type": "TIMER", "elapsed": 30})
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		if state.Value != "yellow" {
			t.Errorf("unexpected value: %v", state.Value)
		}
	})

	t.Run("prior state sets history", func(t *testing.T) {
		first, err := m.Transition("green", "TIMER")
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		second, err := m.Transition(first, "TIMER")
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		if second.History != first {
			t.Error("history must point back to the input state")
		}
		if first.History != nil {
			t.Error("raw-configuration inputs must not gain history")
		}
	})

	t.Run("compound state resolves to its initial leaf", func(t *testing.T) {
		state, err := m.Transition("red", "PED_COUNTDOWN")
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		if state.Configuration.Key() != "red.wait" {
			t.Errorf("expected red.wait, got %q", state.Configuration.Key())
		}
	})
}

func TestMachine_TrafficLightScenario(t *testing.T) {
	m := newLight(t)

	// walk forbids TIMER: no change, no bubbling into red's handler.
	state, err := m.Transition("red.walk", "TIMER")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if state.Changed || !reflect.DeepEqual(state.Value, map[string]any{"red": "walk"}) {
		t.Errorf("expected unchanged {red: walk}, got changed=%v value=%v", state.Changed, state.Value)
	}

	// stop declares no TIMER, so it bubbles to red and leaves for green.
	state, err = m.Transition("red.stop", "TIMER")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !state.Changed || state.Value != "green" {
		t.Errorf("expected green, got changed=%v value=%v", state.Changed, state.Value)
	}

	// Entering red lands on its deepest initial.
	state, err = m.Transition("yellow", "TIMER")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !reflect.DeepEqual(state.Value, map[string]any{"red": "walk"}) {
		t.Errorf("expected {red: walk}, got %v", state.Value)
	}
}

func TestMachine_Errors(t *testing.T) {
	m := newLight(t)

	if _, err := m.Transition("fake", "TIMER"); !domain.ErrInvalidStateReference(err) {
		t.Errorf("expected invalid state reference, got %v", err)
	}
	if _, err := m.Transition("green", nil); !errors.Is(err, domain.ErrMissingEvent) {
		t.Errorf("expected missing event, got %v", err)
	}
	if _, err := m.Transition("green", ""); !errors.Is(err, domain.ErrMissingEvent) {
		t.Errorf("expected missing event, got %v", err)
	}
}

func TestMachine_Hooks(t *testing.T) {
	var observed []*domain.TransitionObservation
	m := newLight(t, statewalk.WithLifecycleHooks(domain.LifecycleHooks{
		OnTransition: func(obs *domain.TransitionObservation) {
			observed = append(observed, obs)
		},
	}))

	if _, err := m.Transition("green", "TIMER"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if _, err := m.Transition("red.walk", "TIMER"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if _, err := m.Transition("green", "NOPE"); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if len(observed) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(observed))
	}
	results := []domain.TransitionResult{observed[0].Result, observed[1].Result, observed[2].Result}
	want := []domain.TransitionResult{domain.ResultChanged, domain.ResultBlocked, domain.ResultUnhandled}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("expected %v, got %v", want, results)
	}
}

func TestMachine_ConcurrentTransitions(t *testing.T) {
	m := newLight(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				state, err := m.Transition("green", "TIMER")
				if err != nil || state.Value != "yellow" {
					t.Errorf("unexpected result: %v %v", state, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLoadBytes(t *testing.T) {
	m, err := statewalk.LoadBytes([]byte(`
id: toggle
initial: off
states:
  "off":
    on:
      FLIP: "on"
  "on":
    on:
      FLIP: "off"
`))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	state, err := m.Transition(m.InitialState(), "FLIP")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if state.Value != "on" {
		t.Errorf("expected on, got %v", state.Value)
	}
}
