package paths

import (
	"fmt"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/pkg/domain"
)

// ReplayError reports a strict-mode replay hitting an event that produced no
// transition.
type ReplayError struct {
	StepIndex int
	State     domain.Configuration
	Event     domain.Event
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay step %d: event %q produced no transition from %q",
		e.StepIndex, e.Event.Type, e.State.Key())
}

// FromEvents replays a caller-supplied event sequence against the machine's
// initial state and returns the resulting path. Events accept the same
// external forms as Machine.Transition.
//
// A no-op event is recorded as a step with Changed == false, not treated as
// an error; with strict set it aborts with a ReplayError instead.
func FromEvents(m *statewalk.Machine, events []any, strict bool) (*domain.Path, error) {
	state := m.InitialState()
	path := &domain.Path{Target: state.Configuration}

	for i, raw := range events {
		event, err := domain.EventFrom(raw)
		if err != nil {
			return nil, fmt.Errorf("replay step %d: %w", i, err)
		}
		next, err := m.Transition(state, event)
		if err != nil {
			return nil, fmt.Errorf("replay step %d: %w", i, err)
		}
		if !next.Changed && strict {
			return nil, &ReplayError{StepIndex: i, State: state.Configuration, Event: event}
		}
		path.Steps = append(path.Steps, domain.Step{
			State:     state.Configuration,
			Event:     event,
			NextState: next.Configuration,
			Changed:   next.Changed,
		})
		state = next
	}
	path.Target = state.Configuration
	return path, nil
}
