package domain

// TransitionResult classifies the outcome of a dispatch for observers.
type TransitionResult string

const (
	// ResultChanged: a handler matched and the configuration moved.
	ResultChanged TransitionResult = "changed"
	// ResultUnhandled: no node up to the root declares the event.
	ResultUnhandled TransitionResult = "unhandled"
	// ResultBlocked: a node explicitly forbids the event, stopping bubbling.
	ResultBlocked TransitionResult = "blocked"
)

// TransitionObservation is handed to lifecycle hooks after each dispatch.
type TransitionObservation struct {
	MachineID string
	From      Configuration
	To        Configuration
	Event     Event
	Result    TransitionResult
	Actions   []string
}

// LifecycleHooks registers observability callbacks. All fields are optional;
// hooks must not mutate the observation. The engine invokes them
// synchronously after the result is computed, so a slow hook slows the
// caller, not the algorithm's correctness.
type LifecycleHooks struct {
	OnTransition func(*TransitionObservation)
}

// CombineHooks fans one observation out to several hook sets, in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(obs *TransitionObservation) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(obs)
				}
			}
		},
	}
}
