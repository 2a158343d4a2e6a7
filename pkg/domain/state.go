package domain

// State is the immutable result of one transition (or of machine start).
type State struct {
	// Value is the configuration in its minimal external form: a string for
	// a root-level leaf, a nested mapping for deeper leaves.
	Value any `json:"value"`

	// Configuration is the same information in canonical internal form.
	Configuration Configuration `json:"configuration"`

	// Changed reports whether the event produced a transition. It is false
	// for unhandled events (no ancestor declares the event) and for
	// explicitly forbidden ones.
	Changed bool `json:"changed"`

	// Actions lists the identifiers collected during the transition: exit
	// actions innermost-first up to the common ancestor, then entry actions
	// outermost-first down to the entered leaf. Empty when Changed is false.
	Actions []string `json:"actions,omitempty"`

	// Activities lists the activity identifiers of the entered leaf and its
	// ancestors, for hosts that manage long-running work per state.
	Activities []string `json:"activities,omitempty"`

	// History points back to the State this one transitioned from; nil on
	// the initial state and when the caller passed a raw configuration.
	// Not serialized: persisted sessions keep only the latest snapshot.
	History *State `json:"-"`
}

// Matches reports whether the state's configuration equals the given
// external representation.
func (s *State) Matches(value any) bool {
	ref, err := ConfigurationFrom(value)
	if err != nil {
		return false
	}
	return s.Configuration.Equal(ref)
}
