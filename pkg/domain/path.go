package domain

import "strings"

// Step is one event-driven hop of a path.
type Step struct {
	State     Configuration `json:"state"`
	Event     Event         `json:"event"`
	NextState Configuration `json:"next_state"`
	// Changed mirrors the transition result; replayed no-op steps keep it
	// false instead of being dropped.
	Changed bool `json:"changed"`
}

// Path is an ordered, replayable sequence of steps from the machine's
// initial configuration. An empty Steps slice denotes the initial
// configuration itself (Target == the initial configuration).
type Path struct {
	// Target is the configuration the path ends at.
	Target Configuration `json:"target"`
	Steps  []Step        `json:"steps"`
}

// Len returns the number of edges in the path.
func (p *Path) Len() int { return len(p.Steps) }

// String renders the path in arrow notation, e.g.
// "green --TIMER--> yellow --TIMER--> red.walk".
func (p *Path) String() string {
	if len(p.Steps) == 0 {
		return p.Target.Key()
	}
	var sb strings.Builder
	sb.WriteString(p.Steps[0].State.Key())
	for _, step := range p.Steps {
		sb.WriteString(" --")
		sb.WriteString(step.Event.Type)
		sb.WriteString("--> ")
		sb.WriteString(step.NextState.Key())
	}
	return sb.String()
}

// Clone returns an independent copy; searches hand out copies so callers can
// hold results while traversal continues.
func (p *Path) Clone() *Path {
	clone := &Path{
		Target: append(Configuration(nil), p.Target...),
		Steps:  append([]Step(nil), p.Steps...),
	}
	return clone
}
