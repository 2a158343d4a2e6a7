package domain

import (
	"errors"
	"fmt"
)

// ErrMissingEvent is returned when a transition is attempted without an event.
var ErrMissingEvent = errors.New("missing event")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrGraphOverflow signals that adjacency-map expansion did not converge
// within its iteration cap. This always indicates a construction bug, not a
// property of a well-formed machine: the configuration space is bounded by
// the number of leaves in the tree.
var ErrGraphOverflow = errors.New("graph construction overflow")

// InvalidStateReferenceError indicates that a configuration or a transition
// target names a node that does not exist in the tree.
type InvalidStateReferenceError struct {
	Reference string
	Context   string // e.g. the node whose transition declared the reference
}

func (e *InvalidStateReferenceError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("invalid state reference %q (from %q)", e.Reference, e.Context)
	}
	return fmt.Sprintf("invalid state reference %q", e.Reference)
}

// ErrInvalidStateReference reports whether err is an InvalidStateReferenceError.
// Convenience for callers that only care about the category.
func ErrInvalidStateReference(err error) bool {
	var ref *InvalidStateReferenceError
	return errors.As(err, &ref)
}

// DefinitionError aggregates every problem found while validating a machine
// definition, so authors fix a broken file in one pass instead of one error
// at a time.
type DefinitionError struct {
	MachineID string
	Problems  []error
}

func (e *DefinitionError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("machine %q: %v", e.MachineID, e.Problems[0])
	}
	msg := fmt.Sprintf("machine %q: %d problems:", e.MachineID, len(e.Problems))
	for _, p := range e.Problems {
		msg += "\n  - " + p.Error()
	}
	return msg
}

func (e *DefinitionError) Unwrap() []error { return e.Problems }
