// Package ports declares the driven-port interfaces of the library and the
// contract tests every adapter must pass.
package ports

import (
	"context"

	"github.com/aretw0/statewalk/pkg/domain"
)

// StateStore persists the latest State per session ID, enabling
// "stop & resume" of a host driving a long-lived system: the host reloads
// the session's State and keeps transitioning from it.
type StateStore interface {
	// Save persists the state for a given session ID, overwriting any
	// previous snapshot.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID. Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
