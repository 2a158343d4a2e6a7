package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/statewalk/pkg/domain"
)

// RunStateStoreContract verifies an adapter against the StateStore
// semantics. Every implementation's test suite should call it.
func RunStateStoreContract(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-session"

	t.Run("load missing session", func(t *testing.T) {
		if _, err := store.Load(ctx, sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	state := &domain.State{
		Value:         map[string]any{"red": "walk"},
		Configuration: domain.Configuration{"red", "walk"},
		Changed:       true,
		Actions:       []string{"startWalkSignal"},
	}

	t.Run("save and load", func(t *testing.T) {
		if err := store.Save(ctx, sessionID, state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, sessionID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !loaded.Configuration.Equal(state.Configuration) {
			t.Errorf("expected configuration %v, got %v", state.Configuration, loaded.Configuration)
		}
		if !loaded.Changed || len(loaded.Actions) != 1 {
			t.Errorf("state fields lost on round trip: %+v", loaded)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		next := &domain.State{
			Value:         "green",
			Configuration: domain.Configuration{"green"},
			Changed:       true,
		}
		if err := store.Save(ctx, sessionID, next); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := store.Load(ctx, sessionID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.Configuration.Key() != "green" {
			t.Errorf("expected green, got %q", loaded.Configuration.Key())
		}
	})

	t.Run("isolation from caller mutation", func(t *testing.T) {
		mutable := &domain.State{
			Value:         "green",
			Configuration: domain.Configuration{"green"},
			Actions:       []string{"a"},
		}
		if err := store.Save(ctx, "isolated", mutable); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		mutable.Actions[0] = "mutated"
		loaded, err := store.Load(ctx, "isolated")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.Actions[0] != "a" {
			t.Error("stored state must be isolated from later caller mutation")
		}
		_ = store.Delete(ctx, "isolated")
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, sessionID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
		// Deleting again is a no-op.
		if err := store.Delete(ctx, sessionID); err != nil {
			t.Errorf("double delete must not fail: %v", err)
		}
	})
}
