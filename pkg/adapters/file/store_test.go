package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/statewalk/pkg/adapters/file"
	"github.com/aretw0/statewalk/pkg/domain"
	"github.com/aretw0/statewalk/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_List(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list on empty store: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no sessions, got %v", ids)
	}

	state := &domain.State{Value: "green", Configuration: domain.Configuration{"green"}}
	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "s2", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	ids, err = store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 sessions, got %v", ids)
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	state := &domain.State{Value: "green", Configuration: domain.Configuration{"green"}}
	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "tmp-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}

	if _, err := os.Stat(filepath.Join(dir, "s1.json")); err != nil {
		t.Errorf("session file missing: %v", err)
	}
}
