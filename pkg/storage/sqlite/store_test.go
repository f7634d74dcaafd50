package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-uistate/pkg/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "uistate.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Get(ctx, "uistate:customers:filters"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "uistate:customers:filters", `{"search":"acme"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "uistate:customers:filters", `{"search":"globex"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, err := store.Get(ctx, "uistate:customers:filters")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != `{"search":"globex"}` {
		t.Fatalf("unexpected value %q", value)
	}
	if err := store.Delete(ctx, "uistate:customers:filters"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "uistate:customers:filters"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, key := range []string{"uistate:orders:sort", "uistate:customers:filters", "other:key"} {
		if err := store.Set(ctx, key, "{}"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := store.Keys(ctx, "uistate:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "uistate:customers:filters" || keys[1] != "uistate:orders:sort" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "uistate.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if value, err := second.Get(ctx, "k"); err != nil || value != "v" {
		t.Fatalf("expected persisted value, got %q %v", value, err)
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	var store *Store
	if _, err := store.Get(context.Background(), "k"); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nCREATE TABLE t (id INT);\n-- +migrate Down\nDROP TABLE t;")
	if got != "\nCREATE TABLE t (id INT);\n" {
		t.Fatalf("unexpected up section %q", got)
	}
}
