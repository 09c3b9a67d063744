package kvstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "lectern/internal/platform/errors"
	"lectern/internal/platform/kvstore"
)

func TestSetGetOverwriteDelete(t *testing.T) {
	t.Parallel()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "nested", "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, err := store.Get(ctx, "reader-theme"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, "reader-theme", `{"fontSize":16}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "reader-theme", `{"fontSize":18}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "reader-theme")
	if err != nil || got != `{"fontSize":18}` {
		t.Fatalf("last write should win, got %q err %v", got, err)
	}
	if err := store.Delete(ctx, "reader-theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "reader-theme"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestKeysByPrefix(t *testing.T) {
	t.Parallel()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	for _, key := range []string{"reading-progress-b2", "reader-theme", "reading-progress-b1"} {
		if err := store.Set(ctx, key, "x"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := store.Keys(ctx, "reading-progress-")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "reading-progress-b1" || keys[1] != "reading-progress-b2" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
