package testsupport

import (
	"context"
	"testing"

	"reelcut/internal/catalog"
	"reelcut/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSource registers a capture file for tests using the provided store.
func NewSource(t testing.TB, store *catalog.Store, path string, duration float64) catalog.Source {
	t.Helper()

	src, err := store.UpsertSource(context.Background(), catalog.Source{
		Path:            path,
		DurationSeconds: duration,
		SizeBytes:       1 << 20,
	})
	if err != nil {
		t.Fatalf("store.UpsertSource: %v", err)
	}
	return src
}
