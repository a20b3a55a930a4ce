package testsupport

import (
	"context"
	"testing"

	"fablecast/internal/config"
	"fablecast/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewDocument creates a document row for tests using the provided store.
func NewDocument(t testing.TB, store *library.Store, title string) *library.Document {
	t.Helper()

	doc, err := store.CreateDocument(context.Background(), title, "", "")
	if err != nil {
		t.Fatalf("store.CreateDocument: %v", err)
	}
	return doc
}
