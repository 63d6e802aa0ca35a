package testutil

import (
	"context"
	"testing"

	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/internal/store"
)

// NewStore creates an in-memory SQLiteStore for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewMigratedStore creates an in-memory store with the birds and sightings
// schema applied.
func NewMigratedStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db := NewStore(t)
	if err := db.Migrate(context.Background(), "core", services.Migrations); err != nil {
		t.Fatalf("testutil.NewMigratedStore: %v", err)
	}
	return db
}
