// Package testutil provides shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/warpfield-data/warpfield/internal/db"
)

// NewDB opens a fully migrated challenge database in a per-test temp
// directory and closes it when the test finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("failed to close test DB: %v", err)
		}
	})
	return database
}
