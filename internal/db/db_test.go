package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenAppliesMigrations(t *testing.T) {
	database := newTestDB(t)

	version, dirty, err := database.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestOpenKeepsExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.RecordRun(Run{ID: "r1", Seed: 42, Challenges: 5, Sources: 100}))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	runs, err := second.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1, "reopening must not reset the schema")
}

func TestRecordRunAndRuns(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.RecordRun(Run{ID: "a", Seed: 42, Challenges: 5, Sources: 2000}))
	require.NoError(t, database.RecordRun(Run{ID: "b", Seed: 43, Challenges: 1, Sources: 10}))

	runs, err := database.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := make(map[string]Run, len(runs))
	for _, r := range runs {
		byID[r.ID] = r
	}
	assert.Equal(t, Run{ID: "a", Seed: 42, Challenges: 5, Sources: 2000}, byID["a"])
	assert.Equal(t, Run{ID: "b", Seed: 43, Challenges: 1, Sources: 10}, byID["b"])
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.RecordRun(Run{ID: "dup", Seed: 1, Challenges: 1, Sources: 1}))
	assert.Error(t, database.RecordRun(Run{ID: "dup", Seed: 2, Challenges: 2, Sources: 2}))
}
