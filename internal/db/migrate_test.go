package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDownAndUp(t *testing.T) {
	database := newTestDB(t)

	require.NoError(t, database.MigrateDown())
	version, dirty, err := database.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version, "a fully rolled back schema reports version 0")
	assert.False(t, dirty)

	_, err = database.Runs()
	assert.Error(t, err, "rolled back schema has no tables")

	require.NoError(t, database.MigrateUp())
	_, err = database.Runs()
	assert.NoError(t, err)
}

func TestMigrateUpNoChange(t *testing.T) {
	database := newTestDB(t)
	// Open already migrated; a second up is a no-op, not an error.
	assert.NoError(t, database.MigrateUp())
}

func TestMigrateForce(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.MigrateForce(1))

	version, dirty, err := database.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty, "force clears the dirty marker")
}

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	assert.Error(t, RunMigrateCommand(nil, path), "missing action prints help and fails")
	assert.NoError(t, RunMigrateCommand([]string{"help"}, path))

	require.NoError(t, RunMigrateCommand([]string{"up"}, path))
	database, err := Open(path)
	require.NoError(t, err)
	version, dirty, err := database.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, database.Close())

	assert.NoError(t, RunMigrateCommand([]string{"status"}, path))
	assert.NoError(t, RunMigrateCommand([]string{"down"}, path))
	assert.NoError(t, RunMigrateCommand([]string{"force", "1"}, path))

	assert.Error(t, RunMigrateCommand([]string{"force"}, path), "force needs a version")
	assert.Error(t, RunMigrateCommand([]string{"force", "x"}, path), "force needs a number")
	assert.Error(t, RunMigrateCommand([]string{"sideways"}, path), "unknown actions fail")
}
