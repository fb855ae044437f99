package main

import (
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpfield-data/warpfield/internal/catalog"
	"github.com/warpfield-data/warpfield/internal/challenge"
	"github.com/warpfield-data/warpfield/internal/config"
	"github.com/warpfield-data/warpfield/internal/db"
	"github.com/warpfield-data/warpfield/internal/distortion"
	"github.com/warpfield-data/warpfield/internal/monitoring"
	"github.com/warpfield-data/warpfield/internal/sky"
	"github.com/warpfield-data/warpfield/internal/telescope"
	"github.com/warpfield-data/warpfield/internal/testutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// TestFlagDefaults verifies the flags exist in the main package's var
// block with the expected defaults.
func TestFlagDefaults(t *testing.T) {
	require.NotNil(t, configPath)
	require.NotNil(t, dbFile)
	require.NotNil(t, csvDir)
	require.NotNil(t, nChallenges)
	require.NotNil(t, seed)
	require.NotNil(t, catalogCSV)
	require.NotNil(t, makeCatalog)
	require.NotNil(t, quiet)
	require.NotNil(t, showVersion)

	// Empty and zero defaults mean "take the config value".
	assert.Equal(t, "", *configPath)
	assert.Equal(t, "", *dbFile)
	assert.Equal(t, "", *csvDir)
	assert.Equal(t, 0, *nChallenges)
	assert.Equal(t, int64(0), *seed)
	assert.Equal(t, "", *catalogCSV)
	assert.False(t, *makeCatalog)
	assert.False(t, *quiet)
	assert.False(t, *showVersion)
}

func TestDesignFromConfig(t *testing.T) {
	// The config defaults describe the same instrument as the built-in
	// reference design.
	assert.Equal(t, telescope.DefaultDesign(), designFromConfig(config.Default().Telescope))
}

func TestParamsFromConfig(t *testing.T) {
	assert.Equal(t, challenge.DefaultParams(), paramsFromConfig(config.Default().Challenge))
}

func TestCatalogFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source_list.csv")
	sources := []catalog.Source{
		{ID: 0, RA: 266.25, Dec: -29.125},
		{ID: 1, RA: 265.5, Dec: -28.75},
	}
	require.NoError(t, writeCatalog(path, sources, "round trip"))

	got, err := loadSources(path)
	require.NoError(t, err)
	assert.Equal(t, sources, got)
}

func TestLoadSourcesMissingFile(t *testing.T) {
	_, err := loadSources(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWriteChallengeFiles(t *testing.T) {
	dir := t.TempDir()
	ch := &challenge.Challenge{
		Index:     3,
		Keywords:  []distortion.Keyword{{Name: "pointing_ra", Value: 1.5}},
		Positions: []challenge.Position{{X: 1, Y: 2, CatalogID: 9, XOrig: 1, YOrig: 2, RA: 3, Dec: 4}},
		Attitudes: []challenge.Attitude{{Field: 0, RA: 3, Dec: 4, PA: 5}},
	}
	require.NoError(t, writeChallengeFiles(dir, ch))

	positions, err := os.ReadFile(filepath.Join(dir, "challenge_03.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(positions), "# pointing_ra = 1.5\n"))
	assert.Contains(t, string(positions), "x,y,catalog_id")

	attitudes, err := os.ReadFile(filepath.Join(dir, "challenge_03_pointing.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(attitudes), "field,ra,dec,pa\n"))
}

func TestPrintStats(t *testing.T) {
	database := testutil.NewDB(t)

	var empty strings.Builder
	require.NoError(t, printStats(&empty, database))
	assert.Contains(t, empty.String(), "no runs recorded")

	require.NoError(t, database.RecordRun(db.Run{ID: "stats-run", Seed: 42, Challenges: 5, Sources: 2000}))
	var out strings.Builder
	require.NoError(t, printStats(&out, database))
	assert.Contains(t, out.String(), "run stats-run: seed 42, 5 challenges, 2000 sources")
}

func TestRunGeneratesAndPersists(t *testing.T) {
	database := testutil.NewDB(t)

	cfg := config.Default()
	cfg.Challenges = 2
	cfg.Catalog.Count = 500
	cfg.Output.CSVDir = t.TempDir()

	master := sky.NewPosition(cfg.Catalog.Lon, cfg.Catalog.Lat, sky.Galactic)
	sources := catalog.Synthesize(rand.New(rand.NewSource(7)), master, cfg.Catalog.Radius, cfg.Catalog.Count)

	require.NoError(t, run(cfg, database, sources, "test-run"))

	runs, err := database.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "test-run", runs[0].ID)
	assert.Equal(t, cfg.Seed, runs[0].Seed)
	assert.Equal(t, 2, runs[0].Challenges)
	assert.Equal(t, 500, runs[0].Sources)

	stored, err := database.Sources()
	require.NoError(t, err)
	assert.Len(t, stored, 500, "run mirrors the catalog into the database")

	summaries, err := database.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 0, summaries[0].ID)
	assert.Equal(t, 1, summaries[0].Plates)
	assert.Equal(t, 4, summaries[0].Fields)
	assert.Positive(t, summaries[0].Rows)
	assert.Equal(t, 1, summaries[1].ID)
	assert.Equal(t, 2, summaries[1].Plates)
	assert.Equal(t, 8, summaries[1].Fields)

	for _, name := range []string{
		"challenge_00.csv", "challenge_00_pointing.csv",
		"challenge_01.csv", "challenge_01_pointing.csv",
	} {
		_, err := os.Stat(filepath.Join(cfg.Output.CSVDir, name))
		assert.NoError(t, err, "expected export %s", name)
	}
}
