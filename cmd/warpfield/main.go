package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/warpfield-data/warpfield/internal/catalog"
	"github.com/warpfield-data/warpfield/internal/challenge"
	"github.com/warpfield-data/warpfield/internal/config"
	"github.com/warpfield-data/warpfield/internal/db"
	"github.com/warpfield-data/warpfield/internal/monitoring"
	"github.com/warpfield-data/warpfield/internal/sky"
	"github.com/warpfield-data/warpfield/internal/telescope"
	"github.com/warpfield-data/warpfield/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to YAML config file")
	dbFile      = flag.String("db", "", "Path to the SQLite database file (overrides config)")
	csvDir      = flag.String("csv-dir", "", "Directory for CSV exports (overrides config)")
	nChallenges = flag.Int("n", 0, "Number of challenges to generate (overrides config)")
	seed        = flag.Int64("seed", 0, "Random seed (overrides config)")
	catalogCSV  = flag.String("catalog", "", "Path to the source catalog CSV (overrides config)")
	makeCatalog = flag.Bool("generate-catalog", false, "Synthesize the master catalog before generating")
	quiet       = flag.Bool("quiet", false, "Suppress per-field residual logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// applyOverrides copies explicitly set flags over the loaded config, so
// config files and flags compose with flags winning.
func applyOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Output.Database = *dbFile
		case "csv-dir":
			cfg.Output.CSVDir = *csvDir
		case "n":
			cfg.Challenges = *nChallenges
		case "seed":
			cfg.Seed = *seed
		case "catalog":
			cfg.Catalog.Path = *catalogCSV
		}
	})
}

func designFromConfig(t config.Telescope) telescope.Design {
	return telescope.Design{
		FocalLength:  t.FocalLength,
		Aperture:     t.Aperture,
		FOVRadius:    t.FOVRadius,
		DetectorRows: t.DetectorRows,
		DetectorCols: t.DetectorCols,
		PixelScale:   t.PixelScale,
		MosaicSide:   t.MosaicSide,
		MosaicPitch:  t.MosaicPitch,
	}
}

func paramsFromConfig(c config.Challenge) challenge.Params {
	return challenge.Params{
		Stride:         c.Stride,
		PointingJitter: c.PointingJitter,
		AngleJitter:    c.AngleJitter,
		SIPOrder:       c.SIPOrder,
		OffsetLimit:    c.OffsetLimit,
		EdgeMargin:     c.EdgeMargin,
	}
}

func loadSources(path string) ([]catalog.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ReadCSV(f)
}

func writeCatalog(path string, sources []catalog.Source, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := catalog.WriteCSV(f, sources, comment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTable(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeChallengeFiles exports both answer-key tables of a challenge
// into dir.
func writeChallengeFiles(dir string, ch *challenge.Challenge) error {
	if err := writeTable(filepath.Join(dir, ch.Filename()), ch.WritePositionsCSV); err != nil {
		return err
	}
	return writeTable(filepath.Join(dir, ch.AttitudesFilename()), ch.WriteAttitudesCSV)
}

// printStats reports recorded runs and stored challenges.
func printStats(w io.Writer, database *db.DB) error {
	runs, err := database.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "run %s: seed %d, %d challenges, %d sources\n", r.ID, r.Seed, r.Challenges, r.Sources)
	}

	summaries, err := database.Summaries()
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "challenge %02d: plates %d, fields %d, rows %d, sources %d, pointing (%.6f, %.6f) pa %.6f\n",
			s.ID, s.Plates, s.Fields, s.Rows, s.Sources, s.PointingRA, s.PointingDec, s.PositionAngle)
	}

	if len(runs) == 0 && len(summaries) == 0 {
		fmt.Fprintln(w, "no runs recorded")
	}
	return nil
}

// run generates the whole challenge series: it mirrors the catalog into
// the database, records the run, then generates, saves and exports each
// challenge in series order so the random stream lines up with the seed.
func run(cfg config.Config, database *db.DB, sources []catalog.Source, runID string) error {
	if err := database.ReplaceSources(sources); err != nil {
		return err
	}
	if err := database.RecordRun(db.Run{ID: runID, Seed: cfg.Seed, Challenges: cfg.Challenges, Sources: len(sources)}); err != nil {
		return err
	}

	if cfg.Output.CSVDir != "" {
		if err := os.MkdirAll(cfg.Output.CSVDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", cfg.Output.CSVDir, err)
		}
	}

	master := sky.NewPosition(cfg.Catalog.Lon, cfg.Catalog.Lat, sky.Galactic)
	gen := challenge.New(cfg.Seed, paramsFromConfig(cfg.Challenge), designFromConfig(cfg.Telescope), master, cfg.Catalog.Radius, sources)

	for i := 0; i < cfg.Challenges; i++ {
		plates := challenge.Plates(i)
		fmt.Printf("challenge %d: %d plates per corner\n", i, plates)
		ch, err := gen.Generate(i, plates)
		if err != nil {
			return err
		}
		if err := database.SaveChallenge(runID, ch); err != nil {
			return err
		}
		if cfg.Output.CSVDir != "" {
			if err := writeChallengeFiles(cfg.Output.CSVDir, ch); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "migrate":
			if err := db.RunMigrateCommand(args[1:], cfg.Output.Database); err != nil {
				log.Fatalf("%v", err)
			}
		case "stats":
			database, err := db.Open(cfg.Output.Database)
			if err != nil {
				log.Fatalf("open db: %v", err)
			}
			defer database.Close()
			if err := printStats(os.Stdout, database); err != nil {
				log.Fatalf("stats: %v", err)
			}
		default:
			log.Fatalf("unknown command %q", args[0])
		}
		return
	}

	var sources []catalog.Source
	if *makeCatalog {
		master := sky.NewPosition(cfg.Catalog.Lon, cfg.Catalog.Lat, sky.Galactic)
		sources = catalog.Synthesize(rand.New(rand.NewSource(cfg.Seed)), master, cfg.Catalog.Radius, cfg.Catalog.Count)
		comment := fmt.Sprintf("synthesized with seed %d inside %g deg of galactic (%g, %g)",
			cfg.Seed, cfg.Catalog.Radius, cfg.Catalog.Lon, cfg.Catalog.Lat)
		if err := writeCatalog(cfg.Catalog.Path, sources, comment); err != nil {
			log.Fatalf("write catalog: %v", err)
		}
		fmt.Printf("synthesized %d sources into %s\n", len(sources), cfg.Catalog.Path)
	} else {
		sources, err = loadSources(cfg.Catalog.Path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("catalog %s not found; run with -generate-catalog to synthesize it", cfg.Catalog.Path)
		}
		if err != nil {
			log.Fatalf("read catalog: %v", err)
		}
	}

	database, err := db.Open(cfg.Output.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer database.Close()

	runID := uuid.NewString()
	if err := run(cfg, database, sources, runID); err != nil {
		log.Fatalf("run %s: %v", runID, err)
	}
	fmt.Printf("run %s complete: %d challenges over %d sources\n", runID, cfg.Challenges, len(sources))
}
