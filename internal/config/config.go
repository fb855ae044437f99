// Package config holds the generator configuration: a YAML file with
// defaults matching the reference challenge series, selectively
// overridable field by field.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog configures the master source list.
type Catalog struct {
	Path   string  `yaml:"path"`
	Lon    float64 `yaml:"lon"`    // galactic longitude of the cap centre, degrees
	Lat    float64 `yaml:"lat"`    // galactic latitude, degrees
	Radius float64 `yaml:"radius"` // cap radius, degrees
	Count  int     `yaml:"count"`  // sources to synthesize
}

// Telescope configures the instrument geometry.
type Telescope struct {
	FocalLength  float64 `yaml:"focal_length"` // metres
	Aperture     float64 `yaml:"aperture"`     // metres
	FOVRadius    float64 `yaml:"fov_radius"`   // micrometres
	DetectorRows int     `yaml:"detector_rows"`
	DetectorCols int     `yaml:"detector_cols"`
	PixelScale   float64 `yaml:"pixel_scale"` // micrometres per pixel
	MosaicSide   int     `yaml:"mosaic_side"`
	MosaicPitch  float64 `yaml:"mosaic_pitch"` // micrometres
}

// Challenge configures the per-field perturbations.
type Challenge struct {
	Stride         float64 `yaml:"stride"`          // field grid stride, arcminutes
	PointingJitter float64 `yaml:"pointing_jitter"` // per-exposure jitter sigma, arcseconds
	AngleJitter    float64 `yaml:"angle_jitter"`    // position-angle jitter sigma, degrees
	SIPOrder       int     `yaml:"sip_order"`
	OffsetLimit    float64 `yaml:"offset_limit"` // distortion constant draw limit, micrometres
	EdgeMargin     float64 `yaml:"edge_margin"`  // master offset margin, arcminutes
}

// Output configures where generated tables land.
type Output struct {
	Database string `yaml:"database"`
	CSVDir   string `yaml:"csv_dir"`
}

// Config is the full generator configuration.
type Config struct {
	Seed       int64     `yaml:"seed"`
	Challenges int       `yaml:"challenges"`
	Catalog    Catalog   `yaml:"catalog"`
	Telescope  Telescope `yaml:"telescope"`
	Challenge  Challenge `yaml:"challenge"`
	Output     Output    `yaml:"output"`
}

// Default returns the reference configuration: the seed-42 series of
// five challenges over a 2 degree cap at the galactic centre, imaged by
// the 7.3 m instrument.
func Default() Config {
	return Config{
		Seed:       42,
		Challenges: 5,
		Catalog: Catalog{
			Path:   "source_list.csv",
			Lon:    0,
			Lat:    0,
			Radius: 2.0,
			Count:  2000,
		},
		Telescope: Telescope{
			FocalLength:  7.3,
			Aperture:     0.4,
			FOVRadius:    30000,
			DetectorRows: 1280,
			DetectorCols: 1280,
			PixelScale:   15,
			MosaicSide:   3,
			MosaicPitch:  20000,
		},
		Challenge: Challenge{
			Stride:         4,
			PointingJitter: 5,
			AngleJitter:    1,
			SIPOrder:       5,
			OffsetLimit:    3000,
			EdgeMargin:     3,
		},
		Output: Output{
			Database: "warpfield.db",
			CSVDir:   ".",
		},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// or a missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the generator cannot run.
func (c Config) Validate() error {
	if c.Challenges < 1 {
		return fmt.Errorf("challenges must be positive, got %d", c.Challenges)
	}
	if c.Catalog.Radius <= 0 {
		return fmt.Errorf("catalog radius must be positive, got %v", c.Catalog.Radius)
	}
	if c.Catalog.Count < 1 {
		return fmt.Errorf("catalog count must be positive, got %d", c.Catalog.Count)
	}
	if c.Telescope.FocalLength <= 0 || c.Telescope.Aperture <= 0 || c.Telescope.FOVRadius <= 0 {
		return errors.New("telescope optics must have positive dimensions")
	}
	if c.Telescope.DetectorRows < 1 || c.Telescope.DetectorCols < 1 || c.Telescope.PixelScale <= 0 {
		return errors.New("detector geometry must be positive")
	}
	if c.Telescope.MosaicSide < 1 || c.Telescope.MosaicPitch <= 0 {
		return errors.New("mosaic layout must be positive")
	}
	if c.Challenge.Stride <= 0 {
		return fmt.Errorf("challenge stride must be positive, got %v", c.Challenge.Stride)
	}
	if c.Challenge.PointingJitter < 0 || c.Challenge.AngleJitter < 0 {
		return errors.New("challenge jitters must not be negative")
	}
	if c.Challenge.SIPOrder < 1 {
		return fmt.Errorf("sip order must be at least 1, got %d", c.Challenge.SIPOrder)
	}
	if c.Challenge.OffsetLimit < 0 {
		return fmt.Errorf("offset limit must not be negative, got %v", c.Challenge.OffsetLimit)
	}
	if c.Challenge.EdgeMargin < 0 || c.Challenge.EdgeMargin >= c.Catalog.Radius*60 {
		return fmt.Errorf("edge margin must fit inside the catalog cap, got %v arcmin", c.Challenge.EdgeMargin)
	}
	if c.Output.Database == "" {
		return errors.New("output database path must be set")
	}
	return nil
}
