// Package telescope assembles the simulated instrument: optics that
// project catalogued sources onto the focal plane, detectors that turn
// focal-plane positions into pixel coordinates, and the mosaic that ties
// them together.
package telescope

import (
	"errors"
	"fmt"
	"math"

	"github.com/warpfield-data/warpfield/internal/catalog"
	"github.com/warpfield-data/warpfield/internal/distortion"
	"github.com/warpfield-data/warpfield/internal/projection"
	"github.com/warpfield-data/warpfield/internal/sky"
	"github.com/warpfield-data/warpfield/internal/units"
)

// ErrNotConfigured reports use of optics or a telescope whose pointing
// or geometry was never set up.
var ErrNotConfigured = errors.New("telescope: not configured")

// Optics binds a pointing and an orientation to the focal geometry of
// the instrument. The active distortion map starts as the identity;
// SetDistortion swaps it for the observe pass.
type Optics struct {
	Pointing      sky.Position
	PositionAngle float64 // degrees, east of the pointing frame's north
	FocalLength   float64 // metres
	Aperture      float64 // metres
	FOVRadius     float64 // micrometres on the focal plane

	dist distortion.Map
}

// NewOptics validates the geometry and returns optics with an identity
// distortion attached.
func NewOptics(pointing sky.Position, positionAngle, focalLength, aperture, fovRadius float64) (*Optics, error) {
	if !pointing.Frame.Valid() {
		return nil, fmt.Errorf("%w: pointing frame %q", ErrNotConfigured, pointing.Frame)
	}
	if focalLength <= 0 {
		return nil, fmt.Errorf("%w: focal length %v m", ErrNotConfigured, focalLength)
	}
	if aperture <= 0 {
		return nil, fmt.Errorf("%w: aperture %v m", ErrNotConfigured, aperture)
	}
	if fovRadius <= 0 {
		return nil, fmt.Errorf("%w: field-of-view radius %v um", ErrNotConfigured, fovRadius)
	}
	return &Optics{
		Pointing:      pointing,
		PositionAngle: units.NormalizeDeg(positionAngle),
		FocalLength:   focalLength,
		Aperture:      aperture,
		FOVRadius:     fovRadius,
		dist:          distortion.Identity{},
	}, nil
}

// Scale is the focal-plane plate scale in micrometres per degree.
func (o *Optics) Scale() float64 {
	return units.FocalPlaneScale(o.FocalLength)
}

// FieldOfView is the angular radius, in degrees, of the circle imaged
// inside the focal-plane field-of-view radius.
func (o *Optics) FieldOfView() float64 {
	return units.RadToDeg(math.Atan(o.FOVRadius / units.MetreToMicron(o.FocalLength)))
}

// SetDistortion replaces the active distortion map. A nil map resets to
// the identity.
func (o *Optics) SetDistortion(m distortion.Map) {
	if m == nil {
		m = distortion.Identity{}
	}
	o.dist = m
}

// Projection is the focal-plane image of the catalog subset that falls
// inside the field of view, in catalog order. The slices are parallel:
// element i is the source CatalogID[i] at (X[i], Y[i]) micrometres.
type Projection struct {
	CatalogID []int64
	RA        []float64 // ICRS degrees, as catalogued
	Dec       []float64
	X         []float64 // focal-plane micrometres
	Y         []float64
}

// Len reports the number of imaged sources.
func (p Projection) Len() int { return len(p.CatalogID) }

// Image projects sources through the ideal optics with no distortion,
// the ground-truth pass. Sources beyond the field of view are dropped
// before projection; the survivors keep their catalog order.
func (o *Optics) Image(sources []catalog.Source) (Projection, error) {
	return o.project(sources)
}

// Observe projects sources and then applies the active distortion map
// to the focal-plane coordinates.
func (o *Optics) Observe(sources []catalog.Source) (Projection, error) {
	p, err := o.project(sources)
	if err != nil {
		return Projection{}, err
	}
	m := o.dist
	if m == nil {
		m = distortion.Identity{}
	}
	p.X, p.Y, err = m.Apply(p.X, p.Y)
	if err != nil {
		return Projection{}, fmt.Errorf("telescope: distortion: %w", err)
	}
	return p, nil
}

func (o *Optics) project(sources []catalog.Source) (Projection, error) {
	if !o.Pointing.Frame.Valid() || o.FocalLength <= 0 {
		return Projection{}, fmt.Errorf("%w: optics", ErrNotConfigured)
	}

	ra := make([]float64, len(sources))
	dec := make([]float64, len(sources))
	for i, s := range sources {
		ra[i] = s.RA
		dec[i] = s.Dec
	}
	lon, lat, err := sky.ConvertBatch(sky.ICRS, o.Pointing.Frame, ra, dec)
	if err != nil {
		return Projection{}, fmt.Errorf("telescope: converting sources: %w", err)
	}

	// Cut to the field of view before projecting so the projection never
	// sees a source near its singularity.
	cosFOV := math.Cos(units.DegToRad(o.FieldOfView()))
	sinLat0, cosLat0 := math.Sincos(units.DegToRad(o.Pointing.Lat))
	lon0 := units.DegToRad(o.Pointing.Lon)

	p := Projection{}
	keptLon := make([]float64, 0, len(sources))
	keptLat := make([]float64, 0, len(sources))
	for i := range sources {
		sinLat, cosLat := math.Sincos(units.DegToRad(lat[i]))
		cosSep := sinLat0*sinLat + cosLat0*cosLat*math.Cos(units.DegToRad(lon[i])-lon0)
		if cosSep < cosFOV {
			continue
		}
		p.CatalogID = append(p.CatalogID, sources[i].ID)
		p.RA = append(p.RA, sources[i].RA)
		p.Dec = append(p.Dec, sources[i].Dec)
		keptLon = append(keptLon, lon[i])
		keptLat = append(keptLat, lat[i])
	}

	pt := projection.Pointing{Lon: o.Pointing.Lon, Lat: o.Pointing.Lat, PositionAngle: o.PositionAngle}
	p.X, p.Y, err = projection.Batch(pt, keptLon, keptLat, o.Scale())
	if err != nil {
		return Projection{}, fmt.Errorf("telescope: projecting: %w", err)
	}
	return p, nil
}
