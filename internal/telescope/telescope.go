package telescope

import (
	"fmt"

	"github.com/warpfield-data/warpfield/internal/catalog"
	"github.com/warpfield-data/warpfield/internal/distortion"
)

// Observation is one source retained by one detector during an observe
// pass: its catalog identity, the catalogued sky coordinates, the
// distorted focal-plane position and the continuous pixel position.
type Observation struct {
	CatalogID int64
	RA        float64 // ICRS degrees, as catalogued
	Dec       float64
	X         float64 // focal-plane micrometres
	Y         float64
	PixelX    float64
	PixelY    float64
	Detector  int
}

// Telescope aggregates one optics with a mosaic of detectors. Detector
// order is stable and defines the detector index in observations.
type Telescope struct {
	Optics    *Optics
	Detectors []Detector
}

// New wires optics to a detector mosaic.
func New(optics *Optics, detectors []Detector) (*Telescope, error) {
	if optics == nil {
		return nil, fmt.Errorf("%w: nil optics", ErrNotConfigured)
	}
	return &Telescope{Optics: optics, Detectors: detectors}, nil
}

// SetDistortion replaces the distortion map on the underlying optics.
func (t *Telescope) SetDistortion(m distortion.Map) {
	t.Optics.SetDistortion(m)
}

// ObserveField projects sources through the distorting optics once and
// fans the shared focal-plane result out across the mosaic. The result
// holds one slice per detector, in detector order; a source landing on
// overlapping footprints appears once per detector, never merged.
func (t *Telescope) ObserveField(sources []catalog.Source) ([][]Observation, error) {
	if t.Optics == nil {
		return nil, fmt.Errorf("%w: nil optics", ErrNotConfigured)
	}
	p, err := t.Optics.Observe(sources)
	if err != nil {
		return nil, err
	}

	out := make([][]Observation, len(t.Detectors))
	for di, d := range t.Detectors {
		var obs []Observation
		for i := 0; i < p.Len(); i++ {
			px, py := d.ToPixel(p.X[i], p.Y[i])
			if !d.Contains(px, py) {
				continue
			}
			obs = append(obs, Observation{
				CatalogID: p.CatalogID[i],
				RA:        p.RA[i],
				Dec:       p.Dec[i],
				X:         p.X[i],
				Y:         p.Y[i],
				PixelX:    px,
				PixelY:    py,
				Detector:  di,
			})
		}
		out[di] = obs
	}
	return out, nil
}
