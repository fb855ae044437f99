package telescope

import (
	"fmt"

	"github.com/warpfield-data/warpfield/internal/sky"
)

// Design describes an instrument: the optical geometry plus a square
// detector mosaic on a regular pitch. A Design is cheap to Build per
// field; the built telescopes share nothing.
type Design struct {
	FocalLength  float64 // metres
	Aperture     float64 // metres
	FOVRadius    float64 // micrometres
	DetectorRows int
	DetectorCols int
	PixelScale   float64 // micrometres per pixel
	MosaicSide   int     // detectors along each mosaic axis
	MosaicPitch  float64 // micrometres between neighbouring detector centres
}

// DefaultDesign is the reference instrument: a 7.3 m telescope with a
// 0.4 m aperture imaging a 30000 um field-of-view radius onto a 3x3
// mosaic of 1280x1280 detectors with 15 um pixels, centres 20000 um
// apart.
func DefaultDesign() Design {
	return Design{
		FocalLength:  7.3,
		Aperture:     0.4,
		FOVRadius:    30000,
		DetectorRows: 1280,
		DetectorCols: 1280,
		PixelScale:   15,
		MosaicSide:   3,
		MosaicPitch:  20000,
	}
}

// Build constructs a telescope of this design at the given pointing and
// position angle. Detector order runs along mosaic rows, x fastest, so
// an odd mosaic side puts the on-axis detector at the middle index.
func (d Design) Build(pointing sky.Position, positionAngle float64) (*Telescope, error) {
	if d.MosaicSide <= 0 {
		return nil, fmt.Errorf("%w: mosaic side %d", ErrNotConfigured, d.MosaicSide)
	}

	optics, err := NewOptics(pointing, positionAngle, d.FocalLength, d.Aperture, d.FOVRadius)
	if err != nil {
		return nil, err
	}

	offsets := make([]float64, d.MosaicSide)
	for i := range offsets {
		offsets[i] = (float64(i) - float64(d.MosaicSide-1)/2) * d.MosaicPitch
	}
	detectors := make([]Detector, 0, d.MosaicSide*d.MosaicSide)
	for _, dy := range offsets {
		for _, dx := range offsets {
			det, err := NewDetector(d.DetectorRows, d.DetectorCols, d.PixelScale, dx, dy)
			if err != nil {
				return nil, err
			}
			detectors = append(detectors, det)
		}
	}
	return New(optics, detectors)
}
