// Package catalog provides the master source catalog consumed by the
// simulator: a synthetic provider drawing sources uniformly over a sky
// cap, and CSV persistence keyed by stable catalog identities.
package catalog

import (
	"math"
	"math/rand"

	"github.com/warpfield-data/warpfield/internal/sky"
	"github.com/warpfield-data/warpfield/internal/units"
)

// Source is one catalogued source. Coordinates are ICRS degrees; the
// proper-motion, parallax and epoch fields ride along for callers that
// track them but play no part in the projection chain.
type Source struct {
	ID       int64
	RA       float64
	Dec      float64
	PMRA     float64 // mas/yr
	PMDec    float64 // mas/yr
	Parallax float64 // mas
	Epoch    float64 // Julian year
}

// referenceEpoch tags synthesized sources, matching the survey release
// the reference catalog was drawn from.
const referenceEpoch = 2016.0

// Synthesize draws n sources uniformly by area inside the cap of the
// given angular radius (degrees) around center, assigning sequential
// catalog identities starting at zero. The draw consumes two variates
// per source, so a fixed seed fixes the catalog.
func Synthesize(rng *rand.Rand, center sky.Position, radius float64, n int) []Source {
	capDepth := 1 - math.Cos(units.DegToRad(radius))
	sources := make([]Source, n)
	for i := range sources {
		sep := units.RadToDeg(math.Acos(1 - capDepth*rng.Float64()))
		bearing := 360 * rng.Float64()
		p := sky.DirectionalOffset(center, bearing, sep).To(sky.ICRS)
		sources[i] = Source{
			ID:    int64(i),
			RA:    p.Lon,
			Dec:   p.Lat,
			Epoch: referenceEpoch,
		}
	}
	return sources
}
