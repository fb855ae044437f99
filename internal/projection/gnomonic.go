// Package projection implements the batched gnomonic projection of sky
// coordinates onto a rotated, scaled tangent plane.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/warpfield-data/warpfield/internal/units"
)

// ErrBehindTangentPlane reports a source at or beyond 90 degrees from the
// pointing, where the gnomonic projection is singular. The projection
// fails loudly rather than emitting NaN coordinates; callers are expected
// to field-of-view filter before projecting.
var ErrBehindTangentPlane = errors.New("source at or behind the tangent plane")

// Pointing fixes the projection centre and the focal-plane orientation.
// The position angle rotates the plane's Y axis east of the frame's
// north. All angles in degrees, in whatever frame the caller projects in.
type Pointing struct {
	Lon           float64
	Lat           float64
	PositionAngle float64
}

// Batch projects parallel lon/lat slices (degrees, same frame as the
// pointing) onto the tangent plane at the pointing, rotates by the
// position angle and scales by scale (physical length per degree).
// Output order is one-to-one with input order.
func Batch(p Pointing, lon, lat []float64, scale float64) (x, y []float64, err error) {
	if len(lon) != len(lat) {
		return nil, nil, fmt.Errorf("projection: mismatched batch lengths %d and %d", len(lon), len(lat))
	}

	lon0 := units.DegToRad(p.Lon)
	sinLat0, cosLat0 := math.Sincos(units.DegToRad(p.Lat))
	sinPA, cosPA := math.Sincos(units.DegToRad(p.PositionAngle))

	x = make([]float64, len(lon))
	y = make([]float64, len(lon))
	for i := range lon {
		px, py, err := project(sinLat0, cosLat0, units.DegToRad(lon[i])-lon0, units.DegToRad(lat[i]))
		if err != nil {
			return nil, nil, fmt.Errorf("projection: source %d: %w", i, err)
		}
		x[i] = scale * (cosPA*px - sinPA*py)
		y[i] = scale * (sinPA*px + cosPA*py)
	}
	return x, y, nil
}

// Pairs projects fully parallel batches where every element carries its
// own pointing, position angle and scale. Element i of the output is the
// projection of source i through pointing i; slices must share a length.
func Pairs(telLon, telLat, telPA, lon, lat, scale []float64) (x, y []float64, err error) {
	n := len(telLon)
	if len(telLat) != n || len(telPA) != n || len(lon) != n || len(lat) != n || len(scale) != n {
		return nil, nil, errors.New("projection: pair batches must share a length")
	}

	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		sinLat0, cosLat0 := math.Sincos(units.DegToRad(telLat[i]))
		px, py, err := project(sinLat0, cosLat0, units.DegToRad(lon[i]-telLon[i]), units.DegToRad(lat[i]))
		if err != nil {
			return nil, nil, fmt.Errorf("projection: pair %d: %w", i, err)
		}
		sinPA, cosPA := math.Sincos(units.DegToRad(telPA[i]))
		x[i] = scale[i] * (cosPA*px - sinPA*py)
		y[i] = scale[i] * (sinPA*px + cosPA*py)
	}
	return x, y, nil
}

// project maps one source at (dlon, lat) radians from a pointing with the
// given latitude trigs onto the unrotated tangent plane, in degrees of
// arc from the centre.
func project(sinLat0, cosLat0, dlon, lat float64) (px, py float64, err error) {
	sinLat, cosLat := math.Sincos(lat)
	cosDlon := math.Cos(dlon)

	// Direction cosines of the source against the pointing; gz is the
	// cosine of the angular separation.
	gx := sinLat0*cosLat*cosDlon - cosLat0*sinLat
	gy := cosLat * math.Sin(dlon)
	gz := cosLat0*cosLat*cosDlon + sinLat0*sinLat
	if gz <= 0 {
		return 0, 0, ErrBehindTangentPlane
	}

	q := 1/(gz*gz) - 1
	if q < 0 {
		// Rounding can push gz past 1 for a source at the exact centre.
		q = 0
	}
	r := units.DegPerRad * math.Sqrt(q)
	phi := math.Atan2(gx, -gy)
	return r * math.Cos(phi), -r * math.Sin(phi), nil
}
