// Package sky provides celestial positions, reference-frame conversions
// and the great-circle relations used to lay out observation fields.
package sky

import (
	"fmt"
	"math"

	"github.com/warpfield-data/warpfield/internal/units"
)

// Frame identifies a celestial reference frame.
type Frame string

const (
	// ICRS is the International Celestial Reference System (ra/dec).
	ICRS Frame = "icrs"
	// Galactic is the IAU galactic frame (l/b).
	Galactic Frame = "galactic"
)

// Valid reports whether f names a supported frame.
func (f Frame) Valid() bool {
	return f == ICRS || f == Galactic
}

// Position is an immutable celestial coordinate: longitude-like and
// latitude-like angles in degrees plus the frame they are expressed in.
// Frame conversions return new values and never mutate in place.
type Position struct {
	Lon   float64
	Lat   float64
	Frame Frame
}

// NewPosition normalizes the longitude into [0, 360) and returns the
// position. Latitude is the caller's responsibility ([-90, 90]).
func NewPosition(lon, lat float64, frame Frame) Position {
	return Position{Lon: units.NormalizeDeg(lon), Lat: lat, Frame: frame}
}

// To converts the position into the target frame. Converting into the
// position's own frame returns it unchanged.
func (p Position) To(target Frame) Position {
	if p.Frame == target {
		return p
	}
	switch {
	case p.Frame == ICRS && target == Galactic:
		l, b := galacticFromICRS(p.Lon, p.Lat)
		return Position{Lon: l, Lat: b, Frame: Galactic}
	case p.Frame == Galactic && target == ICRS:
		ra, dec := icrsFromGalactic(p.Lon, p.Lat)
		return Position{Lon: ra, Lat: dec, Frame: ICRS}
	}
	// Unsupported frames are a construction bug; there is no sensible
	// fallback conversion.
	panic(fmt.Sprintf("sky: cannot convert frame %q to %q", p.Frame, target))
}

// ConvertBatch converts parallel lon/lat slices between frames, returning
// new slices in one-to-one input order.
func ConvertBatch(from, to Frame, lon, lat []float64) ([]float64, []float64, error) {
	if !from.Valid() || !to.Valid() {
		return nil, nil, fmt.Errorf("sky: unsupported frame conversion %q to %q", from, to)
	}
	if len(lon) != len(lat) {
		return nil, nil, fmt.Errorf("sky: mismatched batch lengths %d and %d", len(lon), len(lat))
	}
	outLon := make([]float64, len(lon))
	outLat := make([]float64, len(lat))
	if from == to {
		copy(outLon, lon)
		copy(outLat, lat)
		return outLon, outLat, nil
	}
	for i := range lon {
		if from == ICRS {
			outLon[i], outLat[i] = galacticFromICRS(lon[i], lat[i])
		} else {
			outLon[i], outLat[i] = icrsFromGalactic(lon[i], lat[i])
		}
	}
	return outLon, outLat, nil
}

// Separation returns the angular separation between two positions in
// degrees. The second position is converted into the frame of the first
// before the arc is measured.
func Separation(a, b Position) float64 {
	b = b.To(a.Frame)
	lat1 := units.DegToRad(a.Lat)
	lat2 := units.DegToRad(b.Lat)
	dlon := units.DegToRad(b.Lon - a.Lon)

	// Vincenty arc formula, stable for both small and antipodal arcs.
	num1 := math.Cos(lat2) * math.Sin(dlon)
	num2 := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	den := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dlon)
	return units.RadToDeg(math.Atan2(math.Hypot(num1, num2), den))
}

// PositionAngle returns the bearing of "to" as seen from "from", measured
// east of north, in [0, 360) degrees. The target is converted into the
// frame of the origin first.
func PositionAngle(from, to Position) float64 {
	to = to.To(from.Frame)
	lat1 := units.DegToRad(from.Lat)
	lat2 := units.DegToRad(to.Lat)
	dlon := units.DegToRad(to.Lon - from.Lon)

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Sin(lat2)*math.Cos(lat1) - math.Cos(lat2)*math.Sin(lat1)*math.Cos(dlon)
	return units.NormalizeDeg(units.RadToDeg(math.Atan2(y, x)))
}

// DirectionalOffset moves a position along a great circle by the given
// separation (degrees) in the direction of the given position angle
// (degrees east of north) and returns the new position in the same frame.
func DirectionalOffset(p Position, positionAngle, separation float64) Position {
	lat := units.DegToRad(p.Lat)
	pa := units.DegToRad(positionAngle)
	sep := units.DegToRad(separation)

	sinLat2 := math.Sin(lat)*math.Cos(sep) + math.Cos(lat)*math.Sin(sep)*math.Cos(pa)
	lat2 := math.Asin(clamp1(sinLat2))

	y := math.Sin(pa) * math.Sin(sep)
	x := math.Cos(sep)*math.Cos(lat) - math.Sin(sep)*math.Sin(lat)*math.Cos(pa)
	lon2 := units.DegToRad(p.Lon) + math.Atan2(y, x)

	return Position{
		Lon:   units.NormalizeDeg(units.RadToDeg(lon2)),
		Lat:   units.RadToDeg(lat2),
		Frame: p.Frame,
	}
}

// clamp1 clips a value into [-1, 1] before an inverse trig call; rounding
// can push exact poles marginally outside the domain.
func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
