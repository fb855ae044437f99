package sky

import (
	"math"

	"github.com/warpfield-data/warpfield/internal/units"
)

// Defining angles of the galactic frame against ICRS (J2000): the ICRS
// coordinates of the north galactic pole and the galactic longitude of
// the north celestial pole.
const (
	ngpRA  = 192.8594812065348
	ngpDec = 27.12825118085622
	lonNCP = 122.9319185680026
)

var (
	sinNGP = math.Sin(units.DegToRad(ngpDec))
	cosNGP = math.Cos(units.DegToRad(ngpDec))
)

// galacticFromICRS rotates an ICRS ra/dec pair into galactic l/b.
// All angles in degrees.
func galacticFromICRS(ra, dec float64) (l, b float64) {
	decR := units.DegToRad(dec)
	dRA := units.DegToRad(ra - ngpRA)
	sinDec, cosDec := math.Sin(decR), math.Cos(decR)

	sinB := sinNGP*sinDec + cosNGP*cosDec*math.Cos(dRA)
	b = units.RadToDeg(math.Asin(clamp1(sinB)))

	y := cosDec * math.Sin(dRA)
	x := cosNGP*sinDec - sinNGP*cosDec*math.Cos(dRA)
	l = units.NormalizeDeg(lonNCP - units.RadToDeg(math.Atan2(y, x)))
	return l, b
}

// icrsFromGalactic rotates a galactic l/b pair into ICRS ra/dec.
// All angles in degrees.
func icrsFromGalactic(l, b float64) (ra, dec float64) {
	bR := units.DegToRad(b)
	dL := units.DegToRad(lonNCP - l)
	sinB, cosB := math.Sin(bR), math.Cos(bR)

	sinDec := sinNGP*sinB + cosNGP*cosB*math.Cos(dL)
	dec = units.RadToDeg(math.Asin(clamp1(sinDec)))

	y := cosB * math.Sin(dL)
	x := cosNGP*sinB - sinNGP*cosB*math.Cos(dL)
	ra = units.NormalizeDeg(ngpRA + units.RadToDeg(math.Atan2(y, x)))
	return ra, dec
}
