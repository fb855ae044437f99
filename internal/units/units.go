// Package units provides shared angle and length conversions for the
// simulation packages.
//
// Angles are tracked in degrees at package boundaries and converted to
// radians only inside trigonometric kernels. Focal-plane geometry is
// tracked in micrometres; optical prescriptions quote metres.
package units

import "math"

// Angle conversion factors.
const (
	DegPerRad    = 180.0 / math.Pi
	RadPerDeg    = math.Pi / 180.0
	ArcminPerDeg = 60.0
	ArcsecPerDeg = 3600.0
)

// MicronPerMetre converts metres to micrometres.
const MicronPerMetre = 1e6

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * RadPerDeg }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * DegPerRad }

// ArcminToDeg converts arcminutes to degrees.
func ArcminToDeg(arcmin float64) float64 { return arcmin / ArcminPerDeg }

// ArcsecToDeg converts arcseconds to degrees.
func ArcsecToDeg(arcsec float64) float64 { return arcsec / ArcsecPerDeg }

// MetreToMicron converts metres to micrometres.
func MetreToMicron(m float64) float64 { return m * MicronPerMetre }

// NormalizeDeg wraps an angle in degrees into [0, 360). Position angles
// are stored in this range everywhere.
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d == 360 {
		// Tiny negative inputs round back up to exactly 360.
		d = 0
	}
	return d
}

// FocalPlaneScale returns the plate scale of an ideal focal plane in
// micrometres per degree for a focal length in metres. A focal length f
// images one radian onto a physical distance f, so the per-degree scale
// is f in micrometres times pi/180.
func FocalPlaneScale(focalLengthM float64) float64 {
	return MetreToMicron(focalLengthM) * RadPerDeg
}
