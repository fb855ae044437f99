package telescope

import "fmt"

// Detector is one rectangular pixel array at a fixed physical offset
// within the focal plane. The offset names the detector centre; pixel
// (0, 0) sits at the detector corner.
type Detector struct {
	Rows       int
	Cols       int
	PixelScale float64 // micrometres per pixel
	OffsetDX   float64 // micrometres from the optical axis
	OffsetDY   float64
}

// NewDetector validates the pixel geometry.
func NewDetector(rows, cols int, pixelScale, offsetDX, offsetDY float64) (Detector, error) {
	if rows <= 0 || cols <= 0 {
		return Detector{}, fmt.Errorf("%w: detector dimensions %dx%d", ErrNotConfigured, rows, cols)
	}
	if pixelScale <= 0 {
		return Detector{}, fmt.Errorf("%w: pixel scale %v um", ErrNotConfigured, pixelScale)
	}
	return Detector{
		Rows:       rows,
		Cols:       cols,
		PixelScale: pixelScale,
		OffsetDX:   offsetDX,
		OffsetDY:   offsetDY,
	}, nil
}

// ToPixel converts a focal-plane position in micrometres to continuous
// pixel coordinates on this detector. No rounding: sub-pixel centroid
// positions are preserved.
func (d Detector) ToPixel(x, y float64) (px, py float64) {
	px = (x-d.OffsetDX)/d.PixelScale + float64(d.Cols)/2
	py = (y-d.OffsetDY)/d.PixelScale + float64(d.Rows)/2
	return px, py
}

// Contains reports whether a pixel coordinate falls on this detector,
// with half-open bounds on both axes.
func (d Detector) Contains(px, py float64) bool {
	return px >= 0 && px < float64(d.Cols) && py >= 0 && py < float64(d.Rows)
}
