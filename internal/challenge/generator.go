// Package challenge turns the simulator into answer-key datasets: for
// each challenge it perturbs the master pointing, draws one distortion,
// exposes a grid of jittered fields and joins the distorted observations
// against their undistorted ground truth by catalog identity.
package challenge

import (
	"fmt"
	"math/rand"

	"github.com/warpfield-data/warpfield/internal/catalog"
	"github.com/warpfield-data/warpfield/internal/distortion"
	"github.com/warpfield-data/warpfield/internal/monitoring"
	"github.com/warpfield-data/warpfield/internal/sky"
	"github.com/warpfield-data/warpfield/internal/telescope"
	"github.com/warpfield-data/warpfield/internal/units"
)

// Params are the per-field perturbation settings of a challenge series.
type Params struct {
	Stride         float64 // field grid half-stride, arcminutes
	PointingJitter float64 // per-exposure pointing jitter sigma, arcseconds
	AngleJitter    float64 // position-angle jitter sigma, degrees
	SIPOrder       int
	OffsetLimit    float64 // distortion constant draw limit, micrometres
	EdgeMargin     float64 // master offset margin, arcminutes
}

// DefaultParams matches the reference challenge series.
func DefaultParams() Params {
	return Params{
		Stride:         4,
		PointingJitter: 5,
		AngleJitter:    1,
		SIPOrder:       5,
		OffsetLimit:    3000,
		EdgeMargin:     3,
	}
}

// Plates is the exposure schedule of the reference series: challenge n
// exposes 2^n plates per grid corner.
func Plates(index int) int {
	return 1 << index
}

// Position is one row of the answer-key positions table: the distorted
// focal-plane position, the undistorted truth position and the catalog
// coordinates, tagged with the exposure's field index. Lengths are
// micrometres, angles degrees.
type Position struct {
	X         float64
	Y         float64
	CatalogID int64
	XOrig     float64
	YOrig     float64
	RA        float64
	Dec       float64
	Field     int
}

// Attitude is one row of the attitudes table: the true telescope
// attitude of a field, in ICRS degrees.
type Attitude struct {
	Field int
	RA    float64
	Dec   float64
	PA    float64
}

// Challenge is one generated challenge: the two answer-key tables, the
// keyword block and the drawn distortion.
type Challenge struct {
	Index      int
	Plates     int
	Pointing   sky.Position // offset master pointing, ICRS
	PA0        float64      // frame-rotation angle at the master pointing
	Distortion *distortion.SIP
	Keywords   []distortion.Keyword
	Positions  []Position
	Attitudes  []Attitude
	Fields     []FieldSummary
}

// Generator drives challenge production. It owns a single sequential
// random stream, so generating the same indices in the same order from
// the same seed reproduces the same datasets.
type Generator struct {
	rng     *rand.Rand
	params  Params
	design  telescope.Design
	master  sky.Position
	radius  float64 // master offset cap radius, degrees
	sources []catalog.Source
}

// New builds a generator over a fixed catalog. The master position
// anchors the challenge series; offsets and field grids are laid out
// around it in its own frame.
func New(seed int64, params Params, design telescope.Design, master sky.Position, radius float64, sources []catalog.Source) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		params:  params,
		design:  design,
		master:  master,
		radius:  radius,
		sources: sources,
	}
}

// corner order of the 2x2 field grid: longitude varies fastest.
var corners = [4][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}

// Generate produces challenge `index` with the given number of plates
// per grid corner, advancing the generator's random stream.
func (g *Generator) Generate(index, plates int) (*Challenge, error) {
	if plates < 1 {
		return nil, fmt.Errorf("challenge: plates must be positive, got %d", plates)
	}

	// The frame-rotation angle at the original master pointing is
	// recorded alongside the answer key.
	pa0 := g.probeAngle(g.master)

	// Displace the master pointing once per challenge, keeping the whole
	// field grid inside the catalog cap.
	maxSep := g.radius - units.ArcminToDeg(g.params.EdgeMargin)
	if maxSep < 0 {
		return nil, fmt.Errorf("challenge: edge margin %v arcmin exceeds the %v deg cap", g.params.EdgeMargin, g.radius)
	}
	sep := maxSep * g.rng.Float64()
	dir := 360 * g.rng.Float64()
	pointing := sky.DirectionalOffset(g.master, dir, sep)

	sip := distortion.Draw(g.rng, g.params.SIPOrder, g.params.OffsetLimit)

	ch := &Challenge{
		Index:      index,
		Plates:     plates,
		Pointing:   pointing.To(sky.ICRS),
		PA0:        pa0,
		Distortion: sip,
	}

	stride := units.ArcminToDeg(g.params.Stride)
	jitter := units.ArcsecToDeg(g.params.PointingJitter)
	for n, corner := range corners {
		for m := 0; m < plates; m++ {
			field := m + n*plates
			dl := g.rng.NormFloat64() * jitter
			db := g.rng.NormFloat64() * jitter
			pa := g.rng.NormFloat64() * g.params.AngleJitter

			// Jitter lands directly on the grid coordinates, matching
			// the layout of the reference series.
			centre := sky.NewPosition(
				pointing.Lon+corner[0]*stride+dl,
				pointing.Lat+corner[1]*stride+db,
				pointing.Frame,
			)

			if err := g.expose(ch, field, centre, pa, sip); err != nil {
				return nil, fmt.Errorf("challenge %d field %d: %w", index, field, err)
			}
		}
	}

	ch.Keywords = keywords(ch)
	return ch, nil
}

// expose simulates one field: a truth pass, a distorted pass, and the
// catalog-identity join between them.
func (g *Generator) expose(ch *Challenge, field int, centre sky.Position, pa float64, sip *distortion.SIP) error {
	tel, err := g.design.Build(centre, pa)
	if err != nil {
		return err
	}

	truth, err := tel.Optics.Image(g.sources)
	if err != nil {
		return fmt.Errorf("truth pass: %w", err)
	}
	truthAt := make(map[int64]int, truth.Len())
	for i := 0; i < truth.Len(); i++ {
		truthAt[truth.CatalogID[i]] = i
	}

	tel.SetDistortion(sip)
	byDetector, err := tel.ObserveField(g.sources)
	if err != nil {
		return fmt.Errorf("distorted pass: %w", err)
	}

	var dx, dy []float64
	for _, observations := range byDetector {
		for _, o := range observations {
			t, ok := truthAt[o.CatalogID]
			if !ok {
				// Both passes cut on the catalogued sky position, so an
				// observed source always has a truth row.
				return fmt.Errorf("source %d observed without a truth position", o.CatalogID)
			}
			ch.Positions = append(ch.Positions, Position{
				X:         o.X,
				Y:         o.Y,
				CatalogID: o.CatalogID,
				XOrig:     truth.X[t],
				YOrig:     truth.Y[t],
				RA:        o.RA,
				Dec:       o.Dec,
				Field:     field,
			})
			dx = append(dx, o.X-truth.X[t])
			dy = append(dy, o.Y-truth.Y[t])
		}
	}
	summary := summarizeField(field, dx, dy)
	ch.Fields = append(ch.Fields, summary)
	monitoring.Logf("challenge %d %s", ch.Index, summary)

	icrs := centre.To(sky.ICRS)
	ch.Attitudes = append(ch.Attitudes, Attitude{
		Field: field,
		RA:    icrs.Lon,
		Dec:   icrs.Lat,
		PA:    units.NormalizeDeg(pa + g.probeAngle(centre)),
	})
	return nil
}

// probeAngle measures the local rotation between a position's frame and
// ICRS by offsetting a probe point a tenth of a degree toward the
// frame's north and taking its ICRS bearing.
func (g *Generator) probeAngle(p sky.Position) float64 {
	probe := sky.DirectionalOffset(p, 0, 0.1)
	return sky.PositionAngle(p.To(sky.ICRS), probe)
}

// keywords assembles the metadata block of the positions table: the
// offset pointing, the frame-rotation angle and the distortion
// coefficients.
func keywords(ch *Challenge) []distortion.Keyword {
	kws := []distortion.Keyword{
		{Name: "pointing_ra", Value: ch.Pointing.Lon},
		{Name: "pointing_dec", Value: ch.Pointing.Lat},
		{Name: "position_angle", Value: ch.PA0},
	}
	return append(kws, ch.Distortion.Keywords()...)
}
