package distortion

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestIdentityLeavesPositionsUntouched(t *testing.T) {
	x := []float64{-12000.5, 0, 9981.25}
	y := []float64{4410.0, -1.5, 28000}
	dx, dy, err := Identity{}.Apply(x, y)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range x {
		if dx[i] != x[i] || dy[i] != y[i] {
			t.Errorf("position %d moved: (%v, %v) -> (%v, %v)", i, x[i], y[i], dx[i], dy[i])
		}
	}
}

func TestSIPZeroGridsShiftByConstant(t *testing.T) {
	side := 6
	s, err := NewSIP(5, [2]float64{120.5, -3.25}, mat.NewDense(side, side, nil), mat.NewDense(side, side, nil))
	if err != nil {
		t.Fatalf("NewSIP: %v", err)
	}
	x := []float64{0, 1500, -22000}
	y := []float64{0, -800, 10000}
	dx, dy, err := s.Apply(x, y)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range x {
		if dx[i] != x[i]+120.5 || dy[i] != y[i]-3.25 {
			t.Errorf("position %d: got (%v, %v), want (%v, %v)", i, dx[i], dy[i], x[i]+120.5, y[i]-3.25)
		}
	}
}

func TestSIPPolynomialTerms(t *testing.T) {
	a := mat.NewDense(3, 3, nil)
	b := mat.NewDense(3, 3, nil)
	a.Set(1, 0, 2e-3) // x term
	a.Set(0, 2, 5e-9) // y^2 term
	b.Set(1, 1, -4e-9)
	s, err := NewSIP(2, [2]float64{10, -10}, a, b)
	if err != nil {
		t.Fatalf("NewSIP: %v", err)
	}

	x := []float64{1000}
	y := []float64{500}
	dx, dy, err := s.Apply(x, y)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	wantX := 1000 + 10 + 2e-3*1000 + 5e-9*500*500
	wantY := 500 - 10 + -4e-9*1000*500
	if math.Abs(dx[0]-wantX) > 1e-9 || math.Abs(dy[0]-wantY) > 1e-9 {
		t.Errorf("got (%v, %v), want (%v, %v)", dx[0], dy[0], wantX, wantY)
	}
}

func TestNewSIPRejectsMisshapenGrids(t *testing.T) {
	square := mat.NewDense(6, 6, nil)
	tests := []struct {
		name  string
		order int
		a, b  *mat.Dense
	}{
		{"a too small", 5, mat.NewDense(5, 5, nil), square},
		{"b not square", 5, square, mat.NewDense(6, 5, nil)},
		{"negative order", -1, square, square},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSIP(tt.order, [2]float64{}, tt.a, tt.b); err == nil {
				t.Error("expected a shape error")
			}
		})
	}
}

func TestDrawReproducible(t *testing.T) {
	s1 := Draw(rand.New(rand.NewSource(42)), 5, 3000)
	s2 := Draw(rand.New(rand.NewSource(42)), 5, 3000)
	if !mat.Equal(s1.a, s2.a) || !mat.Equal(s1.b, s2.b) || s1.c != s2.c {
		t.Error("same seed drew different maps")
	}

	s3 := Draw(rand.New(rand.NewSource(43)), 5, 3000)
	if mat.Equal(s1.a, s3.a) {
		t.Error("different seeds drew the same a grid")
	}
}

func TestDrawCoefficientStructure(t *testing.T) {
	s := Draw(rand.New(rand.NewSource(7)), 5, 3000)

	if s.a.At(0, 0) != 0 || s.b.At(0, 0) != 0 {
		t.Errorf("constant grid cells = (%v, %v), want zero", s.a.At(0, 0), s.b.At(0, 0))
	}
	if s.c[0] < -3000 || s.c[0] >= 3000 || s.c[1] < -3000 || s.c[1] >= 3000 {
		t.Errorf("constants (%v, %v) outside the draw limit", s.c[0], s.c[1])
	}

	// Damping keeps high-order cells tiny: a normal draw beyond 10 sigma
	// would be astonishing.
	for m := 0; m <= 5; m++ {
		for n := 0; n <= 5; n++ {
			if m+n == 0 {
				continue
			}
			bound := 10 * math.Pow(10, float64(3-6*(m+n)))
			if math.Abs(s.a.At(m, n)) > bound || math.Abs(s.b.At(m, n)) > bound {
				t.Errorf("cell [%d,%d] exceeds its damping bound %v", m, n, bound)
			}
		}
	}
}

func TestKeywordsOrderAndCoverage(t *testing.T) {
	s := Draw(rand.New(rand.NewSource(42)), 5, 3000)
	kws := s.Keywords()

	if len(kws) != 2+2*36 {
		t.Fatalf("got %d keywords, want %d", len(kws), 2+2*36)
	}
	if kws[0].Name != "sip_c[0]" || kws[1].Name != "sip_c[1]" {
		t.Errorf("constants not first: %q, %q", kws[0].Name, kws[1].Name)
	}
	if kws[2].Name != "sip_a[0,0]" || kws[3].Name != "sip_b[0,0]" {
		t.Errorf("grid cells not interleaved: %q, %q", kws[2].Name, kws[3].Name)
	}
	if kws[len(kws)-1].Name != "sip_b[5,5]" {
		t.Errorf("last keyword %q, want sip_b[5,5]", kws[len(kws)-1].Name)
	}

	for _, kw := range kws {
		if kw.Name == "sip_a[1,2]" {
			if kw.Value != s.a.At(1, 2) {
				t.Errorf("sip_a[1,2] = %v, want %v", kw.Value, s.a.At(1, 2))
			}
			return
		}
	}
	t.Error("sip_a[1,2] missing from keywords")
}

func TestApplyLengthMismatch(t *testing.T) {
	s := Draw(rand.New(rand.NewSource(1)), 2, 100)
	if _, _, err := s.Apply([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected an error for mismatched batch lengths")
	}
	if _, _, err := (Identity{}).Apply([]float64{1}, nil); err == nil {
		t.Error("expected an error for mismatched batch lengths")
	}
}
