package challenge

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Residual summarizes one axis of the distorted-minus-truth residuals
// of a field, in micrometres.
type Residual struct {
	Max    float64
	Min    float64
	Mean   float64
	Median float64
	Std    float64
}

// FieldSummary carries the residual distribution of one field. The
// distribution is reported, never asserted: only the identity map makes
// residuals exactly zero.
type FieldSummary struct {
	Field int
	Count int
	DX    Residual
	DY    Residual
}

func (s FieldSummary) String() string {
	return fmt.Sprintf("field %d: %d sources, dx[max %.3f min %.3f mean %.3f median %.3f std %.3f] dy[max %.3f min %.3f mean %.3f median %.3f std %.3f]",
		s.Field, s.Count,
		s.DX.Max, s.DX.Min, s.DX.Mean, s.DX.Median, s.DX.Std,
		s.DY.Max, s.DY.Min, s.DY.Mean, s.DY.Median, s.DY.Std)
}

func summarizeField(field int, dx, dy []float64) FieldSummary {
	return FieldSummary{
		Field: field,
		Count: len(dx),
		DX:    summarize(dx),
		DY:    summarize(dy),
	}
}

func summarize(vals []float64) Residual {
	if len(vals) == 0 {
		return Residual{}
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return Residual{
		Max:    floats.Max(vals),
		Min:    floats.Min(vals),
		Mean:   stat.Mean(vals, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Std:    stat.StdDev(vals, nil),
	}
}
