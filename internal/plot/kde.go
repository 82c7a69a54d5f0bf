package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
)

// Density evaluates a Gaussian kernel density estimate of values at n evenly
// spaced points spanning the data plus three bandwidths on either side. The
// bandwidth follows Scott's rule, std * len(values)^(-1/5). It returns nil
// when fewer than two distinct values are given.
func Density(values []float64, n int) plotter.XYs {
	if len(values) < 2 || n < 2 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return nil
	}
	bw := stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
	start, end := lo-3*bw, hi+3*bw
	xs := make([]float64, n)
	floats.Span(xs, start, end)

	out := make(plotter.XYs, n)
	norm := 1 / (float64(len(values)) * bw)
	for i, x := range xs {
		s := 0.0
		for _, v := range values {
			s += distuv.UnitNormal.Prob((x - v) / bw)
		}
		out[i] = plotter.XY{X: x, Y: s * norm}
	}
	return out
}
