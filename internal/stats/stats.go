// Package stats provides the numeric primitives the cleaning stages share.
//
// Quantiles use linear interpolation between closest ranks
// (rank = q*(n-1)), the estimator numpy and pandas use by default. Standard
// deviation is the population form (ddof=0). Inputs are never modified.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDuplicateEdges is returned by Qcut when bin edges are not unique.
var ErrDuplicateEdges = errors.New("bin edges must be unique")

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// MeanStd returns the mean and population standard deviation.
func MeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.PopMeanStdDev(x, nil)
}

// Median returns the 50th percentile.
func Median(x []float64) float64 { return Quantile(x, 0.5) }

// Quantile returns the q-th quantile (0 <= q <= 1) of x.
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return QuantileSorted(cp, q)
}

// QuantileSorted is Quantile for already sorted input.
func QuantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quartiles returns q1, q3 and their difference.
func Quartiles(x []float64) (q1, q3, iqr float64) {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	q1 = QuantileSorted(cp, 0.25)
	q3 = QuantileSorted(cp, 0.75)
	return q1, q3, q3 - q1
}

// Skew returns the adjusted Fisher-Pearson skewness (pandas Series.skew).
// Fewer than three values, or zero variance, give NaN and 0 respectively.
func Skew(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if floats.Max(x) == floats.Min(x) {
		return 0
	}
	return stat.Skew(x, nil)
}

// Mode returns the most frequent non-empty string. Ties resolve to the
// lexically smallest value. ok is false when there are no values.
func Mode(values []string) (mode string, ok bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	best := 0
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode, best > 0
}

// Pearson returns the correlation of x and y over rows where both are not
// NaN. When fewer than two complete pairs exist, or either side has zero
// variance, it returns NaN.
func Pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if floats.Max(xs) == floats.Min(xs) || floats.Max(ys) == floats.Min(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Qcut assigns each value to one of q equal-frequency bins (pandas qcut).
// Bins are right-closed with the lowest edge included. NaN values get bin
// -1. edges has q+1 entries.
func Qcut(values []float64, q int) (bins []int, edges []float64, err error) {
	if q < 1 {
		return nil, nil, errors.New("bin count must be at least 1")
	}
	var valid []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return nil, nil, errors.New("no values to bin")
	}
	sort.Float64s(valid)
	edges = make([]float64, q+1)
	for i := range edges {
		edges[i] = QuantileSorted(valid, float64(i)/float64(q))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] == edges[i-1] {
			return nil, edges, ErrDuplicateEdges
		}
	}
	bins = make([]int, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			bins[i] = -1
			continue
		}
		// first edge index with edges[j] >= v, clamped so the lowest edge
		// falls into bin 0
		j := sort.SearchFloat64s(edges, v)
		if j == 0 {
			j = 1
		}
		bins[i] = j - 1
	}
	return bins, edges, nil
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
