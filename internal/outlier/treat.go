package outlier

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// Center selects the replacement statistic for outlier values.
type Center int

const (
	CenterMedian Center = iota
	CenterMean
)

func (c Center) String() string {
	switch c {
	case CenterMedian:
		return "median"
	case CenterMean:
		return "mean"
	}
	return fmt.Sprintf("Center(%d)", int(c))
}

// ParseCenter maps "mean" or "median" to a Center.
func ParseCenter(token string) (Center, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "median":
		return CenterMedian, nil
	case "mean":
		return CenterMean, nil
	}
	return 0, &dataset.UnsupportedStrategyError{Op: "outlier.ParseCenter", Strategy: token, Allowed: []string{"mean", "median"}}
}

func (c Center) of(values []float64) (float64, error) {
	switch c {
	case CenterMedian:
		return stats.Median(values), nil
	case CenterMean:
		return stats.Mean(values), nil
	}
	return 0, &dataset.UnsupportedStrategyError{Op: "outlier.Center", Strategy: c.String(), Allowed: []string{"mean", "median"}}
}

// LogTransform replaces every value with its natural logarithm. Every
// non-null value of every column must be positive; otherwise a DomainError
// names the first offending cell and ds is returned untouched.
func LogTransform(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	const op = "outlier.LogTransform"
	cols, err := numericColumns(ds, op, columns)
	if err != nil {
		return nil, err
	}
	next := make([]*dataset.Column, 0, len(cols))
	for _, c := range cols {
		vals := c.Floats()
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			if v <= 0 {
				return nil, &dataset.DomainError{Op: op, Column: c.Name(), Row: i, Value: v,
					Reason: "logarithm requires positive values"}
			}
			vals[i] = math.Log(v)
		}
		next = append(next, c.WithFloats(vals))
	}
	return ds.Replace(op, next...)
}

// Cap clips every value to the IQR fences of its column. The fences are
// computed on the input, so a second Cap may clip further when clipping
// moved a quartile; CapWithBounds reuses fixed fences.
func Cap(ds *dataset.Dataset, columns []string, multiplier float64) (*dataset.Dataset, error) {
	const op = "outlier.Cap"
	return rewrite(ds, op, columns, multiplier, func(_ *dataset.Column, d Detection, vals []float64) ([]float64, error) {
		return clip(vals, d.Lower, d.Upper), nil
	})
}

// CapWithBounds clips each detection's column to that detection's Lower and
// Upper. Applying it again with the same detections changes nothing.
func CapWithBounds(ds *dataset.Dataset, detections []Detection) (*dataset.Dataset, error) {
	const op = "outlier.CapWithBounds"
	next := make([]*dataset.Column, 0, len(detections))
	for _, d := range detections {
		if d.Lower > d.Upper {
			return nil, &dataset.InvalidArgumentError{Op: op, Param: "bounds", Value: [2]float64{d.Lower, d.Upper},
				Reason: "lower fence is above upper fence"}
		}
		c, err := ds.Numeric(op, d.Column)
		if err != nil {
			return nil, err
		}
		next = append(next, c.WithFloats(clip(c.Floats(), d.Lower, d.Upper)))
	}
	return ds.Replace(op, next...)
}

func clip(vals []float64, lower, upper float64) []float64 {
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
		case v < lower:
			vals[i] = lower
		case v > upper:
			vals[i] = upper
		}
	}
	return vals
}

// ImputeWithCentralTendency replaces values outside the IQR fences with the
// mean or median of the original column.
func ImputeWithCentralTendency(ds *dataset.Dataset, columns []string, center Center, multiplier float64) (*dataset.Dataset, error) {
	const op = "outlier.ImputeWithCentralTendency"
	return rewrite(ds, op, columns, multiplier, func(c *dataset.Column, d Detection, vals []float64) ([]float64, error) {
		fill, err := center.of(c.Valid())
		if err != nil {
			return nil, err
		}
		for _, i := range d.Mask.Rows() {
			vals[i] = fill
		}
		return vals, nil
	})
}

// ReplaceAbovePercentile replaces values strictly above the given quantile
// (0 < percentile <= 1) with the column median or mean.
func ReplaceAbovePercentile(ds *dataset.Dataset, column string, percentile float64, center Center) (*dataset.Dataset, error) {
	const op = "outlier.ReplaceAbovePercentile"
	if !(percentile > 0 && percentile <= 1) {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "percentile", Value: percentile, Reason: "must be within (0,1]"}
	}
	c, err := ds.Numeric(op, column)
	if err != nil {
		return nil, err
	}
	valid := c.Valid()
	if len(valid) == 0 {
		return ds, nil
	}
	cut := stats.Quantile(valid, percentile)
	fill, err := center.of(valid)
	if err != nil {
		return nil, err
	}
	vals := c.Floats()
	for i, v := range vals {
		if !math.IsNaN(v) && v > cut {
			vals[i] = fill
		}
	}
	return ds.Replace(op, c.WithFloats(vals))
}

type rewriteFunc func(c *dataset.Column, d Detection, vals []float64) ([]float64, error)

func rewrite(ds *dataset.Dataset, op string, columns []string, multiplier float64, fn rewriteFunc) (*dataset.Dataset, error) {
	cols, err := numericColumns(ds, op, columns)
	if err != nil {
		return nil, err
	}
	next := make([]*dataset.Column, 0, len(cols))
	for _, c := range cols {
		d, err := DetectIQR(c.Name(), c.Floats(), multiplier)
		if err != nil {
			return nil, err
		}
		if d.NonNull == 0 {
			continue
		}
		vals, err := fn(c, d, c.Floats())
		if err != nil {
			return nil, err
		}
		next = append(next, c.WithFloats(vals))
	}
	return ds.Replace(op, next...)
}

// Treatment selects an outlier rewrite.
type Treatment int

const (
	None Treatment = iota
	Log
	Clip
	ReplaceMean
	ReplaceMedian
	Percentile
)

var treatmentNames = []string{"none", "log", "cap", "mean", "median", "percentile"}

func (t Treatment) String() string {
	if int(t) >= 0 && int(t) < len(treatmentNames) {
		return treatmentNames[t]
	}
	return fmt.Sprintf("Treatment(%d)", int(t))
}

// ParseTreatment maps a token to a Treatment.
func ParseTreatment(token string) (Treatment, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "none":
		return None, nil
	case "log", "logscale":
		return Log, nil
	case "cap", "clip":
		return Clip, nil
	case "mean":
		return ReplaceMean, nil
	case "median":
		return ReplaceMedian, nil
	case "percentile":
		return Percentile, nil
	}
	return 0, &dataset.UnsupportedStrategyError{Op: "outlier.ParseTreatment", Strategy: token, Allowed: treatmentNames}
}

// Plan parameterizes Apply.
type Plan struct {
	Treatment  Treatment
	Multiplier float64
	// Percentile and Center are used by the Percentile treatment only.
	Percentile float64
	Center     Center
}

// DefaultPlan caps with 1.5 IQR fences; percentile replacement defaults to
// the median above the 95th percentile.
func DefaultPlan() Plan {
	return Plan{Treatment: Clip, Multiplier: 1.5, Percentile: 0.95, Center: CenterMedian}
}

// Apply runs one treatment over columns (every numeric column when empty).
// Treatments never chain.
func Apply(ds *dataset.Dataset, columns []string, p Plan) (*dataset.Dataset, error) {
	switch p.Treatment {
	case None:
		return ds, nil
	case Log:
		return LogTransform(ds, columns)
	case Clip:
		return Cap(ds, columns, p.Multiplier)
	case ReplaceMean:
		return ImputeWithCentralTendency(ds, columns, CenterMean, p.Multiplier)
	case ReplaceMedian:
		return ImputeWithCentralTendency(ds, columns, CenterMedian, p.Multiplier)
	case Percentile:
		if len(columns) == 0 {
			columns = ds.NamesOf(dataset.Numeric)
		}
		out := ds
		for _, name := range columns {
			next, err := ReplaceAbovePercentile(out, name, p.Percentile, p.Center)
			if err != nil {
				return nil, err
			}
			out = next
		}
		return out, nil
	}
	return nil, &dataset.UnsupportedStrategyError{Op: "outlier.Apply", Strategy: p.Treatment.String(), Allowed: treatmentNames}
}
