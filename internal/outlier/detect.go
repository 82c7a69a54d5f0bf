// Package outlier flags anomalous numeric values and rewrites them.
//
// Detection is a query: it returns a Detection holding the mask together
// with the statistics that produced it, so treatments can reuse the bounds.
// Null cells are excluded from every statistic and are never flagged.
package outlier

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// Method selects the outlier rule.
type Method int

const (
	IQR Method = iota
	ZScore
)

func (m Method) String() string {
	switch m {
	case IQR:
		return "iqr"
	case ZScore:
		return "zscore"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps "iqr" or "zscore" (also "z") to a Method.
func ParseMethod(token string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "iqr":
		return IQR, nil
	case "zscore", "z-score", "z":
		return ZScore, nil
	}
	return 0, &dataset.UnsupportedStrategyError{Op: "outlier.ParseMethod", Strategy: token, Allowed: []string{"iqr", "zscore"}}
}

// Config selects a rule and its parameter.
type Config struct {
	Method        Method
	ZThreshold    float64
	IQRMultiplier float64
}

// DefaultConfig is IQR with the conventional 1.5 fences; z-score uses 3.
func DefaultConfig() Config {
	return Config{Method: IQR, ZThreshold: 3, IQRMultiplier: 1.5}
}

// Mask marks outlier rows with true.
type Mask []bool

// Count returns the number of flagged rows.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Rows returns the flagged row indexes.
func (m Mask) Rows() []int {
	var out []int
	for i, v := range m {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// Detection is the immutable result of running a rule over one column.
// Lower and Upper are the IQR fences, or mean -/+ threshold*std for z-score.
type Detection struct {
	Column   string  `json:"column"`
	Method   string  `json:"method"`
	Param    float64 `json:"param"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Mask     Mask    `json:"-"`
	Outliers int     `json:"outliers"`
	NonNull  int     `json:"non_null"`
}

// DetectZScore flags values whose population z-score magnitude exceeds
// threshold. values carries NaN at null rows. A column without variance has
// no outliers.
func DetectZScore(column string, values []float64, threshold float64) (Detection, error) {
	if threshold < 0 || math.IsNaN(threshold) {
		return Detection{}, &dataset.InvalidArgumentError{Op: "outlier.DetectZScore", Param: "threshold", Value: threshold,
			Reason: "must be non-negative"}
	}
	valid := nonNull(values)
	d := Detection{Column: column, Method: ZScore.String(), Param: threshold, Mask: make(Mask, len(values)), NonNull: len(valid)}
	if len(valid) == 0 {
		d.Mean, d.Std, d.Lower, d.Upper = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return d, nil
	}
	d.Mean, d.Std = stats.MeanStd(valid)
	d.Q1, d.Q3, d.IQR = stats.Quartiles(valid)
	d.Lower = d.Mean - threshold*d.Std
	d.Upper = d.Mean + threshold*d.Std
	if d.Std == 0 {
		return d, nil
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs((v-d.Mean)/d.Std) > threshold {
			d.Mask[i] = true
			d.Outliers++
		}
	}
	return d, nil
}

// DetectIQR flags values outside [q1 - multiplier*iqr, q3 + multiplier*iqr].
func DetectIQR(column string, values []float64, multiplier float64) (Detection, error) {
	if multiplier < 0 || math.IsNaN(multiplier) {
		return Detection{}, &dataset.InvalidArgumentError{Op: "outlier.DetectIQR", Param: "multiplier", Value: multiplier,
			Reason: "must be non-negative"}
	}
	valid := nonNull(values)
	d := Detection{Column: column, Method: IQR.String(), Param: multiplier, Mask: make(Mask, len(values)), NonNull: len(valid)}
	if len(valid) == 0 {
		d.Mean, d.Std, d.Q1, d.Q3, d.IQR = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		d.Lower, d.Upper = math.NaN(), math.NaN()
		return d, nil
	}
	d.Mean, d.Std = stats.MeanStd(valid)
	d.Q1, d.Q3, d.IQR = stats.Quartiles(valid)
	d.Lower = d.Q1 - multiplier*d.IQR
	d.Upper = d.Q3 + multiplier*d.IQR
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < d.Lower || v > d.Upper {
			d.Mask[i] = true
			d.Outliers++
		}
	}
	return d, nil
}

// Detect runs the configured rule over a numeric column of ds.
func Detect(ds *dataset.Dataset, column string, cfg Config) (Detection, error) {
	c, err := ds.Numeric("outlier.Detect", column)
	if err != nil {
		return Detection{}, err
	}
	return detect(c, cfg)
}

func detect(c *dataset.Column, cfg Config) (Detection, error) {
	switch cfg.Method {
	case ZScore:
		return DetectZScore(c.Name(), c.Floats(), cfg.ZThreshold)
	case IQR:
		return DetectIQR(c.Name(), c.Floats(), cfg.IQRMultiplier)
	}
	return Detection{}, &dataset.UnsupportedStrategyError{Op: "outlier.Detect", Strategy: cfg.Method.String(),
		Allowed: []string{"iqr", "zscore"}}
}

// DetectAll runs Detect over columns, or every numeric column when columns
// is empty. Results follow the column order.
func DetectAll(ds *dataset.Dataset, columns []string, cfg Config) ([]Detection, error) {
	cols, err := numericColumns(ds, "outlier.DetectAll", columns)
	if err != nil {
		return nil, err
	}
	out := make([]Detection, 0, len(cols))
	for _, c := range cols {
		d, err := detect(c, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Count returns the number of outliers per column.
func Count(ds *dataset.Dataset, columns []string, cfg Config) (map[string]int, error) {
	dets, err := DetectAll(ds, columns, cfg)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(dets))
	for _, d := range dets {
		out[d.Column] = d.Outliers
	}
	return out, nil
}

// Outliers returns the rows of ds flagged by the IQR rule on column.
func Outliers(ds *dataset.Dataset, column string, multiplier float64) (*dataset.Dataset, error) {
	d, err := Detect(ds, column, Config{Method: IQR, IQRMultiplier: multiplier})
	if err != nil {
		return nil, err
	}
	return ds.Filter(d.Mask)
}

// Beyond returns the rows whose value in column is not strictly inside
// mean -/+ k*std of that column.
func Beyond(ds *dataset.Dataset, column string, k float64) (*dataset.Dataset, error) {
	const op = "outlier.Beyond"
	if k < 0 || math.IsNaN(k) {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "k", Value: k, Reason: "must be non-negative"}
	}
	c, err := ds.Numeric(op, column)
	if err != nil {
		return nil, err
	}
	mean, std := stats.MeanStd(c.Valid())
	lower, upper := mean-k*std, mean+k*std
	keep := make([]bool, c.Len())
	for i := range keep {
		v, ok := c.Float(i)
		keep[i] = ok && !(v > lower && v < upper)
	}
	return ds.Filter(keep)
}

// ColumnStats is the descriptive record of one numeric column used for
// diagnostics.
type ColumnStats struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
	Mean              float64 `json:"mean"`
	Std               float64 `json:"std"`
	Q1                float64 `json:"q1"`
	Q3                float64 `json:"q3"`
	IQR               float64 `json:"iqr"`
	LowerBound        float64 `json:"lower_bound"`
	UpperBound        float64 `json:"upper_bound"`
}

// Stats computes ColumnStats with IQR fences at multiplier.
func Stats(ds *dataset.Dataset, column string, multiplier float64) (ColumnStats, error) {
	c, err := ds.Numeric("outlier.Stats", column)
	if err != nil {
		return ColumnStats{}, err
	}
	if c.Len() == 0 {
		return ColumnStats{}, &dataset.InvalidInputError{Op: "outlier.Stats", Column: column, Reason: "column has no rows"}
	}
	d, err := DetectIQR(column, c.Floats(), multiplier)
	if err != nil {
		return ColumnStats{}, err
	}
	return ColumnStats{
		Column:            column,
		MissingCount:      c.NullCount(),
		MissingPercentage: stats.Round(100*float64(c.NullCount())/float64(c.Len()), 2),
		Mean:              d.Mean,
		Std:               d.Std,
		Q1:                d.Q1,
		Q3:                d.Q3,
		IQR:               d.IQR,
		LowerBound:        d.Lower,
		UpperBound:        d.Upper,
	}, nil
}

func numericColumns(ds *dataset.Dataset, op string, columns []string) ([]*dataset.Column, error) {
	if len(columns) == 0 {
		columns = ds.NamesOf(dataset.Numeric)
	}
	out := make([]*dataset.Column, 0, len(columns))
	for _, name := range columns {
		c, err := ds.Numeric(op, name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func nonNull(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
