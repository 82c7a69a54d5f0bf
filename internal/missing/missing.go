// Package missing reports missingness per column and across a dataset and
// decides which columns are too sparse to keep.
package missing

import (
	"math"
	"sort"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// ColumnMissing is the missing-value record of one column.
type ColumnMissing struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Report lists columns by missing count, highest first; ties keep dataset
// order.
type Report []ColumnMissing

// Lookup returns the entry for a column.
func (r Report) Lookup(name string) (ColumnMissing, bool) {
	for _, c := range r {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnMissing{}, false
}

// Total returns the sum of missing counts.
func (r Report) Total() int {
	n := 0
	for _, c := range r {
		n += c.Count
	}
	return n
}

// Analyze computes per-column missing counts and percentages.
func Analyze(ds *dataset.Dataset) (Report, error) {
	const op = "missing.Analyze"
	if ds.Rows() == 0 {
		return nil, &dataset.InvalidInputError{Op: op, Reason: "dataset has no rows"}
	}
	n := float64(ds.Rows())
	out := make(Report, 0, ds.Width())
	for _, c := range ds.Columns() {
		nulls := c.NullCount()
		out = append(out, ColumnMissing{
			Column:     c.Name(),
			Count:      nulls,
			Percentage: stats.Round(100*float64(nulls)/n, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// DatasetPercentage returns the share of null cells over all cells, in
// percent, rounded to two decimals.
func DatasetPercentage(ds *dataset.Dataset) (float64, error) {
	cells := ds.Rows() * ds.Width()
	if cells == 0 {
		return 0, &dataset.InvalidInputError{Op: "missing.DatasetPercentage", Reason: "dataset has no cells"}
	}
	return stats.Round(100*float64(ds.NullCount())/float64(cells), 2), nil
}

// ColumnsToDrop returns, in dataset order, every column whose null fraction
// is strictly greater than maxNullFraction.
func ColumnsToDrop(ds *dataset.Dataset, maxNullFraction float64) ([]string, error) {
	const op = "missing.ColumnsToDrop"
	if maxNullFraction < 0 || maxNullFraction > 1 || math.IsNaN(maxNullFraction) {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "max_null_fraction", Value: maxNullFraction,
			Reason: "must be within [0,1]"}
	}
	if ds.Rows() == 0 {
		return nil, &dataset.InvalidInputError{Op: op, Reason: "dataset has no rows"}
	}
	n := float64(ds.Rows())
	var out []string
	for _, c := range ds.Columns() {
		if float64(c.NullCount())/n > maxNullFraction {
			out = append(out, c.Name())
		}
	}
	return out, nil
}

// DropColumns returns a dataset without the given columns.
func DropColumns(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	return ds.Drop("missing.DropColumns", columns...)
}
