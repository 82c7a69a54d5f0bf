// Package overview computes read-only descriptive summaries of a dataset.
package overview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// DecilesColumn is the name of the column added by Deciles.
const DecilesColumn = "deciles"

// Duplicates counts rows equal to an earlier row.
func Duplicates(ds *dataset.Dataset) (int, error) {
	if ds == nil {
		return 0, &dataset.InvalidInputError{Op: "overview.Duplicates", Reason: "dataset is nil"}
	}
	_, dups := firstRows(ds)
	return dups, nil
}

// DropDuplicates keeps the first occurrence of every distinct row.
func DropDuplicates(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if ds == nil {
		return nil, &dataset.InvalidInputError{Op: "overview.DropDuplicates", Reason: "dataset is nil"}
	}
	keep, dups := firstRows(ds)
	if dups == 0 {
		return ds, nil
	}
	return ds.Take(keep)
}

func firstRows(ds *dataset.Dataset) (keep []int, dups int) {
	cols := ds.Columns()
	seen := make(map[string]struct{}, ds.Rows())
	var b strings.Builder
	for i := 0; i < ds.Rows(); i++ {
		b.Reset()
		for _, c := range cols {
			if c.IsNull(i) {
				b.WriteByte(0)
			} else {
				b.WriteByte(1)
				b.WriteString(c.Cell(i))
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return keep, dups
}

// ColumnSkew is the skewness of one numeric column.
type ColumnSkew struct {
	Column string `json:"column"`
	Skew   Float  `json:"skew"`
}

// Skewness returns the adjusted Fisher-Pearson skew of every numeric column,
// in dataset order. Columns with fewer than three values report NaN.
func Skewness(ds *dataset.Dataset) []ColumnSkew {
	names := ds.NamesOf(dataset.Numeric)
	out := make([]ColumnSkew, 0, len(names))
	for _, name := range names {
		c, _ := ds.Column(name)
		out = append(out, ColumnSkew{Column: name, Skew: Float(stats.Skew(c.Valid()))})
	}
	return out
}

// Deciles returns ds with a categorical "deciles" column holding the
// equal-frequency bin of column. When labels is empty, bins are labelled by
// their interval, e.g. "(3.25, 5.5]". Null values stay null.
func Deciles(ds *dataset.Dataset, column string, q int, labels []string) (*dataset.Dataset, error) {
	const op = "overview.Deciles"
	if q < 1 {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "q", Value: q, Reason: "must be at least 1"}
	}
	if len(labels) > 0 && len(labels) != q {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "labels", Value: len(labels),
			Reason: fmt.Sprintf("need exactly %d labels", q)}
	}
	c, err := ds.Numeric(op, column)
	if err != nil {
		return nil, err
	}
	if len(c.Valid()) == 0 {
		return nil, &dataset.InvalidInputError{Op: op, Column: column, Reason: "column has no values"}
	}
	bins, edges, err := stats.Qcut(c.Floats(), q)
	if errors.Is(err, stats.ErrDuplicateEdges) {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "q", Value: q,
			Reason: fmt.Sprintf("bin edges %v are not unique", edges)}
	}
	if err != nil {
		return nil, &dataset.InvalidArgumentError{Op: op, Param: "q", Value: q, Reason: err.Error()}
	}
	if len(labels) == 0 {
		labels = intervalLabels(edges)
	}
	cells := make([]string, len(bins))
	for i, b := range bins {
		if b >= 0 {
			cells[i] = labels[b]
		}
	}
	return ds.With(dataset.NewCategorical(DecilesColumn, cells))
}

func intervalLabels(edges []float64) []string {
	out := make([]string, len(edges)-1)
	for i := range out {
		open := "("
		if i == 0 {
			open = "["
		}
		out[i] = open + fmtEdge(edges[i]) + ", " + fmtEdge(edges[i+1]) + "]"
	}
	return out
}

func fmtEdge(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string  `json:"columns"`
	Values  [][]Float `json:"values"` // row-major, Values[i][j]
}

// Correlation computes the pairwise-complete Pearson matrix over the numeric
// columns of ds. Pairs without enough data or variance are NaN; the
// diagonal is 1.
func Correlation(ds *dataset.Dataset) *CorrMatrix {
	names := ds.NamesOf(dataset.Numeric)
	vals := make([][]float64, len(names))
	for i, n := range names {
		c, _ := ds.Column(n)
		vals[i] = c.Floats()
	}
	m := &CorrMatrix{Columns: names, Values: make([][]Float, len(names))}
	for i := range m.Values {
		m.Values[i] = make([]Float, len(names))
		m.Values[i][i] = 1
	}
	for i := range names {
		for j := 0; j < i; j++ {
			r := Float(stats.Pearson(vals[i], vals[j]))
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

// At returns the correlation of columns a and b.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, n := range m.Columns {
		if n == a {
			i = k
		}
		if n == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return float64(m.Values[i][j]), true
}

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}
