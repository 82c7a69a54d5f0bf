// Package dataset holds the in-memory tabular model shared by every
// cleaning and reporting stage.
//
// A Dataset is never mutated after construction. Every transformation builds
// a new Dataset that shares the untouched columns with its source.
package dataset

import (
	"fmt"
	"strings"
)

// Dataset is an ordered collection of equal-length named columns.
type Dataset struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New validates and assembles columns into a Dataset.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{cols: make([]*Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, &InvalidInputError{Op: "dataset.New", Reason: fmt.Sprintf("column %d is nil", i)}
		}
		if strings.TrimSpace(c.Name()) == "" {
			return nil, &InvalidInputError{Op: "dataset.New", Reason: fmt.Sprintf("column %d has an empty name", i)}
		}
		if _, dup := d.index[c.Name()]; dup {
			return nil, &InvalidInputError{Op: "dataset.New", Column: c.Name(), Reason: "duplicate column name"}
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, &InvalidInputError{Op: "dataset.New", Column: c.Name(),
				Reason: fmt.Sprintf("has %d rows, want %d", c.Len(), d.rows)}
		}
		d.index[c.Name()] = len(d.cols)
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// Width returns the column count.
func (d *Dataset) Width() int { return len(d.cols) }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in order. The slice is a copy.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// Lookup is Column with a typed error for the calling operation.
func (d *Dataset) Lookup(op, name string) (*Column, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Op: op, Column: name}
	}
	return c, nil
}

// Numeric looks up a column and requires it to be numeric.
func (d *Dataset) Numeric(op, name string) (*Column, error) {
	c, err := d.Lookup(op, name)
	if err != nil {
		return nil, err
	}
	if c.Kind() != Numeric {
		return nil, &InvalidInputError{Op: op, Column: name, Reason: fmt.Sprintf("column is %s, want numeric", c.Kind())}
	}
	return c, nil
}

// NamesOf returns the names of columns of the given kinds, in order.
func (d *Dataset) NamesOf(kinds ...Kind) []string {
	var out []string
	for _, c := range d.cols {
		for _, k := range kinds {
			if c.Kind() == k {
				out = append(out, c.Name())
				break
			}
		}
	}
	return out
}

// NullCount returns the number of null cells across all columns.
func (d *Dataset) NullCount() int {
	n := 0
	for _, c := range d.cols {
		n += c.NullCount()
	}
	return n
}

// With returns a dataset where col replaces the column of the same name, or
// is appended when no such column exists.
func (d *Dataset) With(col *Column) (*Dataset, error) {
	cols := d.Columns()
	if i, ok := d.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Replace swaps several existing columns at once.
func (d *Dataset) Replace(op string, cols ...*Column) (*Dataset, error) {
	if len(cols) == 0 {
		return d, nil
	}
	next := d.Columns()
	for _, c := range cols {
		i, ok := d.index[c.Name()]
		if !ok {
			return nil, &ColumnNotFoundError{Op: op, Column: c.Name()}
		}
		next[i] = c
	}
	return New(next...)
}

// Drop returns a dataset without the named columns.
func (d *Dataset) Drop(op string, names ...string) (*Dataset, error) {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := d.index[n]; !ok {
			return nil, &ColumnNotFoundError{Op: op, Column: n}
		}
		skip[n] = struct{}{}
	}
	var keep []*Column
	for _, c := range d.cols {
		if _, ok := skip[c.Name()]; !ok {
			keep = append(keep, c)
		}
	}
	out, err := New(keep...)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		out.rows = d.rows
	}
	return out, nil
}

// Rename returns a dataset with column from renamed to to.
func (d *Dataset) Rename(from, to string) (*Dataset, error) {
	const op = "dataset.Rename"
	c, err := d.Lookup(op, from)
	if err != nil {
		return nil, err
	}
	if from == to {
		return d, nil
	}
	if _, exists := d.index[to]; exists {
		return nil, &InvalidInputError{Op: op, Column: to, Reason: "target name already exists"}
	}
	cols := d.Columns()
	cols[d.index[from]] = c.WithName(to)
	return New(cols...)
}

// Take returns a dataset restricted to the given rows, in order.
func (d *Dataset) Take(rows []int) (*Dataset, error) {
	for _, r := range rows {
		if r < 0 || r >= d.rows {
			return nil, &InvalidArgumentError{Op: "dataset.Take", Param: "row", Value: r,
				Reason: fmt.Sprintf("out of range [0,%d)", d.rows)}
		}
	}
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.Take(rows)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = len(rows)
	return out, nil
}

// Filter keeps the rows where keep[i] is true.
func (d *Dataset) Filter(keep []bool) (*Dataset, error) {
	if len(keep) != d.rows {
		return nil, &InvalidArgumentError{Op: "dataset.Filter", Param: "mask length", Value: len(keep),
			Reason: fmt.Sprintf("want %d", d.rows)}
	}
	var rows []int
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	return d.Take(rows)
}

// Row renders row i as strings in column order.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Cell(i)
	}
	return out
}
