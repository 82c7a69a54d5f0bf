// Package preprocess converts column types and normalizes column names.
package preprocess

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/outlier"
)

// ToDatetime converts a string column to a datetime column. Cells that no
// layout can parse become null.
func ToDatetime(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	const op = "preprocess.ToDatetime"
	c, err := ds.Lookup(op, column)
	if err != nil {
		return nil, err
	}
	switch c.Kind() {
	case dataset.Datetime:
		return ds, nil
	case dataset.Numeric:
		return nil, &dataset.InvalidInputError{Op: op, Column: column, Reason: "numeric columns cannot be read as datetimes"}
	}
	times := make([]time.Time, c.Len())
	for i := range times {
		if t, ok := ParseTime(c.Cell(i)); ok {
			times[i] = t
		}
	}
	return ds.With(dataset.NewDatetime(column, times))
}

// ToFloat converts a string column to a numeric column. The conversion is
// all or nothing: the first unparseable cell fails the call.
func ToFloat(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	const op = "preprocess.ToFloat"
	c, err := ds.Lookup(op, column)
	if err != nil {
		return nil, err
	}
	switch c.Kind() {
	case dataset.Numeric:
		return ds, nil
	case dataset.Datetime:
		return nil, &dataset.InvalidInputError{Op: op, Column: column, Reason: "datetime columns cannot be read as numbers"}
	}
	vals := make([]float64, c.Len())
	for i := range vals {
		if c.IsNull(i) {
			vals[i] = math.NaN()
			continue
		}
		v, ok := ParseNumber(c.Cell(i))
		if !ok {
			return nil, &dataset.InvalidInputError{Op: op, Column: column,
				Reason: fmt.Sprintf("row %d: %q is not a number", i, c.Cell(i))}
		}
		vals[i] = v
	}
	return ds.With(dataset.NewNumeric(column, vals))
}

// ToString converts any column to a text column of its rendered cells.
func ToString(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	c, err := ds.Lookup("preprocess.ToString", column)
	if err != nil {
		return nil, err
	}
	if c.Kind() == dataset.Text {
		return ds, nil
	}
	return ds.With(dataset.NewText(column, c.Strings()))
}

// CleanName lower-cases name and replaces spaces with underscores.
func CleanName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// CleanFeatureNames applies CleanName to every column. Two columns that
// clean to the same name fail the call.
func CleanFeatureNames(ds *dataset.Dataset) (*dataset.Dataset, error) {
	const op = "preprocess.CleanFeatureNames"
	seen := make(map[string]string, ds.Width())
	cols := ds.Columns()
	for i, c := range cols {
		name := CleanName(c.Name())
		if prev, dup := seen[name]; dup {
			return nil, &dataset.InvalidInputError{Op: op, Column: name,
				Reason: fmt.Sprintf("both %q and %q clean to the same name", prev, c.Name())}
		}
		seen[name] = c.Name()
		cols[i] = c.WithName(name)
	}
	return dataset.New(cols...)
}

// Rename renames one column.
func Rename(ds *dataset.Dataset, from, to string) (*dataset.Dataset, error) {
	return ds.Rename(from, to)
}

// LogScale takes the natural logarithm of the named columns. It fails with
// a DomainError on any non-positive value.
func LogScale(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	return outlier.LogTransform(ds, columns)
}
