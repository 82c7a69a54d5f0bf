package dataset

import (
	"math"
	"strconv"
	"time"
)

// Kind is the logical type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Datetime
	Text
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// TimeLayout is used when datetime cells are rendered as strings.
const TimeLayout = "2006-01-02 15:04:05"

// Column is an immutable named sequence of values of a single kind.
// Missing cells are tracked in a null mask; the value stored under a null
// cell is meaningless.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	times []time.Time
	null  []bool
}

// NewNumeric builds a numeric column. NaN values are recorded as nulls.
func NewNumeric(name string, values []float64) *Column {
	c := &Column{name: name, kind: Numeric, nums: make([]float64, len(values)), null: make([]bool, len(values))}
	for i, v := range values {
		if math.IsNaN(v) {
			c.null[i] = true
			c.nums[i] = math.NaN()
			continue
		}
		c.nums[i] = v
	}
	return c
}

// NewCategorical builds a categorical column. Empty strings are nulls.
func NewCategorical(name string, values []string) *Column {
	return newStrings(name, Categorical, values)
}

// NewText builds a free-text column. Empty strings are nulls.
func NewText(name string, values []string) *Column {
	return newStrings(name, Text, values)
}

func newStrings(name string, kind Kind, values []string) *Column {
	c := &Column{name: name, kind: kind, strs: make([]string, len(values)), null: make([]bool, len(values))}
	copy(c.strs, values)
	for i, v := range values {
		c.null[i] = v == ""
	}
	return c
}

// NewDatetime builds a datetime column. Zero times are nulls.
func NewDatetime(name string, values []time.Time) *Column {
	c := &Column{name: name, kind: Datetime, times: make([]time.Time, len(values)), null: make([]bool, len(values))}
	copy(c.times, values)
	for i, v := range values {
		c.null[i] = v.IsZero()
	}
	return c
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.null) }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.null {
		if isNull {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. ok is false for nulls and
// non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != Numeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Time returns the datetime value at row i.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.kind != Datetime || c.null[i] {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Floats returns a copy of the numeric values with NaN at null rows.
// Non-numeric columns yield nil.
func (c *Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.nums))
	for i, v := range c.nums {
		if c.null[i] {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// Valid returns the non-null numeric values in row order.
func (c *Column) Valid() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Cell renders row i as a string; nulls render as "".
func (c *Column) Cell(i int) string {
	if c.null[i] {
		return ""
	}
	switch c.kind {
	case Numeric:
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	case Datetime:
		return c.times[i].Format(TimeLayout)
	default:
		return c.strs[i]
	}
}

// Strings renders every row with Cell.
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Cell(i)
	}
	return out
}

// WithFloats returns a numeric column with the same name and new values.
func (c *Column) WithFloats(values []float64) *Column {
	return NewNumeric(c.name, values)
}

// WithName returns a copy of the column under a new name.
func (c *Column) WithName(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// Take returns a column made of the given rows, in order.
func (c *Column) Take(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind, null: make([]bool, len(rows))}
	switch c.kind {
	case Numeric:
		out.nums = make([]float64, len(rows))
	case Datetime:
		out.times = make([]time.Time, len(rows))
	default:
		out.strs = make([]string, len(rows))
	}
	for j, i := range rows {
		out.null[j] = c.null[i]
		switch c.kind {
		case Numeric:
			out.nums[j] = c.nums[i]
		case Datetime:
			out.times[j] = c.times[i]
		default:
			out.strs[j] = c.strs[i]
		}
	}
	return out
}

// Fill returns a copy where each null row i with src[i] >= 0 takes the value
// of row src[i]. Rows with src[i] < 0 are left as they are.
func (c *Column) Fill(src []int) *Column {
	rows := make([]int, c.Len())
	for i := range rows {
		rows[i] = i
		if c.null[i] && src[i] >= 0 {
			rows[i] = src[i]
		}
	}
	return c.Take(rows)
}

// FillString returns a copy of a string column with nulls set to v.
func (c *Column) FillString(v string) *Column {
	if c.kind == Numeric || c.kind == Datetime {
		return c
	}
	out := newStrings(c.name, c.kind, c.strs)
	for i, isNull := range c.null {
		if isNull {
			out.strs[i] = v
			out.null[i] = v == ""
		}
	}
	return out
}
