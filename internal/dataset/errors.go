package dataset

import "fmt"

// InvalidInputError indicates an empty or malformed dataset or column.
type InvalidInputError struct {
	Op     string
	Column string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: invalid input in column %q: %s", e.Op, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

// InvalidArgumentError indicates an out-of-range configuration value.
type InvalidArgumentError struct {
	Op     string
	Param  string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid %s=%v: %s", e.Op, e.Param, e.Value, e.Reason)
}

// UnsupportedStrategyError indicates an unknown method token.
type UnsupportedStrategyError struct {
	Op       string
	Strategy string
	Allowed  []string
}

func (e *UnsupportedStrategyError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s: unsupported strategy %q (use one of %v)", e.Op, e.Strategy, e.Allowed)
	}
	return fmt.Sprintf("%s: unsupported strategy %q", e.Op, e.Strategy)
}

// DomainError indicates a mathematically invalid operation on a value,
// e.g. the logarithm of a non-positive number.
type DomainError struct {
	Op     string
	Column string
	Row    int
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: column %q row %d value %g: %s", e.Op, e.Column, e.Row, e.Value, e.Reason)
}

// ColumnNotFoundError indicates a referenced column is absent.
type ColumnNotFoundError struct {
	Op     string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s: column %q not found", e.Op, e.Column)
}
