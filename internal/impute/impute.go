// Package impute fills missing cells with a statistically derived value.
package impute

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// Strategy selects how nulls are filled.
type Strategy int

const (
	Mean Strategy = iota
	Median
	Mode
	ForwardFill
	BackwardFill
)

var strategyNames = map[Strategy]string{
	Mean:         "mean",
	Median:       "median",
	Mode:         "mode",
	ForwardFill:  "ffill",
	BackwardFill: "bfill",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Tokens lists the accepted strategy tokens, canonical names first.
var Tokens = []string{"mean", "median", "mode", "ffill", "bfill", "forward_fill", "backward_fill"}

// ParseStrategy maps a token to a Strategy.
func ParseStrategy(token string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "mean":
		return Mean, nil
	case "median":
		return Median, nil
	case "mode":
		return Mode, nil
	case "ffill", "forward_fill", "pad":
		return ForwardFill, nil
	case "bfill", "backward_fill", "backfill":
		return BackwardFill, nil
	}
	return 0, &dataset.UnsupportedStrategyError{Op: "impute.ParseStrategy", Strategy: token, Allowed: Tokens}
}

// Fill applies the strategy to every eligible column: mean and median touch
// numeric columns only, mode touches non-numeric columns only, and the
// directional fills touch all columns.
func Fill(ds *dataset.Dataset, s Strategy) (*dataset.Dataset, error) {
	return FillColumns(ds, s, ds.Names())
}

// FillColumns is Fill restricted to the named columns. Ineligible columns
// among them are left untouched.
func FillColumns(ds *dataset.Dataset, s Strategy, columns []string) (*dataset.Dataset, error) {
	const op = "impute.Fill"
	if _, ok := strategyNames[s]; !ok {
		return nil, &dataset.UnsupportedStrategyError{Op: op, Strategy: s.String(), Allowed: Tokens}
	}
	var filled []*dataset.Column
	for _, name := range columns {
		c, err := ds.Lookup(op, name)
		if err != nil {
			return nil, err
		}
		if c.NullCount() == 0 {
			continue
		}
		if next := fillColumn(c, s); next != nil {
			filled = append(filled, next)
		}
	}
	if len(filled) == 0 {
		return ds, nil
	}
	return ds.Replace(op, filled...)
}

// fillColumn returns the filled column, or nil when the strategy does not
// apply or has no value to fill with.
func fillColumn(c *dataset.Column, s Strategy) *dataset.Column {
	switch s {
	case Mean, Median:
		if c.Kind() != dataset.Numeric {
			return nil
		}
		valid := c.Valid()
		if len(valid) == 0 {
			return nil
		}
		fill := stats.Mean(valid)
		if s == Median {
			fill = stats.Median(valid)
		}
		vals := c.Floats()
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = fill
			}
		}
		return c.WithFloats(vals)
	case Mode:
		if c.Kind() == dataset.Numeric || c.Kind() == dataset.Datetime {
			return nil
		}
		m, ok := stats.Mode(c.Strings())
		if !ok {
			return nil
		}
		return c.FillString(m)
	case ForwardFill:
		src := make([]int, c.Len())
		last := -1
		for i := range src {
			if !c.IsNull(i) {
				last = i
			}
			src[i] = last
		}
		return c.Fill(src)
	case BackwardFill:
		src := make([]int, c.Len())
		next := -1
		for i := len(src) - 1; i >= 0; i-- {
			if !c.IsNull(i) {
				next = i
			}
			src[i] = next
		}
		return c.Fill(src)
	}
	return nil
}
