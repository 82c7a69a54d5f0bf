package loader

import (
	"math"
	"time"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/preprocess"
)

// maxCategoryLen is the longest value a categorical column may hold; longer
// strings make the column free text.
const maxCategoryLen = 64

// inferColumn picks the kind every non-empty cell agrees on: numeric, then
// datetime, then categorical or text. Empty cells are nulls.
func inferColumn(name string, cells []string) *dataset.Column {
	nonNull, numeric, datetime, long := 0, 0, 0, false
	for _, v := range cells {
		if v == "" {
			continue
		}
		nonNull++
		if _, ok := preprocess.ParseNumber(v); ok {
			numeric++
			continue
		}
		if _, ok := preprocess.ParseTime(v); ok {
			datetime++
			continue
		}
		if len(v) > maxCategoryLen {
			long = true
		}
	}
	switch {
	case nonNull == 0:
		return dataset.NewNumeric(name, nulls(len(cells)))
	case numeric == nonNull:
		vals := make([]float64, len(cells))
		for i, v := range cells {
			vals[i] = math.NaN()
			if f, ok := preprocess.ParseNumber(v); ok {
				vals[i] = f
			}
		}
		return dataset.NewNumeric(name, vals)
	case datetime == nonNull:
		times := make([]time.Time, len(cells))
		for i, v := range cells {
			if t, ok := preprocess.ParseTime(v); ok {
				times[i] = t
			}
		}
		return dataset.NewDatetime(name, times)
	case long:
		return dataset.NewText(name, cells)
	default:
		return dataset.NewCategorical(name, cells)
	}
}

func nulls(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
