package overview

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/missing"
	"github.com/KaramelBytes/telco-eda/internal/outlier"
	"github.com/KaramelBytes/telco-eda/internal/stats"
)

// Options controls Summarize.
type Options struct {
	// Name labels the report, typically the source file name.
	Name string
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// TopValues caps the categories listed per categorical column.
	TopValues int
	// Outliers selects the rule used for per-column outlier counts.
	Outliers outlier.Config
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for dataset summaries.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 8, Outliers: outlier.DefaultConfig(), Correlations: true}
}

// Report is a markdown-friendly overview of a dataset.
type Report struct {
	Name       string          `json:"name,omitempty"`
	Rows       int             `json:"rows"`
	Duplicates int             `json:"duplicates"`
	MissingPct Float           `json:"missing_percentage"`
	Cols       []ColumnSummary `json:"columns"`
	Corr       *CorrMatrix     `json:"correlations,omitempty"`
	Samples    [][]string      `json:"samples,omitempty"`
	Warnings   []string        `json:"notes,omitempty"`
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	NonNull    int             `json:"non_null"`
	Missing    int             `json:"missing"`
	MissingPct Float           `json:"missing_percentage"`
	Unique     int             `json:"unique,omitempty"`
	Numeric    *NumericSummary `json:"numeric,omitempty"`
	TopValues  []Count         `json:"top_values,omitempty"`
	First      string          `json:"first,omitempty"`
	Last       string          `json:"last,omitempty"`
	Examples   []string        `json:"examples,omitempty"`
}

// NumericSummary holds the statistics of a numeric column over its non-null
// values.
type NumericSummary struct {
	Min       Float  `json:"min"`
	Max       Float  `json:"max"`
	Mean      Float  `json:"mean"`
	Std       Float  `json:"std"`
	Median    Float  `json:"median"`
	Q1        Float  `json:"q1"`
	Q3        Float  `json:"q3"`
	Skew      Float  `json:"skew"`
	Outliers  int    `json:"outliers"`
	OutlierBy string `json:"outlier_method"`
}

// Count is a category and its frequency.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summarize builds the overview report of ds.
func Summarize(ds *dataset.Dataset, opt Options) (*Report, error) {
	const op = "overview.Summarize"
	if ds == nil {
		return nil, &dataset.InvalidInputError{Op: op, Reason: "dataset is nil"}
	}
	rep := &Report{Name: opt.Name, Rows: ds.Rows()}
	if ds.Rows() == 0 || ds.Width() == 0 {
		rep.Warnings = append(rep.Warnings, "dataset is empty")
		return rep, nil
	}
	dups, err := Duplicates(ds)
	if err != nil {
		return nil, err
	}
	rep.Duplicates = dups
	pct, err := missing.DatasetPercentage(ds)
	if err != nil {
		return nil, err
	}
	rep.MissingPct = Float(pct)

	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}
	for _, c := range ds.Columns() {
		s := ColumnSummary{Name: c.Name(), Kind: c.Kind().String(), Missing: c.NullCount()}
		s.NonNull = c.Len() - s.Missing
		s.MissingPct = Float(stats.Round(100*float64(s.Missing)/float64(c.Len()), 2))
		switch c.Kind() {
		case dataset.Numeric:
			if s.Numeric, err = numericSummary(c, opt.Outliers); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		case dataset.Categorical:
			s.TopValues, s.Unique = topValues(c.Strings(), topN)
		case dataset.Datetime:
			s.First, s.Last = timeRange(c)
		case dataset.Text:
			_, s.Unique = topValues(c.Strings(), 0)
			for i := 0; i < c.Len() && len(s.Examples) < 3; i++ {
				if !c.IsNull(i) {
					s.Examples = append(s.Examples, c.Cell(i))
				}
			}
		}
		if s.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", c.Name()))
		}
		rep.Cols = append(rep.Cols, s)
	}
	if rep.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d duplicate rows", rep.Duplicates))
	}

	if opt.Correlations && len(ds.NamesOf(dataset.Numeric)) >= 2 {
		rep.Corr = Correlation(ds)
	}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i := 0; i < ds.Rows() && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, ds.Row(i))
	}
	return rep, nil
}

func numericSummary(c *dataset.Column, cfg outlier.Config) (*NumericSummary, error) {
	valid := c.Valid()
	if len(valid) == 0 {
		return nil, nil
	}
	lo, hi := valid[0], valid[0]
	for _, v := range valid {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean, std := stats.MeanStd(valid)
	q1, q3, _ := stats.Quartiles(valid)
	var (
		d   outlier.Detection
		err error
	)
	switch cfg.Method {
	case outlier.ZScore:
		d, err = outlier.DetectZScore(c.Name(), c.Floats(), cfg.ZThreshold)
	default:
		d, err = outlier.DetectIQR(c.Name(), c.Floats(), cfg.IQRMultiplier)
	}
	if err != nil {
		return nil, err
	}
	return &NumericSummary{
		Min:       Float(lo),
		Max:       Float(hi),
		Mean:      Float(mean),
		Std:       Float(std),
		Median:    Float(stats.Median(valid)),
		Q1:        Float(q1),
		Q3:        Float(q3),
		Skew:      Float(stats.Skew(valid)),
		Outliers:  d.Outliers,
		OutlierBy: d.Method,
	}, nil
}

func topValues(cells []string, limit int) ([]Count, int) {
	counts := map[string]int{}
	for _, v := range cells {
		if v != "" {
			counts[v]++
		}
	}
	tops := make([]Count, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, Count{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops, len(counts)
}

func timeRange(c *dataset.Column) (first, last string) {
	lo, hi := -1, -1
	for i := 0; i < c.Len(); i++ {
		t, ok := c.Time(i)
		if !ok {
			continue
		}
		if lo < 0 {
			lo, hi = i, i
			continue
		}
		if l, _ := c.Time(lo); t.Before(l) {
			lo = i
		}
		if h, _ := c.Time(hi); t.After(h) {
			hi = i
		}
	}
	if lo < 0 {
		return "", ""
	}
	return c.Cell(lo), c.Cell(hi)
}

// Lookup returns the summary of the named column.
func (r *Report) Lookup(name string) (ColumnSummary, bool) {
	for _, c := range r.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Missing cells: %.2f%%\n", float64(r.MissingPct)))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n\n", r.Duplicates))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.2f%%)", safeName(c.Name), c.Kind, c.NonNull, float64(c.MissingPct)))
		switch c.Kind {
		case "numeric":
			if n := c.Numeric; n != nil {
				b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g, median %.4g",
					float64(n.Min), float64(n.Max), float64(n.Mean), float64(n.Std), float64(n.Median)))
				if !math.IsNaN(float64(n.Skew)) {
					b.WriteString(fmt.Sprintf(", skew %.3f", float64(n.Skew)))
				}
				b.WriteString(fmt.Sprintf("; outliers (%s): %d", n.OutlierBy, n.Outliers))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "datetime":
			if c.First != "" {
				b.WriteString(fmt.Sprintf(": %s .. %s", c.First, c.Last))
			}
		case "text":
			if len(c.Examples) > 0 {
				b.WriteString(": e.g., ")
				for i, ex := range c.Examples {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				v := float64(r.Corr.Values[i][j])
				if math.IsNaN(v) {
					continue
				}
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: v})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		if len(pairs) > 0 {
			b.WriteString("\n[CORRELATIONS]\n")
			for _, p := range pairs {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
			}
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
