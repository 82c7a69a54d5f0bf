// Package loader reads delimited text and Excel workbooks into a Dataset and
// writes datasets back out as CSV.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

// DefaultNullTokens are the cell values read as missing.
var DefaultNullTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", `\N`}

// Options controls loading.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used, or '\t' for .tsv files.
	Delimiter rune
	// Sheet selects a workbook sheet by name; it takes precedence over SheetIndex.
	Sheet string
	// SheetIndex is 1-based (Sheet1 == 1). Zero means the first sheet.
	SheetIndex int
	// NullTokens replaces DefaultNullTokens when non-empty.
	NullTokens []string
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
}

// Format reads one file type into a header and string records.
type Format interface {
	CanLoad(path string) bool
	Read(path string, opt Options) (header []string, rows [][]string, err error)
}

var registry []Format

// Register adds a format implementation to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func init() {
	Register(csvFormat{})
	Register(xlsxFormat{})
}

// Load selects a format based on the file extension and builds a Dataset
// with inferred column kinds.
func Load(path string, opt Options) (*dataset.Dataset, error) {
	const op = "loader.Load"
	if _, err := os.Stat(path); err != nil {
		return nil, &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("open %s: %v", filepath.Base(path), err)}
	}
	for _, f := range registry {
		if !f.CanLoad(path) {
			continue
		}
		header, rows, err := f.Read(path, opt)
		if err != nil {
			return nil, err
		}
		return Build(header, rows, opt)
	}
	return nil, &dataset.InvalidInputError{Op: op,
		Reason: fmt.Sprintf("unsupported file type %q (want .csv, .tsv or .xlsx)", strings.ToLower(filepath.Ext(path)))}
}

// Build assembles string records into a Dataset. Rows shorter than the
// header are padded with nulls.
func Build(header []string, rows [][]string, opt Options) (*dataset.Dataset, error) {
	const op = "loader.Build"
	if len(header) == 0 {
		return nil, &dataset.InvalidInputError{Op: op, Reason: "file has no header"}
	}
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		rows = rows[:opt.MaxRows]
	}
	nulls := nullSet(opt.NullTokens)
	cols := make([]*dataset.Column, len(header))
	for j, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", j+1)
		}
		cells := make([]string, len(rows))
		for i, r := range rows {
			if j >= len(r) {
				continue
			}
			v := strings.TrimSpace(r[j])
			if _, isNull := nulls[v]; !isNull {
				cells[i] = v
			}
		}
		cols[j] = inferColumn(name, cells)
	}
	ds, err := dataset.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

func nullSet(tokens []string) map[string]struct{} {
	if len(tokens) == 0 {
		tokens = DefaultNullTokens
	}
	out := make(map[string]struct{}, len(tokens)+1)
	out[""] = struct{}{}
	for _, t := range tokens {
		out[strings.TrimSpace(t)] = struct{}{}
	}
	return out
}
