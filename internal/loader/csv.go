package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

type csvFormat struct{}

func (csvFormat) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv" || ext == ".txt"
}

// Read loads every cell as a string; type inference happens in Build so that
// CSV and workbook input share one set of rules.
func (csvFormat) Read(path string, opt Options) ([]string, [][]string, error) {
	const op = "loader.ReadCSV"
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("open csv: %v", err)}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(nil), // null tokens are applied in Build
	)
	if df.Err != nil {
		return nil, nil, &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("read %s: %v", filepath.Base(path), df.Err)}
	}
	records := df.Records()
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
