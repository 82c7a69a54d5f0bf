package cmd

import (
	"fmt"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/loader"
	"github.com/spf13/cobra"
)

// inputFlags are the loader flags shared by analyze, clean and plot.
type inputFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
	nullTokens []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	cmd.Flags().StringSliceVar(&f.nullTokens, "null-tokens", nil, "cell values read as missing (overrides config)")
}

func (f *inputFlags) load(path string) (*dataset.Dataset, error) {
	c, err := settings()
	if err != nil {
		return nil, err
	}
	opt := c.LoaderOptions()
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	opt.Sheet = f.sheetName
	opt.SheetIndex = f.sheetIndex
	opt.MaxRows = f.maxRows
	if len(f.nullTokens) > 0 {
		opt.NullTokens = f.nullTokens
	}
	return loader.Load(path, opt)
}
