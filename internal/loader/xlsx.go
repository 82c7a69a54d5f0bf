package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

type xlsxFormat struct{}

func (xlsxFormat) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}

// Read extracts the selected sheet. The first row is the header.
func (xlsxFormat) Read(path string, opt Options) ([]string, [][]string, error) {
	const op = "loader.ReadXLSX"
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("open xlsx: %v", err)}
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

func pickSheet(sheets []string, opt Options, file string) (string, error) {
	const op = "loader.ReadXLSX"
	if len(sheets) == 0 {
		return "", &dataset.InvalidInputError{Op: op, Reason: fmt.Sprintf("workbook %s has no sheets", file)}
	}
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				return s, nil
			}
		}
		return "", &dataset.InvalidArgumentError{Op: op, Param: "sheet", Value: opt.Sheet,
			Reason: fmt.Sprintf("not found in workbook %s; available sheets: %s", file, strings.Join(sheets, ", "))}
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", &dataset.InvalidArgumentError{Op: op, Param: "sheet index", Value: idx,
			Reason: fmt.Sprintf("workbook %s has %d sheets", file, len(sheets))}
	}
	return sheets[idx-1], nil
}
