// Package plot renders exploratory charts of a dataset to image files.
//
// The output format follows the file extension of the destination path
// (png, svg, pdf, jpg, tif, eps).
package plot

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/utils"
)

var formats = map[string]string{
	".png": "png", ".svg": "svg", ".pdf": "pdf", ".jpg": "jpg", ".jpeg": "jpg",
	".tif": "tif", ".tiff": "tif", ".eps": "eps",
}

// Canvas fixes the size of every chart it renders.
type Canvas struct {
	Width  vg.Length
	Height vg.Length
}

// NewCanvas returns a canvas of the given size in inches. Non-positive
// sizes fall back to 10x6.
func NewCanvas(widthIn, heightIn float64) Canvas {
	if widthIn <= 0 {
		widthIn = 10
	}
	if heightIn <= 0 {
		heightIn = 6
	}
	return Canvas{Width: vg.Length(widthIn) * vg.Inch, Height: vg.Length(heightIn) * vg.Inch}
}

func formatOf(op, path string) (string, error) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", &dataset.InvalidArgumentError{Op: op, Param: "path", Value: path,
			Reason: "extension must be one of .png, .svg, .pdf, .jpg, .tif, .eps"}
	}
	return f, nil
}

func (c Canvas) save(op string, p *plot.Plot, path string) error {
	format, err := formatOf(op, path)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(c.Width, c.Height, format)
	if err != nil {
		return fmt.Errorf("%s: render: %w", op, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("%s: encode %s: %w", op, format, err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

// groups splits the non-null values of a numeric column by the category in
// another column. Categories keep their order of first appearance; rows
// with a null category or value are skipped.
func groups(ds *dataset.Dataset, op, group, value string) ([]string, map[string][]float64, error) {
	g, err := ds.Lookup(op, group)
	if err != nil {
		return nil, nil, err
	}
	v, err := ds.Numeric(op, value)
	if err != nil {
		return nil, nil, err
	}
	var order []string
	out := map[string][]float64{}
	for i := 0; i < ds.Rows(); i++ {
		x, ok := v.Float(i)
		if !ok || g.IsNull(i) {
			continue
		}
		key := g.Cell(i)
		if _, seen := out[key]; !seen {
			order = append(order, key)
		}
		out[key] = append(out[key], x)
	}
	return order, out, nil
}

func noData(op, column string) error {
	return &dataset.InvalidInputError{Op: op, Column: column, Reason: "no values to plot"}
}
