package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/overview"
	"github.com/KaramelBytes/telco-eda/internal/plot"
	"github.com/spf13/cobra"
)

var plotKinds = []string{"box", "boxgroup", "bar", "count", "heatmap", "hist", "dist", "scatter", "pie"}

var (
	pltInput      inputFlags
	pltOutputPath string
	pltX          string
	pltY          string
	pltHue        string
	pltColumns    []string
	pltBins       int
	pltTitle      string
	pltWidth      float64
	pltHeight     float64
)

var plotCmd = &cobra.Command{
	Use:   "plot <kind> <file>",
	Short: "Render a chart (" + strings.Join(plotKinds, "|") + ") to PNG/SVG/PDF",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := strings.ToLower(args[0]), args[1]
		if pltOutputPath == "" {
			return fmt.Errorf("--output is required")
		}
		c, err := settings()
		if err != nil {
			return err
		}
		w, h := c.PlotWidthIn, c.PlotHeightIn
		if cmd.Flags().Changed("width") {
			w = pltWidth
		}
		if cmd.Flags().Changed("height") {
			h = pltHeight
		}
		canvas := plot.NewCanvas(w, h)

		ds, err := pltInput.load(path)
		if err != nil {
			return err
		}
		need := func(flag, v string) error {
			if v == "" {
				return fmt.Errorf("plot %s requires --%s", kind, flag)
			}
			return nil
		}

		switch kind {
		case "box":
			err = canvas.Box(ds, pltColumns, pltTitle, pltOutputPath)
		case "boxgroup":
			if err = firstErr(need("x", pltX), need("y", pltY)); err == nil {
				err = canvas.BoxByGroup(ds, pltX, pltY, pltTitle, pltOutputPath)
			}
		case "bar":
			if err = firstErr(need("x", pltX), need("y", pltY)); err == nil {
				err = canvas.Bar(ds, pltX, pltY, pltTitle, pltX, pltY, pltOutputPath)
			}
		case "count":
			if err = need("x", pltX); err == nil {
				err = canvas.Count(ds, pltX, pltOutputPath)
			}
		case "heatmap":
			m := overview.Correlation(ds)
			vals := make([][]float64, len(m.Values))
			for i, row := range m.Values {
				vals[i] = make([]float64, len(row))
				for j, v := range row {
					vals[i][j] = float64(v)
				}
			}
			title := pltTitle
			if title == "" {
				title = "Correlation"
			}
			err = canvas.Heatmap(m.Columns, vals, title, pltOutputPath)
		case "hist":
			if err = need("x", pltX); err == nil {
				err = canvas.Histogram(ds, pltX, pltBins, pltOutputPath)
			}
		case "dist":
			if err = need("x", pltX); err == nil {
				err = canvas.Distribution(ds, pltX, pltTitle, pltOutputPath)
			}
		case "scatter":
			if err = firstErr(need("x", pltX), need("y", pltY)); err == nil {
				err = canvas.Scatter(ds, pltX, pltY, pltHue, pltTitle, pltOutputPath)
			}
		case "pie":
			if err = need("x", pltX); err == nil {
				var labels []string
				var counts []float64
				if labels, counts, err = valueCounts(ds, pltX); err == nil {
					err = canvas.Pie(counts, labels, pltTitle, pltOutputPath)
				}
			}
		default:
			return &dataset.UnsupportedStrategyError{Op: "plot", Strategy: args[0], Allowed: plotKinds}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart to %s\n", kind, pltOutputPath)
		return nil
	},
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// valueCounts counts the non-null cells of column, largest first.
func valueCounts(ds *dataset.Dataset, column string) ([]string, []float64, error) {
	col, ok := ds.Column(column)
	if !ok {
		return nil, nil, &dataset.ColumnNotFoundError{Op: "plot", Column: column}
	}
	counts := map[string]int{}
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			counts[col.Cell(i)]++
		}
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	vals := make([]float64, len(labels))
	for i, k := range labels {
		vals[i] = float64(counts[k])
	}
	return labels, vals, nil
}

func init() {
	rootCmd.AddCommand(plotCmd)
	pltInput.register(plotCmd)
	plotCmd.Flags().StringVarP(&pltOutputPath, "output", "o", "", "chart path; the extension selects the format")
	plotCmd.Flags().StringVar(&pltX, "x", "", "x column (group column for boxgroup/bar, value column for hist/dist/count/pie)")
	plotCmd.Flags().StringVar(&pltY, "y", "", "y column")
	plotCmd.Flags().StringVar(&pltHue, "hue", "", "scatter: categorical column that colors points")
	plotCmd.Flags().StringSliceVar(&pltColumns, "columns", nil, "box: numeric columns to draw (default: all)")
	plotCmd.Flags().IntVar(&pltBins, "bins", 20, "hist: number of bins")
	plotCmd.Flags().StringVar(&pltTitle, "title", "", "chart title")
	plotCmd.Flags().Float64Var(&pltWidth, "width", 10, "chart width in inches (overrides config)")
	plotCmd.Flags().Float64Var(&pltHeight, "height", 6, "chart height in inches (overrides config)")
}
