package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

// Box draws one box plot per numeric column.
func (c Canvas) Box(ds *dataset.Dataset, columns []string, title, path string) error {
	const op = "plot.Box"
	if len(columns) == 0 {
		columns = ds.NamesOf(dataset.Numeric)
	}
	p := newPlot(title, "", "")
	var names []string
	for _, name := range columns {
		col, err := ds.Numeric(op, name)
		if err != nil {
			return err
		}
		vals := col.Valid()
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(24), float64(len(names)), plotter.Values(vals))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		p.Add(b)
		names = append(names, name)
	}
	if len(names) == 0 {
		return noData(op, "")
	}
	p.NominalX(names...)
	return c.save(op, p, path)
}

// BoxByGroup draws the distribution of value for every category of group.
func (c Canvas) BoxByGroup(ds *dataset.Dataset, group, value, title, path string) error {
	const op = "plot.BoxByGroup"
	order, byGroup, err := groups(ds, op, group, value)
	if err != nil {
		return err
	}
	if len(order) == 0 {
		return noData(op, value)
	}
	p := newPlot(title, group, value)
	for i, key := range order {
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(byGroup[key]))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		p.Add(b)
	}
	p.NominalX(order...)
	return c.save(op, p, path)
}

// Bar draws the mean of y for each category of x and annotates every bar
// with its height.
func (c Canvas) Bar(ds *dataset.Dataset, x, y, title, xlabel, ylabel, path string) error {
	const op = "plot.Bar"
	order, byGroup, err := groups(ds, op, x, y)
	if err != nil {
		return err
	}
	if len(order) == 0 {
		return noData(op, y)
	}
	means := make(plotter.Values, len(order))
	for i, key := range order {
		s := 0.0
		for _, v := range byGroup[key] {
			s += v
		}
		means[i] = s / float64(len(byGroup[key]))
	}
	return c.bars(op, newPlot(title, xlabel, ylabel), order, means, "%.1f", path)
}

// Count draws the frequency of every category of column.
func (c Canvas) Count(ds *dataset.Dataset, column, path string) error {
	const op = "plot.Count"
	col, err := ds.Lookup(op, column)
	if err != nil {
		return err
	}
	var order []string
	counts := map[string]int{}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		k := col.Cell(i)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return noData(op, column)
	}
	vals := make(plotter.Values, len(order))
	for i, k := range order {
		vals[i] = float64(counts[k])
	}
	return c.bars(op, newPlot("Distribution of "+column, column, "count"), order, vals, "%.0f", path)
}

func (c Canvas) bars(op string, p *plot.Plot, names []string, vals plotter.Values, format, path string) error {
	bars, err := plotter.NewBarChart(vals, vg.Points(28))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	xys := make(plotter.XYs, len(vals))
	text := make([]string, len(vals))
	for i, v := range vals {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		text[i] = fmt.Sprintf(format, v)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	labels.Offset = vg.Point{X: -vg.Points(6), Y: vg.Points(4)}
	p.Add(labels)
	p.NominalX(names...)
	return c.save(op, p, path)
}

// Heatmap draws a labelled square matrix, such as a correlation matrix, with
// every cell annotated. NaN cells are drawn as zero.
func (c Canvas) Heatmap(labels []string, values [][]float64, title, path string) error {
	const op = "plot.Heatmap"
	if len(labels) == 0 || len(values) != len(labels) {
		return &dataset.InvalidArgumentError{Op: op, Param: "values", Value: len(values),
			Reason: fmt.Sprintf("want a %dx%d matrix", len(labels), len(labels))}
	}
	for _, row := range values {
		if len(row) != len(labels) {
			return &dataset.InvalidArgumentError{Op: op, Param: "values", Value: len(row),
				Reason: fmt.Sprintf("every row needs %d entries", len(labels))}
		}
	}
	g := grid(values)
	lo, hi := 0.0, 1.0
	for r := range values {
		for col := range values[r] {
			lo = math.Min(lo, g.Z(col, r))
			hi = math.Max(hi, g.Z(col, r))
		}
	}
	hm := plotter.NewHeatMap(g, palette.Heat(16, 1))
	hm.Min, hm.Max = lo, hi

	p := newPlot(title, "", "")
	p.Add(hm)

	var xys plotter.XYs
	var text []string
	for r := range values {
		for col := range values[r] {
			xys = append(xys, plotter.XY{X: float64(col), Y: float64(r)})
			text = append(text, fmt.Sprintf("%.2f", g.Z(col, r)))
		}
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ann.Offset = vg.Point{X: -vg.Points(8), Y: -vg.Points(3)}
	p.Add(ann)
	p.NominalX(labels...)
	p.NominalY(labels...)
	return c.save(op, p, path)
}

// grid adapts a row-major matrix to plotter.GridXYZ.
type grid [][]float64

func (g grid) Dims() (c, r int) { return len(g[0]), len(g) }
func (g grid) X(c int) float64  { return float64(c) }
func (g grid) Y(r int) float64  { return float64(r) }

func (g grid) Z(c, r int) float64 {
	v := g[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Histogram draws the frequency of values of a numeric column in bins.
func (c Canvas) Histogram(ds *dataset.Dataset, column string, bins int, path string) error {
	const op = "plot.Histogram"
	vals, err := numericValues(ds, op, column)
	if err != nil {
		return err
	}
	if bins <= 0 {
		bins = 20
	}
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	h.FillColor = plotutil.Color(3)
	p := newPlot("Distribution of "+column, column, "count")
	p.Add(h)
	return c.save(op, p, path)
}

// Distribution draws a normalized histogram of a numeric column with its
// Gaussian kernel density estimate.
func (c Canvas) Distribution(ds *dataset.Dataset, column, title, path string) error {
	const op = "plot.Distribution"
	vals, err := numericValues(ds, op, column)
	if err != nil {
		return err
	}
	h, err := plotter.NewHist(vals, 30)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	h.Normalize(1)
	h.FillColor = color.RGBA{R: 218, G: 112, B: 214, A: 160}
	p := newPlot("Distribution of "+title, column, "density")
	p.Add(h)
	if curve := Density(vals, 200); len(curve) > 0 {
		line, err := plotter.NewLine(curve)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		line.Width = vg.Points(2)
		line.Color = plotutil.Color(1)
		p.Add(line)
	}
	return c.save(op, p, path)
}

func numericValues(ds *dataset.Dataset, op, column string) (plotter.Values, error) {
	col, err := ds.Numeric(op, column)
	if err != nil {
		return nil, err
	}
	vals := col.Valid()
	if len(vals) == 0 {
		return nil, noData(op, column)
	}
	return plotter.Values(vals), nil
}

// Scatter draws y against x. When hue names a column, each of its categories
// gets its own color and marker.
func (c Canvas) Scatter(ds *dataset.Dataset, x, y, hue, title, path string) error {
	const op = "plot.Scatter"
	xc, err := ds.Numeric(op, x)
	if err != nil {
		return err
	}
	yc, err := ds.Numeric(op, y)
	if err != nil {
		return err
	}
	var hc *dataset.Column
	if hue != "" {
		if hc, err = ds.Lookup(op, hue); err != nil {
			return err
		}
	}
	var order []string
	series := map[string]plotter.XYs{}
	for i := 0; i < ds.Rows(); i++ {
		xv, okx := xc.Float(i)
		yv, oky := yc.Float(i)
		if !okx || !oky {
			continue
		}
		key := ""
		if hc != nil {
			if hc.IsNull(i) {
				continue
			}
			key = hc.Cell(i)
		}
		if _, seen := series[key]; !seen {
			order = append(order, key)
		}
		series[key] = append(series[key], plotter.XY{X: xv, Y: yv})
	}
	if len(order) == 0 {
		return noData(op, y)
	}
	p := newPlot(title, x, y)
	for i, key := range order {
		s, err := plotter.NewScatter(series[key])
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(s)
		if key != "" {
			p.Legend.Add(key, s)
		}
	}
	return c.save(op, p, path)
}

// Pie draws one wedge per value, labelled with its share of the total.
func (c Canvas) Pie(values []float64, labels []string, title, path string) error {
	const op = "plot.Pie"
	if len(values) == 0 || len(values) != len(labels) {
		return &dataset.InvalidArgumentError{Op: op, Param: "labels", Value: len(labels),
			Reason: fmt.Sprintf("need one label per value (%d values)", len(values))}
	}
	total := 0.0
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &dataset.InvalidArgumentError{Op: op, Param: "values", Value: v, Reason: "must be finite and non-negative"}
		}
		total += v
	}
	if total == 0 {
		return &dataset.InvalidArgumentError{Op: op, Param: "values", Value: total, Reason: "sum must be positive"}
	}

	p := newPlot(title, "", "")
	p.HideAxes()
	p.X.Min, p.X.Max = -1.2, 1.2
	p.Y.Min, p.Y.Max = -1.2, 1.2

	var pos plotter.XYs
	var text []string
	start := math.Pi / 2
	for i, v := range values {
		if v == 0 {
			continue
		}
		span := 2 * math.Pi * v / total
		poly, err := plotter.NewPolygon(wedge(start, start-span))
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		poly.Color = plotutil.Color(i)
		poly.LineStyle.Color = color.White
		poly.LineStyle.Width = vg.Points(1)
		p.Add(poly)
		p.Legend.Add(labels[i], poly)

		mid := start - span/2
		pos = append(pos, plotter.XY{X: 0.6 * math.Cos(mid), Y: 0.6 * math.Sin(mid)})
		text = append(text, fmt.Sprintf("%.0f%%", 100*v/total))
		start -= span
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: pos, Labels: text})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.Add(ann)
	return c.save(op, p, path)
}

// wedge outlines the unit-circle sector between two angles, clockwise.
func wedge(from, to float64) plotter.XYs {
	steps := int(math.Ceil(math.Abs(from-to) / (2 * math.Pi) * 120))
	if steps < 2 {
		steps = 2
	}
	xys := plotter.XYs{{X: 0, Y: 0}}
	for k := 0; k <= steps; k++ {
		a := from + (to-from)*float64(k)/float64(steps)
		xys = append(xys, plotter.XY{X: math.Cos(a), Y: math.Sin(a)})
	}
	return xys
}
