package plot

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func usage(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NewNumeric("dl", []float64{10, 12, 11, 40, 13, math.NaN(), 9, 14}),
		dataset.NewNumeric("ul", []float64{1, 2, 1.5, 5, 2, 3, 1, 2.5}),
		dataset.NewCategorical("handset", []string{"apple", "samsung", "apple", "huawei", "", "samsung", "apple", "huawei"}),
	)
	require.NoError(t, err)
	return ds
}

func rendered(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed into place")
	return b
}

func TestChartsRenderPNG(t *testing.T) {
	ds := usage(t)
	c := NewCanvas(6, 4)
	dir := t.TempDir()

	charts := map[string]func(path string) error{
		"box.png":     func(p string) error { return c.Box(ds, nil, "Usage", p) },
		"group.png":   func(p string) error { return c.BoxByGroup(ds, "handset", "dl", "DL by handset", p) },
		"bar.png":     func(p string) error { return c.Bar(ds, "handset", "ul", "Mean UL", "handset", "bytes", p) },
		"count.png":   func(p string) error { return c.Count(ds, "handset", p) },
		"hist.png":    func(p string) error { return c.Histogram(ds, "dl", 5, p) },
		"dist.png":    func(p string) error { return c.Distribution(ds, "dl", "download", p) },
		"scatter.png": func(p string) error { return c.Scatter(ds, "ul", "dl", "handset", "UL vs DL", p) },
		"plain.png":   func(p string) error { return c.Scatter(ds, "ul", "dl", "", "UL vs DL", p) },
		"pie.png":     func(p string) error { return c.Pie([]float64{3, 2, 0, 1}, []string{"a", "b", "c", "d"}, "Share", p) },
		"heat.png": func(p string) error {
			return c.Heatmap([]string{"dl", "ul"}, [][]float64{{1, 0.8}, {0.8, 1}}, "Correlation", p)
		},
	}
	for name, draw := range charts {
		path := filepath.Join(dir, name)
		require.NoError(t, draw(path), name)
		assert.True(t, bytes.HasPrefix(rendered(t, path), pngMagic), name)
	}
}

func TestChartFormatFollowsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.svg")
	require.NoError(t, NewCanvas(0, 0).Box(usage(t), []string{"dl"}, "DL", path))
	assert.Contains(t, string(rendered(t, path)), "<svg")

	var arg *dataset.InvalidArgumentError
	err := NewCanvas(0, 0).Box(usage(t), []string{"dl"}, "DL", filepath.Join(t.TempDir(), "box.bmp"))
	assert.True(t, errors.As(err, &arg))
}

func TestChartInputErrors(t *testing.T) {
	ds := usage(t)
	c := NewCanvas(4, 3)
	path := filepath.Join(t.TempDir(), "x.png")

	var nf *dataset.ColumnNotFoundError
	assert.True(t, errors.As(c.Histogram(ds, "nope", 10, path), &nf))

	var inv *dataset.InvalidInputError
	assert.True(t, errors.As(c.Histogram(ds, "handset", 10, path), &inv), "categorical column")

	var arg *dataset.InvalidArgumentError
	assert.True(t, errors.As(c.Pie([]float64{1, 2}, []string{"a"}, "", path), &arg))
	assert.True(t, errors.As(c.Pie([]float64{-1, 2}, []string{"a", "b"}, "", path), &arg))
	assert.True(t, errors.As(c.Pie([]float64{0, 0}, []string{"a", "b"}, "", path), &arg))
	assert.True(t, errors.As(c.Heatmap([]string{"a", "b"}, [][]float64{{1, 2}}, "", path), &arg))

	empty, err := dataset.New(dataset.NewNumeric("x", []float64{math.NaN()}))
	require.NoError(t, err)
	assert.True(t, errors.As(c.Distribution(empty, "x", "x", path), &inv))
}

func TestDensityIntegratesToOne(t *testing.T) {
	values := []float64{1, 2, 2.5, 3, 3.2, 4, 7, 8, 8.5, 12}
	curve := Density(values, 400)
	require.Len(t, curve, 400)
	area := 0.0
	for i := 1; i < len(curve); i++ {
		area += (curve[i].X - curve[i-1].X) * (curve[i].Y + curve[i-1].Y) / 2
	}
	assert.InDelta(t, 1.0, area, 0.01)
	for _, p := range curve {
		assert.GreaterOrEqual(t, p.Y, 0.0)
	}

	assert.Nil(t, Density([]float64{5, 5, 5}, 10))
	assert.Nil(t, Density([]float64{5}, 10))
}
