package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var skewed = []float64{1, 2, 3, 4, 100}

func TestQuantileLinearInterpolation(t *testing.T) {
	assert.Equal(t, 2.0, Quantile(skewed, 0.25))
	assert.Equal(t, 4.0, Quantile(skewed, 0.75))
	assert.Equal(t, 3.0, Median(skewed))
	assert.InDelta(t, 80.8, Quantile(skewed, 0.95), 1e-9)
	assert.Equal(t, 1.0, Quantile(skewed, 0))
	assert.Equal(t, 100.0, Quantile(skewed, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))

	q1, q3, iqr := Quartiles([]float64{100, 4, 3, 2, 1})
	assert.Equal(t, []float64{2, 4, 2}, []float64{q1, q3, iqr})
}

func TestQuantileDoesNotSortInput(t *testing.T) {
	in := []float64{5, 1, 3}
	_ = Quantile(in, 0.5)
	assert.Equal(t, []float64{5, 1, 3}, in)
}

func TestMeanStdPopulation(t *testing.T) {
	mean, std := MeanStd(skewed)
	assert.Equal(t, 22.0, mean)
	assert.InDelta(t, 39.0128184, std, 1e-6)

	mean, std = MeanStd([]float64{7})
	assert.Equal(t, 7.0, mean)
	assert.Equal(t, 0.0, std)
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestSkew(t *testing.T) {
	assert.InDelta(t, 2.2323959, Skew(skewed), 1e-6)
	assert.InDelta(t, 0.8184876, Skew([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-6)
	assert.Equal(t, 0.0, Skew([]float64{3, 3, 3}))
	assert.True(t, math.IsNaN(Skew([]float64{1, 2})))
}

func TestMode(t *testing.T) {
	m, ok := Mode([]string{"b", "a", "b", "a", "", ""})
	require.True(t, ok)
	assert.Equal(t, "a", m)

	_, ok = Mode([]string{"", ""})
	assert.False(t, ok)
}

func TestPearson(t *testing.T) {
	r := Pearson([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 4, 5})
	assert.InDelta(t, 0.7745967, r, 1e-6)

	r = Pearson([]float64{1, 2, math.NaN(), 3}, []float64{2, 4, 100, 6})
	assert.InDelta(t, 1.0, r, 1e-12)

	assert.True(t, math.IsNaN(Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})))
}

func TestQcut(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, math.NaN()}
	bins, edges, err := Qcut(values, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3.25, 5.5, 7.75, 10}, edges)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 2, 2, 3, 3, 3, -1}, bins)

	_, _, err = Qcut([]float64{1, 1, 1, 1, 2}, 4)
	assert.True(t, errors.Is(err, ErrDuplicateEdges))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(100.0/3, 2))
	assert.Equal(t, 16.67, Round(100.0/6, 2))
}
