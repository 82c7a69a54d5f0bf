package impute

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

var nan = math.NaN()

func mixed(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NewNumeric("ul", []float64{1, nan, 3, 10}),
		dataset.NewNumeric("empty", []float64{nan, nan, nan, nan}),
		dataset.NewCategorical("handset", []string{"", "apple", "samsung", "apple"}),
	)
	require.NoError(t, err)
	return ds
}

func floats(t *testing.T, ds *dataset.Dataset, name string) []float64 {
	t.Helper()
	c, ok := ds.Column(name)
	require.True(t, ok)
	return c.Floats()
}

func TestFillMean(t *testing.T) {
	ds := mixed(t)
	out, err := Fill(ds, Mean)
	require.NoError(t, err)

	ul, _ := out.Column("ul")
	assert.Equal(t, 0, ul.NullCount())
	assert.Equal(t, []float64{1, 14.0 / 3, 3, 10}, ul.Floats())

	empty, _ := out.Column("empty")
	assert.Equal(t, 4, empty.NullCount(), "all-null column has no mean and stays null")

	handset, _ := out.Column("handset")
	assert.Equal(t, 1, handset.NullCount(), "mean leaves categorical columns alone")

	orig, _ := ds.Column("ul")
	assert.Equal(t, 1, orig.NullCount(), "input is not mutated")
}

func TestFillMedian(t *testing.T) {
	out, err := Fill(mixed(t), Median)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 10}, floats(t, out, "ul"))
}

func TestFillMode(t *testing.T) {
	out, err := Fill(mixed(t), Mode)
	require.NoError(t, err)
	h, _ := out.Column("handset")
	assert.Equal(t, []string{"apple", "apple", "samsung", "apple"}, h.Strings())
	ul, _ := out.Column("ul")
	assert.Equal(t, 1, ul.NullCount(), "mode leaves numeric columns alone")
}

func TestFillModeTieUsesFirstMode(t *testing.T) {
	ds, err := dataset.New(dataset.NewCategorical("c", []string{"b", "a", "", "b", "a"}))
	require.NoError(t, err)
	out, err := Fill(ds, Mode)
	require.NoError(t, err)
	c, _ := out.Column("c")
	assert.Equal(t, "a", c.Cell(2))
}

func TestDirectionalFills(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumeric("x", []float64{nan, 1, nan, nan, 4, nan}),
		dataset.NewCategorical("c", []string{"a", "", "b", "", "", ""}),
	)
	require.NoError(t, err)

	ff, err := Fill(ds, ForwardFill)
	require.NoError(t, err)
	x := floats(t, ff, "x")
	assert.True(t, math.IsNaN(x[0]), "leading null has no prior value")
	assert.Equal(t, []float64{1, 1, 1, 4, 4}, x[1:])
	c, _ := ff.Column("c")
	assert.Equal(t, []string{"a", "a", "b", "b", "b", "b"}, c.Strings())

	bf, err := Fill(ds, BackwardFill)
	require.NoError(t, err)
	x = floats(t, bf, "x")
	assert.Equal(t, []float64{1, 1, 4, 4, 4}, x[:5])
	assert.True(t, math.IsNaN(x[5]), "trailing null has no following value")
	c, _ = bf.Column("c")
	assert.Equal(t, []string{"a", "b", "b", "", "", ""}, c.Strings())
}

func TestFillColumnsSubset(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewNumeric("a", []float64{1, nan, 3}),
		dataset.NewNumeric("b", []float64{1, nan, 3}),
	)
	require.NoError(t, err)
	out, err := FillColumns(ds, Mean, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, floats(t, out, "a"))
	assert.True(t, math.IsNaN(floats(t, out, "b")[1]))

	_, err = FillColumns(ds, Mean, []string{"zzz"})
	var nf *dataset.ColumnNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestParseStrategy(t *testing.T) {
	for token, want := range map[string]Strategy{
		"mean": Mean, "MEDIAN": Median, "mode": Mode,
		"ffill": ForwardFill, "forward_fill": ForwardFill,
		"bfill": BackwardFill, "backward_fill": BackwardFill,
	} {
		got, err := ParseStrategy(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}

	_, err := ParseStrategy("knn")
	var unsupported *dataset.UnsupportedStrategyError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "knn", unsupported.Strategy)

	_, err = Fill(mixed(t), Strategy(42))
	assert.True(t, errors.As(err, &unsupported))
}
