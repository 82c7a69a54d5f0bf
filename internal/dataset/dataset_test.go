package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New(
		NewNumeric("dur", []float64{1, math.NaN(), 3}),
		NewCategorical("handset", []string{"apple", "", "huawei"}),
		NewDatetime("start", []time.Time{time.Date(2019, 4, 4, 12, 1, 0, 0, time.UTC), {}, {}}),
	)
	require.NoError(t, err)
	return ds
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New(NewNumeric("a", []float64{1, 2}), NewNumeric("b", []float64{1}))
	var inv *InvalidInputError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "b", inv.Column)

	_, err = New(NewNumeric("a", []float64{1}), NewText("a", []string{"x"}))
	require.True(t, errors.As(err, &inv))
	assert.Contains(t, inv.Reason, "duplicate")
}

func TestNullTracking(t *testing.T) {
	ds := sample(t)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 3, ds.Width())
	assert.Equal(t, 4, ds.NullCount())

	dur, ok := ds.Column("dur")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, dur.Valid())
	assert.True(t, math.IsNaN(dur.Floats()[1]))
	assert.Equal(t, []string{"1", "", "3"}, dur.Strings())

	start, _ := ds.Column("start")
	assert.Equal(t, "2019-04-04 12:01:00", start.Cell(0))
	assert.Equal(t, 2, start.NullCount())
}

func TestTransformationsDoNotMutate(t *testing.T) {
	ds := sample(t)
	dur, _ := ds.Column("dur")

	next, err := ds.With(dur.WithFloats([]float64{10, 20, 30}))
	require.NoError(t, err)
	got, _ := next.Column("dur")
	assert.Equal(t, []float64{10, 20, 30}, got.Valid())

	orig, _ := ds.Column("dur")
	assert.Equal(t, []float64{1, 3}, orig.Valid())

	dropped, err := ds.Drop("test", "handset")
	require.NoError(t, err)
	assert.Equal(t, []string{"dur", "start"}, dropped.Names())
	assert.Equal(t, []string{"dur", "handset", "start"}, ds.Names())
}

func TestDropEveryColumnKeepsRowCount(t *testing.T) {
	ds := sample(t)
	empty, err := ds.Drop("test", ds.Names()...)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Width())
	assert.Equal(t, ds.Rows(), empty.Rows())
}

func TestLookupErrors(t *testing.T) {
	ds := sample(t)
	_, err := ds.Lookup("op", "missing")
	var nf *ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Column)

	_, err = ds.Numeric("op", "handset")
	var inv *InvalidInputError
	require.True(t, errors.As(err, &inv))

	_, err = ds.Drop("op", "nope")
	require.True(t, errors.As(err, &nf))
}

func TestRenameAndTake(t *testing.T) {
	ds := sample(t)
	renamed, err := ds.Rename("dur", "duration")
	require.NoError(t, err)
	assert.Equal(t, []string{"duration", "handset", "start"}, renamed.Names())

	_, err = ds.Rename("dur", "handset")
	require.Error(t, err)

	sub, err := ds.Filter([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Rows())
	assert.Equal(t, []string{"3", "huawei", ""}, sub.Row(1))
}

func TestColumnFill(t *testing.T) {
	c := NewNumeric("x", []float64{math.NaN(), 2, math.NaN(), 4})
	filled := c.Fill([]int{-1, 1, 1, 3})
	assert.True(t, filled.IsNull(0))
	v, ok := filled.Float(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.True(t, c.IsNull(2))

	s := NewCategorical("c", []string{"a", ""}).FillString("a")
	assert.Equal(t, 0, s.NullCount())
}
