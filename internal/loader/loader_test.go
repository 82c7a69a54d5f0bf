package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

const sessionsCSV = `Bearer Id,Start,Handset Type,Total UL (Bytes),Avg RTT DL (ms)
1.31E+19,4/4/2019 12:01,Samsung Galaxy A5,36749741,42
1.31E+19,4/9/2019 13:04,undefined,53800391,
,4/9/2019 17:42,Apple iPhone 8,27883638,NA
1.31E+19,not a date,Samsung Galaxy A5,43324218,33
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	ds, err := Load(writeFile(t, "sessions.csv", sessionsCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Rows())
	assert.Equal(t, []string{"Bearer Id", "Start", "Handset Type", "Total UL (Bytes)", "Avg RTT DL (ms)"}, ds.Names())

	kinds := map[string]dataset.Kind{}
	for _, c := range ds.Columns() {
		kinds[c.Name()] = c.Kind()
	}
	assert.Equal(t, dataset.Numeric, kinds["Bearer Id"])
	assert.Equal(t, dataset.Categorical, kinds["Start"], "one unparseable date keeps the column textual")
	assert.Equal(t, dataset.Categorical, kinds["Handset Type"])
	assert.Equal(t, dataset.Numeric, kinds["Total UL (Bytes)"])

	rtt, _ := ds.Column("Avg RTT DL (ms)")
	assert.Equal(t, 2, rtt.NullCount(), "empty and NA cells are null")
	bearer, _ := ds.Column("Bearer Id")
	assert.Equal(t, 1, bearer.NullCount())
	v, ok := bearer.Float(0)
	require.True(t, ok)
	assert.Equal(t, 1.31e19, v)
}

func TestLoadDatetimeColumn(t *testing.T) {
	ds, err := Load(writeFile(t, "t.tsv", "start\tms\n4/4/2019 12:01\t1\n2019-04-25\t2\n"), Options{})
	require.NoError(t, err)
	c, _ := ds.Column("start")
	assert.Equal(t, dataset.Datetime, c.Kind())
	assert.Equal(t, "2019-04-04 12:01:00", c.Cell(0))
}

func TestLoadCustomNullTokensAndMaxRows(t *testing.T) {
	p := writeFile(t, "n.csv", "a;b\n1;-\n2;x\n3;y\n")
	ds, err := Load(p, Options{Delimiter: ';', NullTokens: []string{"-"}, MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	b, _ := ds.Column("b")
	assert.True(t, b.IsNull(0))
}

func TestLoadCSVNullTokensDecideAlone(t *testing.T) {
	p := writeFile(t, "h.csv", "handset,ul\nNA,1\n-,2\nB,NaN\n")

	ds, err := Load(p, Options{NullTokens: []string{"-"}})
	require.NoError(t, err)
	h, ok := ds.Column("handset")
	require.True(t, ok)
	assert.Equal(t, dataset.Categorical, h.Kind())
	assert.False(t, h.IsNull(0))
	assert.Equal(t, "NA", h.Cell(0))
	assert.True(t, h.IsNull(1))
	ul, _ := ds.Column("ul")
	assert.Equal(t, dataset.Categorical, ul.Kind(), "NaN is a plain value under custom tokens")

	ds, err = Load(p, Options{})
	require.NoError(t, err)
	h, _ = ds.Column("handset")
	assert.True(t, h.IsNull(0))
	assert.False(t, h.IsNull(1))
	ul, _ = ds.Column("ul")
	assert.Equal(t, dataset.Numeric, ul.Kind())
	assert.Equal(t, 1, ul.NullCount())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("xdr")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("xdr", "A1", &[]interface{}{"MSISDN/Number", "Dur. (ms)", "Handset Manufacturer"}))
	require.NoError(t, f.SetSheetRow("xdr", "A2", &[]interface{}{33664962239, 1823652, "Samsung"}))
	require.NoError(t, f.SetSheetRow("xdr", "A3", &[]interface{}{33681854413, 1365104, "Apple"}))
	require.NoError(t, f.SetSheetRow("xdr", "A4", &[]interface{}{"", 12.5, "Apple"}))
	p := filepath.Join(t.TempDir(), "xdr.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, err := Load(p, Options{Sheet: "XDR"})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	dur, _ := ds.Column("Dur. (ms)")
	assert.Equal(t, dataset.Numeric, dur.Kind())
	assert.Equal(t, []float64{1823652, 1365104, 12.5}, dur.Floats())
	msisdn, _ := ds.Column("MSISDN/Number")
	assert.Equal(t, 1, msisdn.NullCount())

	ds, err = Load(p, Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())

	var arg *dataset.InvalidArgumentError
	_, err = Load(p, Options{Sheet: "missing"})
	require.True(t, errors.As(err, &arg))
	assert.Contains(t, arg.Reason, "Sheet1, xdr")
	_, err = Load(p, Options{SheetIndex: 9})
	assert.True(t, errors.As(err, &arg))

	var inv *dataset.InvalidInputError
	_, err = Load(p, Options{Sheet: "Sheet1"})
	assert.True(t, errors.As(err, &inv), "empty sheet has no header")
}

func TestLoadErrors(t *testing.T) {
	var inv *dataset.InvalidInputError
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	assert.True(t, errors.As(err, &inv))

	_, err = Load(writeFile(t, "notes.docx", "x"), Options{})
	require.True(t, errors.As(err, &inv))
	assert.Contains(t, inv.Reason, ".docx")

	_, err = Load(writeFile(t, "empty.csv", ""), Options{})
	assert.True(t, errors.As(err, &inv))
}

func TestBuild(t *testing.T) {
	ds, err := Build([]string{"a", " ", "c"}, [][]string{{"1", "x"}, {"2", "y", "z"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "column_2", "c"}, ds.Names())
	c, _ := ds.Column("c")
	assert.Equal(t, 1, c.NullCount(), "short rows are padded with nulls")

	_, err = Build(nil, nil, Options{})
	var inv *dataset.InvalidInputError
	assert.True(t, errors.As(err, &inv))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src, err := Load(writeFile(t, "sessions.csv", sessionsCSV), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, src))
	assert.Contains(t, buf.String(), "Bearer Id,Start,Handset Type,Total UL (Bytes),Avg RTT DL (ms)\n")

	back, err := Load(writeFile(t, "back.csv", buf.String()), Options{})
	require.NoError(t, err)
	assert.Equal(t, src.Names(), back.Names())
	assert.Equal(t, src.Rows(), back.Rows())
	for _, name := range src.Names() {
		a, _ := src.Column(name)
		b, _ := back.Column(name)
		assert.Equal(t, a.Kind(), b.Kind(), name)
		assert.Equal(t, a.Strings(), b.Strings(), name)
	}
}
