package loader

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
)

// WriteCSV writes ds with a header row. Null cells are written empty and
// datetimes use dataset.TimeLayout.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	if ds.Width() == 0 {
		return nil
	}
	cols := make([]series.Series, 0, ds.Width())
	for _, c := range ds.Columns() {
		cols = append(cols, series.New(c.Strings(), series.String, c.Name()))
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
