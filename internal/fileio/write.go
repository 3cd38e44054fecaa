package fileio

import (
	"encoding/csv"
	"fmt"
	"io"

	"sheetops/internal/apperr"
	"sheetops/internal/table"
)

// XLSXContentType is the MIME type of WriteXLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write serializes ds in the format named by filename's extension. Legacy
// .xls is read-only.
func Write(w io.Writer, filename string, ds *table.Dataset, sheet string) error {
	format, err := FormatOf(filename)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, ds, sheet)
	case FormatCSV:
		return WriteCSV(w, ds)
	default:
		return apperr.InvalidInput(fmt.Sprintf("cannot write %s: .xls output is not supported", filename), nil)
	}
}

// WriteCSV writes ds as UTF-8 CSV with a header line. Nulls are empty fields.
func WriteCSV(w io.Writer, ds *table.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns()); err != nil {
		return err
	}
	rec := make([]string, ds.Width())
	for i := 0; i < ds.Len(); i++ {
		for j, v := range ds.Row(i).Values() {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
