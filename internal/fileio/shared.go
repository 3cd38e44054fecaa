// Package fileio loads spreadsheets into a table.Dataset and serializes
// datasets back to spreadsheet bytes.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"sheetops/internal/apperr"
	"sheetops/internal/table"
)

// Format is a supported file format, named by its extension.
type Format string

const (
	FormatXLSX Format = ".xlsx"
	FormatXLS  Format = ".xls"
	FormatCSV  Format = ".csv"
)

// FormatOf picks the format from a file name.
func FormatOf(filename string) (Format, error) {
	switch f := Format(strings.ToLower(filepath.Ext(filename))); f {
	case FormatXLSX, FormatXLS, FormatCSV:
		return f, nil
	default:
		return "", apperr.InvalidInput(fmt.Sprintf("unsupported file: %s (use .xlsx, .xls or .csv)", filename), nil)
	}
}

// Read picks a parser by extension and returns the first sheet as a dataset.
// headerRow is the 1-based row holding column names; rows above it are skipped.
func Read(r io.Reader, filename string, headerRow int) (*table.Dataset, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	if headerRow < 1 {
		headerRow = 1
	}

	var ds *table.Dataset
	switch format {
	case FormatXLSX:
		ds, err = readXLSX(r, headerRow)
	case FormatXLS:
		ds, err = readXLS(r, headerRow)
	default:
		ds, err = readCSV(r, headerRow)
	}
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.InvalidInput(fmt.Sprintf("cannot read %s", filename), err)
	}
	return ds, nil
}

// cellFunc types one raw cell. row and col index the full grid.
type cellFunc func(row, col int, raw string) table.Value

func inferCell(_, _ int, raw string) table.Value { return table.Infer(raw) }

// pickHeader takes the header row, names blank cells "Column N" and suffixes
// repeated names with ".1", ".2", ... so every column name is unique.
func pickHeader(rows [][]string, headerRow, width int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	var h []string
	if idx >= 0 {
		h = rows[idx]
	}

	out := make([]string, width)
	seen := make(map[string]bool, width)
	for i := range out {
		var v string
		if i < len(h) {
			v = strings.TrimSpace(h[i])
		}
		if v == "" {
			v = "Column " + strconv.Itoa(i+1)
		}
		name := v
		for n := 1; seen[name]; n++ {
			name = v + "." + strconv.Itoa(n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// gridWidth is the widest of the header and data rows.
func gridWidth(rows [][]string, headerRow int) int {
	w := 0
	for i := headerRow - 1; i < len(rows); i++ {
		if i >= 0 && len(rows[i]) > w {
			w = len(rows[i])
		}
	}
	return w
}

// rowsToDataset builds a dataset from the rows below the header. Blank rows
// inside the data are kept; trailing blank rows are dropped.
func rowsToDataset(rows [][]string, headerRow int, cell cellFunc) (*table.Dataset, error) {
	width := gridWidth(rows, headerRow)
	ds, err := table.New(pickHeader(rows, headerRow, width)...)
	if err != nil {
		return nil, err
	}

	last := len(rows) - 1
	for last >= headerRow && blank(rows[last]) {
		last--
	}
	for r := headerRow; r <= last; r++ {
		rec := rows[r]
		vals := make([]table.Value, width)
		for c := range vals {
			if c < len(rec) {
				vals[c] = cell(r, c, rec[c])
			}
		}
		if err := ds.Append(vals...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

// normalizeCell cleans a raw cell string: CRLF line breaks become LF and NUL
// bytes left by legacy exporters are removed.
func normalizeCell(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\x00", "")
}
