package fileio

import (
	"bytes"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"sheetops/internal/table"
)

// builtin number formats that render a serial as a date or time
var builtinDateFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 30: true, 36: true, 45: true, 46: true, 47: true, 50: true, 57: true,
}

func readXLSX(r io.Reader, headerRow int) (*table.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	for _, rec := range rows {
		for i := range rec {
			rec[i] = normalizeCell(rec[i])
		}
	}

	x := xlsxCells{f: f, sheet: sheet, date1904: uses1904(f)}
	return rowsToDataset(rows, headerRow, x.value)
}

type xlsxCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

// value types one raw cell. Numeric serials whose cell style is a date
// format become dates; everything else goes through table.Infer.
func (x *xlsxCells) value(row, col int, raw string) table.Value {
	v := table.Infer(raw)
	if v.Kind() != table.KindNumber {
		return v
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil || !x.isDateCell(cell) {
		return v
	}
	t, err := excelize.ExcelDateToTime(v.Num(), x.date1904)
	if err != nil {
		return v
	}
	return table.Date(t)
}

func (x *xlsxCells) isDateCell(cell string) bool {
	idx, err := x.f.GetCellStyle(x.sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if d, ok := x.styles[idx]; ok {
		return d
	}
	if x.styles == nil {
		x.styles = map[int]bool{}
	}
	d := false
	if st, err := x.f.GetStyle(idx); err == nil && st != nil {
		if st.CustomNumFmt != nil {
			d = isDateFormat(*st.CustomNumFmt)
		} else {
			d = builtinDateFmts[st.NumFmt]
		}
	}
	x.styles[idx] = d
	return d
}

// isDateFormat reports whether a custom number format code renders dates or
// times. Quoted literals, escapes and bracketed sections (colors, locales) are
// ignored.
func isDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		default:
			b.WriteByte(c)
		}
	}
	s := strings.ToLower(b.String())
	return strings.ContainsAny(s, "ydhs") || strings.Contains(s, "mm")
}

func uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	return err == nil && props.Date1904 != nil && *props.Date1904
}

// WriteXLSX serializes ds as a single-sheet workbook. Dates keep a date
// number format; nulls are left blank.
func WriteXLSX(w io.Writer, ds *table.Dataset, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if def := f.GetSheetName(0); def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			return err
		}
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}

	header := make([]any, ds.Width())
	for i, c := range ds.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < ds.Len(); i++ {
		vals := ds.Row(i).Values()
		row := make([]any, len(vals))
		for j, v := range vals {
			row[j] = v.Any()
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return err
		}
		for j, v := range vals {
			if v.Kind() != table.KindDate {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return err
			}
		}
	}
	_, err = f.WriteTo(w)
	return err
}
