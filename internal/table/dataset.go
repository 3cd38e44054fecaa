// Package table holds the in-memory dataset every tool operates on.
package table

import (
	"fmt"
)

// Dataset is an ordered table with unique column names. Rows are stored
// positionally, so every row has a value for every column.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty dataset. Column names must be unique.
func New(columns ...string) (*Dataset, error) {
	d := &Dataset{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, dup := d.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		d.index[c] = len(d.columns)
		d.columns = append(d.columns, c)
	}
	return d, nil
}

// MustNew is New for statically known columns.
func MustNew(columns ...string) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) Width() int { return len(d.columns) }
func (d *Dataset) Len() int   { return len(d.rows) }

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// Missing returns the names not present among the columns, in input order.
func (d *Dataset) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !d.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

// Append adds a row. The number of values must match the column count.
func (d *Dataset) Append(values ...Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %d values, want %d", len(values), len(d.columns))
	}
	d.rows = append(d.rows, append([]Value(nil), values...))
	return nil
}

// Row returns a read-only view of row i.
func (d *Dataset) Row(i int) Row { return Row{ds: d, i: i} }

// Value returns the cell at row i, column col.
func (d *Dataset) Value(i int, col string) (Value, bool) {
	c, ok := d.index[col]
	if !ok || i < 0 || i >= len(d.rows) {
		return Value{}, false
	}
	return d.rows[i][c], true
}

// Set overwrites a cell in place. Only call it on a dataset you own.
func (d *Dataset) Set(i int, col string, v Value) error {
	c, ok := d.index[col]
	if !ok {
		return fmt.Errorf("column %q not found", col)
	}
	if i < 0 || i >= len(d.rows) {
		return fmt.Errorf("row %d out of range", i)
	}
	d.rows[i][c] = v
	return nil
}

// Clone deep-copies the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: append([]string(nil), d.columns...),
		index:   make(map[string]int, len(d.index)),
		rows:    make([][]Value, len(d.rows)),
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	for i, r := range d.rows {
		out.rows[i] = append([]Value(nil), r...)
	}
	return out
}

// Equal compares columns and every cell.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || len(d.columns) != len(o.columns) || len(d.rows) != len(o.rows) {
		return false
	}
	for i := range d.columns {
		if d.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range d.rows {
		for j := range d.rows[i] {
			if !d.rows[i][j].Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// SetColumn fills column name with fill(i) for every row, appending the
// column on the right when it does not exist yet.
func (d *Dataset) SetColumn(name string, fill func(i int) Value) {
	c, ok := d.index[name]
	if !ok {
		c = len(d.columns)
		d.index[name] = c
		d.columns = append(d.columns, name)
		for i := range d.rows {
			d.rows[i] = append(d.rows[i], Value{})
		}
	}
	for i := range d.rows {
		d.rows[i][c] = fill(i)
	}
}

// DropColumn removes a column, reporting whether it existed.
func (d *Dataset) DropColumn(name string) bool {
	c, ok := d.index[name]
	if !ok {
		return false
	}
	d.columns = append(d.columns[:c], d.columns[c+1:]...)
	for i, r := range d.rows {
		d.rows[i] = append(r[:c], r[c+1:]...)
	}
	d.reindex()
	return true
}

// RenameColumn renames from to to keeping position and values.
func (d *Dataset) RenameColumn(from, to string) error {
	c, ok := d.index[from]
	if !ok {
		return fmt.Errorf("column %q not found", from)
	}
	if from == to {
		return nil
	}
	if _, taken := d.index[to]; taken {
		return fmt.Errorf("column %q already exists", to)
	}
	d.columns[c] = to
	d.reindex()
	return nil
}

// Filter keeps the rows for which keep returns true. It stops at the first
// error and leaves the dataset untouched in that case.
func (d *Dataset) Filter(keep func(r Row) (bool, error)) error {
	kept := make([][]Value, 0, len(d.rows))
	for i := range d.rows {
		ok, err := keep(d.Row(i))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if ok {
			kept = append(kept, d.rows[i])
		}
	}
	d.rows = kept
	return nil
}

// ReplaceAll substitutes every cell equal to from with to and returns the
// number of changed cells.
func (d *Dataset) ReplaceAll(from, to Value) int {
	n := 0
	for _, r := range d.rows {
		for j := range r {
			if r[j].Equal(from) {
				r[j] = to
				n++
			}
		}
	}
	return n
}

// Head returns up to n rows as value slices.
func (d *Dataset) Head(n int) [][]Value {
	if n > len(d.rows) || n < 0 {
		n = len(d.rows)
	}
	out := make([][]Value, n)
	for i := 0; i < n; i++ {
		out[i] = append([]Value(nil), d.rows[i]...)
	}
	return out
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.columns))
	for i, c := range d.columns {
		d.index[c] = i
	}
}

// Row is a read-only view of one dataset row.
type Row struct {
	ds *Dataset
	i  int
}

func (r Row) Index() int { return r.i }

// Get returns the value of column col.
func (r Row) Get(col string) (Value, bool) {
	return r.ds.Value(r.i, col)
}

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []Value {
	return append([]Value(nil), r.ds.rows[r.i]...)
}

// Empty reports whether every cell of the row is null or empty.
func (r Row) Empty() bool {
	for _, v := range r.ds.rows[r.i] {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}
