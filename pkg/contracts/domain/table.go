package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies what a table cell holds
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

// String returns the kind name used in logs and error messages
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero value is a missing cell.
type Value struct {
	kind Kind
	text string
	num  float64
}

// MissingValue returns an empty cell
func MissingValue() Value {
	return Value{}
}

// TextValue returns a text cell
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue returns a numeric cell
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind reports what the cell holds
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is empty
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric content. ok is false for text and missing cells.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Int returns the numeric content truncated to an int
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String renders the cell the way it is written to CSV.
// Missing cells render as an empty string, whole numbers without decimals.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports cell equality including kind
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	default:
		return true
	}
}

// Less orders cells: missing first, then numbers ascending, then text ascending
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		return v.kind < o.kind
	}
	switch v.kind {
	case KindText:
		return v.text < o.text
	case KindNumber:
		return v.num < o.num
	default:
		return false
	}
}

// key is an unambiguous encoding of the cell used for grouping
func (v Value) key() string {
	switch v.kind {
	case KindText:
		return "t" + v.text
	case KindNumber:
		return "n" + strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return "_"
	}
}

// Row is one record of a Table, aligned with the table's columns
type Row []Value

// Table is an in-memory, column-named, row-ordered table.
//
// Tables are treated as immutable once handed to a consumer: every
// transformation returns a new Table. Rows may be shared between a table and
// the tables derived from it, so callers must never modify a Row obtained from
// a Table they did not build themselves.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable creates an empty table with the given columns.
// Duplicate column names keep the first position.
func NewTable(columns []string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// NewTableFromRows builds a table from rows that already match columns
func NewTableFromRows(columns []string, rows []Row) (*Table, error) {
	t := NewTable(columns)
	t.rows = make([]Row, 0, len(rows))
	for i, r := range rows {
		if err := t.AppendRow(r); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return t, nil
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the table carries the named column
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// HasAll reports whether every named column is present
func (t *Table) HasAll(columns ...string) bool {
	for _, c := range columns {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

// Missing returns the named columns the table does not carry
func (t *Table) Missing(columns ...string) []string {
	var out []string
	for _, c := range columns {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of a column
func (t *Table) Index(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Row returns row i. The returned row must not be modified.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Value returns the cell at row i for the named column.
// Absent columns read as missing.
func (t *Table) Value(i int, column string) Value {
	idx, ok := t.index[column]
	if !ok {
		return Value{}
	}
	return t.rows[i][idx]
}

// AppendRow adds a row; its width must match the schema
func (t *Table) AppendRow(r Row) error {
	if len(r) != len(t.columns) {
		return fmt.Errorf("row has %d fields, table has %d columns", len(r), len(t.columns))
	}
	t.rows = append(t.rows, r)
	return nil
}

// Clone returns a deep copy that can be modified freely
func (t *Table) Clone() *Table {
	c := NewTable(t.columns)
	c.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		nr := make(Row, len(r))
		copy(nr, r)
		c.rows[i] = nr
	}
	return c
}

// WithColumn returns a deep copy with an extra column filled with fill.
// If the column already exists the copy is returned unchanged.
func (t *Table) WithColumn(name string, fill Value) *Table {
	c := t.Clone()
	if c.Has(name) {
		return c
	}
	c.index[name] = len(c.columns)
	c.columns = append(c.columns, name)
	for i := range c.rows {
		c.rows[i] = append(c.rows[i], fill)
	}
	return c
}

// Select returns a new table holding the rows for which keep returns true
func (t *Table) Select(keep func(Row) bool) *Table {
	out := NewTable(t.columns)
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Head returns a new table with at most the first n rows
func (t *Table) Head(n int) *Table {
	out := NewTable(t.columns)
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n > 0 {
		out.rows = append(out.rows, t.rows[:n]...)
	}
	return out
}

// SortedStable returns a new table ordered by less. Equal rows keep their order.
func (t *Table) SortedStable(less func(a, b Row) bool) *Table {
	out := NewTable(t.columns)
	out.rows = make([]Row, len(t.rows))
	copy(out.rows, t.rows)
	sort.SliceStable(out.rows, func(i, j int) bool {
		return less(out.rows[i], out.rows[j])
	})
	return out
}

// Key encodes the cells at the given positions into a grouping key
func (r Row) Key(positions ...int) string {
	var b strings.Builder
	for i, p := range positions {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(r[p].key())
	}
	return b.String()
}

// FullKey encodes every cell of the row
func (r Row) FullKey() string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(v.key())
	}
	return b.String()
}

// Header implements Tabular
func (t *Table) Header() []string { return t.Columns() }

// Records implements Tabular
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}

// Maps renders rows as column→value maps for JSON consumers
func (t *Table) Maps() []map[string]interface{} {
	out := make([]map[string]interface{}, len(t.rows))
	for i, r := range t.rows {
		m := make(map[string]interface{}, len(t.columns))
		for j, c := range t.columns {
			switch r[j].kind {
			case KindNumber:
				m[c] = r[j].num
			case KindText:
				m[c] = r[j].text
			default:
				m[c] = nil
			}
		}
		out[i] = m
	}
	return out
}
