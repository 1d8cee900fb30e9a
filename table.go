package nkit

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/nkit/internal/conv"
)

// cell is an untagged payload; its type is the column type.
type cell struct {
	n   uint64
	ref any
}

func cellOf(v Value) cell { return cell{n: v.n, ref: v.ref} }

func (c cell) value(t Tag) Value { return Value{tag: t, n: c.n, ref: c.ref} }

// rowObserver is the only surface through which a Table updates the
// structures that index its rows.
type rowObserver interface {
	notifyRowInsert(row []cell, pos int, incremental bool)
	notifyRowDelete(row []cell, pos int, incremental bool)
	coversColumn(col int) bool
	detach()
}

// Table is an in-memory table with named, typed columns and dense row
// storage. Cells store payloads only; the column carries the type.
//
// A Table is not safe for concurrent mutation. Index lookups may run
// concurrently with each other but not with mutations.
//
// String and MongoOID cells alias the payload of the Value they were stored
// from, and CellValue and Row return aliases as well. Indices only learn about
// changes made through the row and cell methods of the Table: mutating an
// aliased payload in place (AddAssign, ReplaceAll, Clear and similar) leaves
// every index covering that column out of order. To change such a cell, Clone
// the value, modify the clone and store it with SetCellValue.
type Table struct {
	columns   []Column
	cells     []cell
	height    int
	observers []rowObserver

	opts options
	log  *Logger
}

// NewTable creates an empty table from a definition such as
// "name,age:INTEGER,score:FLOAT". Columns without a type are STRING.
func NewTable(def string, opts ...Option) (*Table, error) {
	cols, err := parseTableDef(def)
	if err != nil {
		return nil, err
	}
	return newTable(cols, applyOptions(opts)), nil
}

// NewTableFrom creates a table with the schema of sample. When copyRows is
// set every row of sample is copied as well.
func NewTableFrom(sample *Table, copyRows bool, opts ...Option) (*Table, error) {
	if sample == nil {
		return nil, schemaErrorf("", "Table definition could not be empty")
	}
	t := newTable(sample.columns, applyOptions(opts))
	if copyRows {
		t.cells = cloneCells(sample.columns, sample.cells)
		t.height = sample.height
	}
	return t, nil
}

func newTable(cols []Column, o options) *Table {
	return &Table{columns: slices.Clone(cols), opts: o, log: o.logger.WithTable(formatTableDef(cols))}
}

func cloneCells(cols []Column, src []cell) []cell {
	out := make([]cell, len(src))
	w := len(cols)
	for i, c := range src {
		if t := cols[i%w].Type; t == TagString {
			c = cellOf(c.value(t).Clone())
		}
		out[i] = c
	}
	return out
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Columns returns a copy of the schema.
func (t *Table) Columns() []Column { return slices.Clone(t.columns) }

// Definition returns the schema in definition syntax.
func (t *Table) Definition() string { return formatTableDef(t.columns) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int { return columnIndex(t.columns, name) }

// SetColumnName renames column col. It fails when col is out of range or
// another column already has the name.
func (t *Table) SetColumnName(col int, name string) error {
	if col < 0 || col >= len(t.columns) {
		return outOfRange("column", col, len(t.columns))
	}
	if i := t.ColumnIndex(name); i >= 0 && i != col {
		return schemaErrorf(name, "Column '%s' already exists", name)
	}
	t.columns[col].Name = name
	return nil
}

func (t *Table) row(pos int) []cell {
	w := len(t.columns)
	return t.cells[pos*w : (pos+1)*w : (pos+1)*w]
}

// buildRow checks every supplied value against its column before anything
// is stored. Missing trailing values get the column default; extra values
// are ignored.
func (t *Table) buildRow(values []Value) ([]cell, error) {
	row := make([]cell, len(t.columns))
	for i, col := range t.columns {
		if i >= len(values) {
			row[i] = cellOf(DefaultValue(col.Type))
			continue
		}
		if values[i].tag != col.Type {
			return nil, typeMismatch(col, values[i].tag)
		}
		row[i] = cellOf(values[i])
	}
	return row, nil
}

// Validate reports whether values may be stored as a row: at least one value
// and every supplied value of its column's type.
func (t *Table) Validate(values ...Value) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: empty row", ErrTypeMismatch)
	}
	_, err := t.buildRow(values)
	return err
}

func (t *Table) record(op string, pos int, start time.Time, err error) error {
	t.opts.metricsCollector.RecordRowMutation(op, time.Since(start), err)
	t.log.LogRowMutation(op, pos, err)
	return err
}

// AppendRow appends a row. Every subscribed index is notified once the row is
// stored.
func (t *Table) AppendRow(values ...Value) error {
	start := time.Now()
	row, err := t.buildRow(values)
	if err != nil {
		return t.record("append", t.height, start, err)
	}
	t.appendCells(row)
	return t.record("append", t.height-1, start, nil)
}

func (t *Table) appendCells(row []cell) {
	t.cells = append(t.cells, row...)
	t.height++
	pos := t.height - 1
	for _, o := range t.observers {
		o.notifyRowInsert(t.row(pos), pos, false)
	}
}

// SetRow replaces row pos. Indices see the old key removed and the new key
// inserted.
func (t *Table) SetRow(pos int, values ...Value) error {
	start := time.Now()
	if pos < 0 || pos >= t.height {
		return t.record("set", pos, start, outOfRange("row", pos, t.height))
	}
	row, err := t.buildRow(values)
	if err != nil {
		return t.record("set", pos, start, err)
	}
	t.replaceCells(pos, row)
	return t.record("set", pos, start, nil)
}

func (t *Table) replaceCells(pos int, row []cell) {
	for _, o := range t.observers {
		o.notifyRowDelete(t.row(pos), pos, false)
	}
	copy(t.row(pos), row)
	for _, o := range t.observers {
		o.notifyRowInsert(t.row(pos), pos, false)
	}
}

// InsertRow inserts a row before position pos, 0 <= pos <= Height(). Row
// positions stored in indices at or after pos are shifted by one.
func (t *Table) InsertRow(pos int, values ...Value) error {
	start := time.Now()
	if pos < 0 || pos > t.height {
		return t.record("insert", pos, start, outOfRange("row", pos, t.height+1))
	}
	row, err := t.buildRow(values)
	if err != nil {
		return t.record("insert", pos, start, err)
	}
	t.cells = slices.Insert(t.cells, pos*len(t.columns), row...)
	t.height++
	for _, o := range t.observers {
		o.notifyRowInsert(t.row(pos), pos, true)
	}
	return t.record("insert", pos, start, nil)
}

// DeleteRow removes row pos. Row positions stored in indices after pos are
// shifted down by one.
func (t *Table) DeleteRow(pos int) error {
	start := time.Now()
	if pos < 0 || pos >= t.height {
		return t.record("delete", pos, start, outOfRange("row", pos, t.height))
	}
	t.deleteRow(pos)
	return t.record("delete", pos, start, nil)
}

func (t *Table) deleteRow(pos int) {
	for _, o := range t.observers {
		o.notifyRowDelete(t.row(pos), pos, true)
	}
	w := len(t.columns)
	clear(t.cells[pos*w : (pos+1)*w])
	t.cells = slices.Delete(t.cells, pos*w, (pos+1)*w)
	t.height--
}

// DeleteRows removes a set of rows. All positions are checked first; rows are
// then removed from the highest position down so that lower positions stay
// valid. Duplicates are ignored.
func (t *Table) DeleteRows(rows ...int) error {
	start := time.Now()
	set := roaring.New()
	for _, pos := range rows {
		if pos < 0 || pos >= t.height {
			return t.record("delete_rows", pos, start, outOfRange("row", pos, t.height))
		}
		p, err := conv.IntToUint32(pos)
		if err != nil {
			return t.record("delete_rows", pos, start, err)
		}
		set.Add(p)
	}
	it := set.ReverseIterator()
	for it.HasNext() {
		pos, err := conv.Uint32ToInt(it.Next())
		if err != nil {
			return t.record("delete_rows", -1, start, err)
		}
		t.deleteRow(pos)
	}
	return t.record("delete_rows", int(set.GetCardinality()), start, nil)
}

// SetCellValue replaces one cell. Only indices covering col are updated.
func (t *Table) SetCellValue(pos, col int, v Value) error {
	start := time.Now()
	if pos < 0 || pos >= t.height {
		return t.record("set_cell", pos, start, outOfRange("row", pos, t.height))
	}
	if col < 0 || col >= len(t.columns) {
		return t.record("set_cell", pos, start, outOfRange("column", col, len(t.columns)))
	}
	if v.tag != t.columns[col].Type {
		return t.record("set_cell", pos, start, typeMismatch(t.columns[col], v.tag))
	}
	var affected []rowObserver
	for _, o := range t.observers {
		if o.coversColumn(col) {
			affected = append(affected, o)
			o.notifyRowDelete(t.row(pos), pos, false)
		}
	}
	t.row(pos)[col] = cellOf(v)
	for _, o := range affected {
		o.notifyRowInsert(t.row(pos), pos, false)
	}
	return t.record("set_cell", pos, start, nil)
}

// CellValue returns the cell at (pos, col), or None when out of range.
// Shared payloads are returned as aliases.
func (t *Table) CellValue(pos, col int) Value {
	if pos < 0 || pos >= t.height || col < 0 || col >= len(t.columns) {
		return None()
	}
	return t.row(pos)[col].value(t.columns[col].Type)
}

// Row returns the values of row pos, or nil when out of range.
func (t *Table) Row(pos int) []Value {
	if pos < 0 || pos >= t.height {
		return nil
	}
	out := make([]Value, len(t.columns))
	for i, c := range t.row(pos) {
		out[i] = c.value(t.columns[i].Type)
	}
	return out
}

// Rows iterates over all rows in position order.
func (t *Table) Rows() iter.Seq2[int, []Value] {
	return func(yield func(int, []Value) bool) {
		for pos := 0; pos < t.height; pos++ {
			if !yield(pos, t.Row(pos)) {
				return
			}
		}
	}
}

// Equal compares width, height and then every cell. Indices are ignored.
func (t *Table) Equal(o *Table) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || len(t.columns) != len(o.columns) || t.height != o.height {
		return false
	}
	for pos := 0; pos < t.height; pos++ {
		for col := range t.columns {
			if !t.CellValue(pos, col).Equal(o.CellValue(pos, col)) {
				return false
			}
		}
	}
	return true
}

// Clone returns a table with the same schema. With full set the rows are
// deep copied as well. Indices are never copied.
func (t *Table) Clone(full bool) *Table {
	c := newTable(t.columns, t.opts)
	if full {
		c.cells = cloneCells(t.columns, t.cells)
		c.height = t.height
	}
	return c
}

// Clear removes every row and detaches all indices. The schema is kept.
func (t *Table) Clear() {
	t.DeleteAllIndices()
	clear(t.cells)
	t.cells = t.cells[:0]
	t.height = 0
}

// ColumnValues returns the cells of column col as a List.
func (t *Table) ColumnValues(col int) Value {
	out := List()
	if col < 0 || col >= len(t.columns) {
		return out
	}
	for pos := 0; pos < t.height; pos++ {
		out.Append(t.CellValue(pos, col))
	}
	return out
}

// JoinColumn joins the string forms of column col with sep.
func (t *Table) JoinColumn(col int, sep string) string {
	if col < 0 || col >= len(t.columns) {
		return ""
	}
	parts := make([]string, t.height)
	for pos := range parts {
		parts[pos] = textOf(t.CellValue(pos, col))
	}
	return strings.Join(parts, sep)
}
