package nkit

import (
	"context"
	"iter"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/nkit/internal/conv"
)

// Index is an ordered composite key to row positions map kept in sync with
// its table. Buckets are ordered by the per-column comparator chain; each
// bucket holds row positions in ascending order.
//
// An index stays usable only while attached to its table. After
// Table.DeleteIndex every lookup returns the end iterator.
type Index struct {
	table    *Table
	def      string
	columns  []keyColumn
	cmp      keyComparator
	buckets  []*indexBucket
	attached bool
}

type indexBucket struct {
	key  compositeKey
	rows []int
}

func newIndex(t *Table, def string) (*Index, error) {
	if strings.TrimSpace(def) == "" {
		return nil, schemaErrorf(def, "Index definition could not be empty")
	}
	cols, err := parseKeyDef(def, t.columns, "Could not find column with name '%s'")
	if err != nil {
		return nil, err
	}
	return &Index{table: t, def: def, columns: cols, cmp: newKeyComparator(cols)}, nil
}

// scan fills the index from the table rows.
func (ix *Index) scan(ctx context.Context) error {
	for pos := 0; pos < ix.table.height; pos++ {
		if pos%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ix.insert(rowKey(ix.columns, ix.table.row(pos)), pos)
	}
	return nil
}

// CreateIndex builds an index over a definition such as "name,-age" (a
// leading '-' orders that column descending) and subscribes it to the table.
func (t *Table) CreateIndex(def string) (*Index, error) {
	start := time.Now()
	ix, err := newIndex(t, def)
	if err == nil {
		err = ix.scan(context.Background())
	}
	t.opts.metricsCollector.RecordIndexBuild(t.height, time.Since(start), err)
	if err != nil {
		t.log.LogIndexBuild(def, 0, err)
		return nil, err
	}
	t.subscribe(ix)
	t.log.LogIndexBuild(def, len(ix.buckets), nil)
	return ix, nil
}

// CreateIndices builds several indices. The initial scans only read the table
// and run concurrently; subscription happens afterwards, in order. Nothing is
// subscribed when any definition fails.
func (t *Table) CreateIndices(ctx context.Context, defs ...string) ([]*Index, error) {
	start := time.Now()
	out := make([]*Index, len(defs))
	for i, def := range defs {
		ix, err := newIndex(t, def)
		if err != nil {
			t.log.LogIndexBuild(def, 0, err)
			return nil, err
		}
		out[i] = ix
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.indexBuildConcurrency)
	for _, ix := range out {
		g.Go(func() error {
			return ix.scan(gctx)
		})
	}
	err := g.Wait()
	t.opts.metricsCollector.RecordIndexBuild(t.height*len(out), time.Since(start), err)
	if err != nil {
		t.log.LogIndexBuild(strings.Join(defs, ";"), 0, err)
		return nil, err
	}
	for _, ix := range out {
		t.subscribe(ix)
		t.log.LogIndexBuild(ix.def, len(ix.buckets), nil)
	}
	return out, nil
}

func (t *Table) subscribe(ix *Index) {
	ix.attached = true
	t.observers = append(t.observers, ix)
}

// DeleteIndex detaches ix from the table. It reports false when ix is not
// subscribed to t.
func (t *Table) DeleteIndex(ix *Index) bool {
	for i, o := range t.observers {
		if o == rowObserver(ix) {
			o.detach()
			t.observers = slices.Delete(t.observers, i, i+1)
			return true
		}
	}
	return false
}

// DeleteAllIndices detaches every index.
func (t *Table) DeleteAllIndices() {
	for _, o := range t.observers {
		o.detach()
	}
	clear(t.observers)
	t.observers = t.observers[:0]
}

// Indices returns the subscribed indices.
func (t *Table) Indices() []*Index {
	var out []*Index
	for _, o := range t.observers {
		if ix, ok := o.(*Index); ok {
			out = append(out, ix)
		}
	}
	return out
}

// Definition returns the definition the index was created with.
func (ix *Index) Definition() string { return ix.def }

// Table returns the indexed table.
func (ix *Index) Table() *Table { return ix.table }

// Attached reports whether the index is still subscribed to its table.
func (ix *Index) Attached() bool { return ix.attached }

// Err returns ErrDetached once the index has been removed from its table.
func (ix *Index) Err() error {
	if !ix.attached {
		return ErrDetached
	}
	return nil
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.buckets) }

// Columns returns the indexed column names, prefixed with '-' when descending.
func (ix *Index) Columns() []string {
	out := make([]string, len(ix.columns))
	for i, kc := range ix.columns {
		if kc.desc {
			out[i] = "-" + kc.name
		} else {
			out[i] = kc.name
		}
	}
	return out
}

// lowerBound returns the first bucket whose key is not less than k.
func (ix *Index) lowerBound(k *compositeKey) int {
	return sort.Search(len(ix.buckets), func(i int) bool {
		return ix.cmp.compare(&ix.buckets[i].key, k) >= 0
	})
}

// upperBound returns the first bucket whose key is greater than k.
func (ix *Index) upperBound(k *compositeKey) int {
	return sort.Search(len(ix.buckets), func(i int) bool {
		return ix.cmp.compare(&ix.buckets[i].key, k) > 0
	})
}

func (ix *Index) find(k *compositeKey) (int, bool) {
	i := ix.lowerBound(k)
	return i, i < len(ix.buckets) && ix.cmp.compare(&ix.buckets[i].key, k) == 0
}

func (ix *Index) insert(k compositeKey, pos int) {
	i, found := ix.find(&k)
	if !found {
		ix.buckets = slices.Insert(ix.buckets, i, &indexBucket{key: k, rows: []int{pos}})
		return
	}
	b := ix.buckets[i]
	j, _ := slices.BinarySearch(b.rows, pos)
	b.rows = slices.Insert(b.rows, j, pos)
}

func (ix *Index) remove(k compositeKey, pos int) {
	i, found := ix.find(&k)
	if !found {
		return
	}
	b := ix.buckets[i]
	j, ok := slices.BinarySearch(b.rows, pos)
	if !ok {
		return
	}
	b.rows = slices.Delete(b.rows, j, j+1)
	if len(b.rows) == 0 {
		ix.buckets = slices.Delete(ix.buckets, i, i+1)
	}
}

// shift adds delta to every stored position at or after from.
func (ix *Index) shift(from, delta int) {
	for _, b := range ix.buckets {
		for j, r := range b.rows {
			if r >= from {
				b.rows[j] = r + delta
			}
		}
	}
}

func (ix *Index) notifyRowInsert(row []cell, pos int, incremental bool) {
	if incremental {
		ix.shift(pos, 1)
	}
	ix.insert(rowKey(ix.columns, row), pos)
}

func (ix *Index) notifyRowDelete(row []cell, pos int, incremental bool) {
	ix.remove(rowKey(ix.columns, row), pos)
	if incremental {
		ix.shift(pos+1, -1)
	}
}

func (ix *Index) coversColumn(col int) bool {
	return slices.ContainsFunc(ix.columns, func(kc keyColumn) bool { return kc.col == col })
}

func (ix *Index) detach() {
	ix.attached = false
	ix.buckets = nil
}

// lookupKey builds a key from lookup values coerced to the key columns.
// Values beyond the number of key columns are ignored.
func (ix *Index) lookupKey(values []Value) (compositeKey, bool) {
	var k compositeKey
	if !ix.attached || len(values) < len(ix.columns) {
		return k, false
	}
	for i, kc := range ix.columns {
		k.items[i] = keyItemOfValue(values[i], kc.affinity)
	}
	k.size = len(ix.columns)
	return k, true
}

func (ix *Index) end() *Iterator { return &Iterator{ix: ix, bucket: len(ix.buckets)} }

func (ix *Index) at(bucket int) *Iterator {
	it := &Iterator{ix: ix, bucket: bucket}
	ix.table.opts.metricsCollector.RecordLookup(it.Valid())
	return it
}

// Begin returns an iterator at the first key.
func (ix *Index) Begin() *Iterator {
	if !ix.attached {
		return ix.end()
	}
	return &Iterator{ix: ix}
}

// GetEqual positions an iterator at the bucket whose key equals values.
func (ix *Index) GetEqual(values ...Value) *Iterator {
	k, ok := ix.lookupKey(values)
	if !ok {
		return ix.end()
	}
	i, found := ix.find(&k)
	if !found {
		return ix.at(len(ix.buckets))
	}
	return ix.at(i)
}

// GetLower positions an iterator at the first key not less than values
// (lower bound semantics).
func (ix *Index) GetLower(values ...Value) *Iterator {
	k, ok := ix.lookupKey(values)
	if !ok {
		return ix.end()
	}
	return ix.at(ix.lowerBound(&k))
}

// GetGreater positions an iterator at the first key greater than values
// (upper bound semantics).
func (ix *Index) GetGreater(values ...Value) *Iterator {
	k, ok := ix.lookupKey(values)
	if !ok {
		return ix.end()
	}
	return ix.at(ix.upperBound(&k))
}

// GetLowerOrEqual tries GetEqual and falls back to GetLower.
func (ix *Index) GetLowerOrEqual(values ...Value) *Iterator {
	if it := ix.GetEqual(values...); it.Valid() {
		return it
	}
	return ix.GetLower(values...)
}

// GetGreaterOrEqual tries GetEqual and falls back to GetGreater.
func (ix *Index) GetGreaterOrEqual(values ...Value) *Iterator {
	if it := ix.GetEqual(values...); it.Valid() {
		return it
	}
	return ix.GetGreater(values...)
}

// Bitmap returns the row positions stored under the key equal to values.
// The bitmap is empty when there is no such key.
func (ix *Index) Bitmap(values ...Value) *roaring.Bitmap {
	bm := roaring.New()
	it := ix.GetEqual(values...)
	if !it.Valid() {
		return bm
	}
	for _, pos := range it.BucketRows() {
		p, err := conv.IntToUint32(pos)
		if err != nil {
			continue
		}
		bm.Add(p)
	}
	return bm
}

// All iterates over every stored row position in index order.
func (ix *Index) All() iter.Seq[int] {
	return ix.Begin().All()
}

// Iterator walks an index from a starting bucket to the end, visiting the
// row positions of each bucket in ascending order.
type Iterator struct {
	ix     *Index
	bucket int
	offset int
}

// Valid reports whether the iterator points at a row.
func (it *Iterator) Valid() bool {
	return it.ix != nil && it.ix.attached && it.bucket < len(it.ix.buckets)
}

// Next advances to the next row position.
func (it *Iterator) Next() {
	if !it.Valid() {
		return
	}
	it.offset++
	if it.offset >= len(it.ix.buckets[it.bucket].rows) {
		it.bucket++
		it.offset = 0
	}
}

// Row returns the current row position, or -1.
func (it *Iterator) Row() int {
	if !it.Valid() {
		return -1
	}
	return it.ix.buckets[it.bucket].rows[it.offset]
}

// BucketRows returns a copy of the row positions that share the current key.
func (it *Iterator) BucketRows() []int {
	if !it.Valid() {
		return nil
	}
	return slices.Clone(it.ix.buckets[it.bucket].rows)
}

// Value returns cell col of the current row, or None.
func (it *Iterator) Value(col int) Value {
	if !it.Valid() {
		return None()
	}
	return it.ix.table.CellValue(it.Row(), col)
}

// Values returns the current row, or nil.
func (it *Iterator) Values() []Value {
	if !it.Valid() {
		return nil
	}
	return it.ix.table.Row(it.Row())
}

// All iterates over the remaining row positions without moving it.
func (it *Iterator) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		cur := *it
		for ; cur.Valid(); cur.Next() {
			if !yield(cur.Row()) {
				return
			}
		}
	}
}
