package nkit

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strings"
	"time"
)

type aggrKind uint8

const (
	aggrCount aggrKind = iota
	aggrSum
	aggrMin
	aggrMax
)

var aggrNames = map[string]aggrKind{
	"COUNT": aggrCount,
	"SUM":   aggrSum,
	"MIN":   aggrMin,
	"MAX":   aggrMax,
}

// aggregator folds one source column into an accumulator of typ.
type aggregator struct {
	kind aggrKind
	col  int
	typ  Tag
}

func (a aggregator) initial() Value {
	switch a.kind {
	case aggrMin:
		return MaxValue(a.typ)
	case aggrMax:
		return MinValue(a.typ)
	default:
		return DefaultValue(a.typ)
	}
}

func (a aggregator) update(acc *Value, row []cell) {
	switch a.kind {
	case aggrCount:
		acc.n++
	case aggrSum:
		v := row[a.col].value(a.typ)
		switch a.typ {
		case TagInteger:
			acc.n = uint64(saturatingAdd(int64(acc.n), int64(v.n)))
		case TagUnsignedInteger:
			acc.n = saturatingAddUint(acc.n, v.n)
		default:
			acc.AddAssign(v)
		}
	case aggrMin:
		*acc = acc.Min(row[a.col].value(a.typ))
	case aggrMax:
		*acc = acc.Max(row[a.col].value(a.typ))
	}
}

// Integer sums clamp at the bounds of their type instead of failing.
func saturatingAdd(a, b int64) int64 {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt64
	case b < 0 && s > a:
		return math.MinInt64
	}
	return s
}

func saturatingAddUint(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return s
}

type groupBucket struct {
	key  compositeKey
	accs []Value
}

// groupIndex maps an affinity-normalized group key to aggregator buckets.
type groupIndex struct {
	columnsDef string
	aggrDef    string
	keyCols    []keyColumn
	keyTypes   []Tag
	aggrs      []aggregator
	cmp        keyComparator
	buckets    []*groupBucket
	outColumns []Column
}

func newGroupIndex(src []Column, columnsDef, aggrDef string) (*groupIndex, error) {
	if strings.TrimSpace(columnsDef) == "" {
		return nil, schemaErrorf(columnsDef, "Index definitions could not be empty")
	}
	if strings.TrimSpace(aggrDef) == "" {
		return nil, schemaErrorf(aggrDef, "Aggregator definitions could not be empty")
	}
	keyCols, err := parseKeyDef(columnsDef, src, "Could not find column '%s'")
	if err != nil {
		return nil, err
	}

	g := &groupIndex{
		columnsDef: columnsDef,
		aggrDef:    aggrDef,
		keyCols:    keyCols,
		cmp:        newKeyComparator(keyCols),
	}
	for _, kc := range keyCols {
		g.keyTypes = append(g.keyTypes, src[kc.col].Type)
		g.outColumns = append(g.outColumns, src[kc.col])
	}
	for _, item := range splitDef(aggrDef) {
		a, col, err := parseAggregator(item, src)
		if err != nil {
			return nil, err
		}
		g.aggrs = append(g.aggrs, a)
		g.outColumns = append(g.outColumns, col)
	}
	return g, nil
}

// parseAggregator parses "COUNT" or "FUNC(column)".
func parseAggregator(item string, src []Column) (aggregator, Column, error) {
	fn, rest, _ := strings.Cut(item, "(")
	fn = strings.ToUpper(strings.TrimSpace(fn))
	name, _, _ := strings.Cut(rest, ")")
	name = strings.TrimSpace(name)

	kind, ok := aggrNames[fn]
	switch {
	case !ok:
		return aggregator{}, Column{}, schemaErrorf(item, "Unknown aggregator function '%s'", fn)
	case kind == aggrCount:
		return aggregator{kind: aggrCount, typ: TagUnsignedInteger},
			Column{Name: "COUNT", Type: TagUnsignedInteger}, nil
	case name == "":
		return aggregator{}, Column{}, schemaErrorf(item, "Aggregator function '%s' must be provided with column name", fn)
	}

	col := columnIndex(src, name)
	if col < 0 {
		return aggregator{}, Column{}, schemaErrorf(item, "Could not find column '%s'", name)
	}
	typ := src[col].Type
	if typ == TagString {
		return aggregator{}, Column{}, schemaErrorf(item,
			"Column '%s' could not be used with SUM/MIN/MAX aggregators: its type is STRING", name)
	}
	return aggregator{kind: kind, col: col, typ: typ},
		Column{Name: fmt.Sprintf("%s(%s)", fn, name), Type: typ}, nil
}

// update folds one source row into its group.
func (g *groupIndex) update(row []cell) {
	k := rowKey(g.keyCols, row)
	i := sort.Search(len(g.buckets), func(i int) bool {
		return g.cmp.compare(&g.buckets[i].key, &k) >= 0
	})
	var b *groupBucket
	if i < len(g.buckets) && g.cmp.compare(&g.buckets[i].key, &k) == 0 {
		b = g.buckets[i]
	} else {
		b = &groupBucket{key: k, accs: make([]Value, len(g.aggrs))}
		for j, a := range g.aggrs {
			b.accs[j] = a.initial()
		}
		g.buckets = append(g.buckets, nil)
		copy(g.buckets[i+1:], g.buckets[i:])
		g.buckets[i] = b
	}
	for j, a := range g.aggrs {
		a.update(&b.accs[j], row)
	}
}

func (g *groupIndex) rowCells(b *groupBucket) []cell {
	row := make([]cell, 0, len(g.outColumns))
	for i, t := range g.keyTypes {
		row = append(row, cellOfKeyItem(b.key.items[i], t))
	}
	for _, acc := range b.accs {
		row = append(row, cellOf(acc))
	}
	return row
}

// materialize writes one row per group into dst in key order, reusing the
// rows dst already has.
func (g *groupIndex) materialize(dst *Table) {
	for i, b := range g.buckets {
		row := g.rowCells(b)
		if i < dst.height {
			dst.replaceCells(i, row)
		} else {
			dst.appendCells(row)
		}
	}
	for dst.height > len(g.buckets) {
		dst.deleteRow(dst.height - 1)
	}
}

// Group groups the rows by columnsDef ("col,-col") and computes the
// aggregators in aggrDef ("COUNT,SUM(col),MIN(col),MAX(col)"). The result has
// the group columns followed by one column per aggregator, with rows sorted
// by group key.
func (t *Table) Group(columnsDef, aggrDef string) (*Table, error) {
	start := time.Now()
	g, err := newGroupIndex(t.columns, columnsDef, aggrDef)
	if err != nil {
		t.opts.metricsCollector.RecordGroup(0, time.Since(start), err)
		t.log.LogGroup(columnsDef, aggrDef, 0, err)
		return nil, err
	}
	for pos := 0; pos < t.height; pos++ {
		g.update(t.row(pos))
	}
	out := newTable(g.outColumns, t.opts)
	g.materialize(out)
	t.opts.metricsCollector.RecordGroup(len(g.buckets), time.Since(start), nil)
	t.log.LogGroup(columnsDef, aggrDef, len(g.buckets), nil)
	return out, nil
}

// GroupedTableBuilder groups rows fed one at a time, without a backing
// table. Rows are validated against a reference schema.
type GroupedTableBuilder struct {
	schema *Table
	group  *groupIndex
	result *Table
	opts   options
}

// NewGroupedTableBuilder creates a builder for rows of tableDef grouped by
// columnsDef with the aggregators in aggrDef.
func NewGroupedTableBuilder(tableDef, columnsDef, aggrDef string, opts ...Option) (*GroupedTableBuilder, error) {
	o := applyOptions(opts)
	schema, err := parseTableDef(tableDef)
	if err != nil {
		o.logger.LogGroup(columnsDef, aggrDef, 0, err)
		return nil, err
	}
	g, err := newGroupIndex(schema, columnsDef, aggrDef)
	if err != nil {
		o.logger.LogGroup(columnsDef, aggrDef, 0, err)
		return nil, err
	}
	return &GroupedTableBuilder{
		schema: newTable(schema, o),
		group:  g,
		result: newTable(g.outColumns, o),
		opts:   o,
	}, nil
}

// InsertRow validates values against the reference schema and folds them
// into their group. Missing trailing values take the column defaults.
func (b *GroupedTableBuilder) InsertRow(values ...Value) error {
	if err := b.schema.Validate(values...); err != nil {
		return err
	}
	row, err := b.schema.buildRow(values)
	if err != nil {
		return err
	}
	b.group.update(row)
	return nil
}

// Result refreshes and returns the grouped table. The same table is returned
// on every call; its rows are rewritten in key order.
func (b *GroupedTableBuilder) Result() *Table {
	start := time.Now()
	b.group.materialize(b.result)
	b.opts.metricsCollector.RecordGroup(len(b.group.buckets), time.Since(start), nil)
	b.opts.logger.LogGroup(b.group.columnsDef, b.group.aggrDef, len(b.group.buckets), nil)
	return b.result
}

// Len returns the number of groups seen so far.
func (b *GroupedTableBuilder) Len() int { return len(b.group.buckets) }

// Columns returns the reference schema.
func (b *GroupedTableBuilder) Columns() []Column { return b.schema.Columns() }
