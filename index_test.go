package nkit

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nkit/testutil"
)

// requireIndexConsistent checks that ix holds every table row exactly once,
// in key order, under the key of the row's current cells.
func requireIndexConsistent(t *testing.T, ix *Index) {
	t.Helper()
	tbl := ix.Table()

	var positions []int
	for pos := range ix.All() {
		positions = append(positions, pos)
	}
	require.Len(t, positions, tbl.Height())

	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	for i, pos := range sorted {
		require.Equal(t, i, pos, "row %d missing or duplicated", i)
	}

	for i := 1; i < len(positions); i++ {
		prev := rowKey(ix.columns, tbl.row(positions[i-1]))
		cur := rowKey(ix.columns, tbl.row(positions[i]))
		require.LessOrEqual(t, ix.cmp.compare(&prev, &cur), 0, "rows %d and %d out of order", positions[i-1], positions[i])
	}

	for pos := range tbl.Height() {
		key := make([]Value, len(ix.columns))
		for i, kc := range ix.columns {
			key[i] = tbl.CellValue(pos, kc.col)
		}
		require.Contains(t, ix.GetEqual(key...).BucketRows(), pos)
	}
}

func collect(it *Iterator) []int {
	var out []int
	for pos := range it.All() {
		out = append(out, pos)
	}
	return out
}

func TestIndexLookups(t *testing.T) {
	tbl := newPeopleTable(t)
	ix, err := tbl.CreateIndex("age")
	require.NoError(t, err)
	requireIndexConsistent(t, ix)

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"age"}, ix.Columns())
	assert.Equal(t, "age", ix.Definition())
	assert.Equal(t, []int{1, 0, 2}, collect(ix.Begin()))

	tests := []struct {
		name string
		it   *Iterator
		want []int
	}{
		{name: "equal", it: ix.GetEqual(Int(31)), want: []int{0, 2}},
		{name: "equal missing", it: ix.GetEqual(Int(30))},
		{name: "equal coerces string", it: ix.GetEqual(String("25")), want: []int{1, 0, 2}},
		{name: "equal coerces float", it: ix.GetEqual(Float(31.9)), want: []int{0, 2}},
		{name: "lower bound between keys", it: ix.GetLower(Int(26)), want: []int{0, 2}},
		{name: "lower bound on key", it: ix.GetLower(Int(25)), want: []int{1, 0, 2}},
		{name: "upper bound on key", it: ix.GetGreater(Int(25)), want: []int{0, 2}},
		{name: "upper bound past end", it: ix.GetGreater(Int(31))},
		{name: "lower or equal hit", it: ix.GetLowerOrEqual(Int(31)), want: []int{0, 2}},
		{name: "greater or equal miss", it: ix.GetGreaterOrEqual(Int(26)), want: []int{0, 2}},
		{name: "too few values", it: ix.GetEqual()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tt.it))
		})
	}
}

func TestIteratorAccessors(t *testing.T) {
	tbl := newPeopleTable(t)
	ix, err := tbl.CreateIndex("age,name")
	require.NoError(t, err)

	it := ix.GetEqual(Int(31), String("cid"))
	require.True(t, it.Valid())
	assert.Equal(t, 2, it.Row())
	assert.Equal(t, []int{2}, it.BucketRows())
	assert.Equal(t, "cid", it.Value(0).String())
	assert.Len(t, it.Values(), 4)

	it.Next()
	assert.False(t, it.Valid())
	assert.Equal(t, -1, it.Row())
	assert.True(t, it.Value(0).IsNone())
	assert.Nil(t, it.Values())
	assert.Nil(t, it.BucketRows())
	it.Next()
	assert.False(t, it.Valid())

	extra := ix.GetEqual(Int(25), String("bob"), String("ignored"))
	assert.Equal(t, 1, extra.Row())
}

func TestIndexDescendingColumns(t *testing.T) {
	tbl := newPeopleTable(t)
	ix, err := tbl.CreateIndex("-age, name")
	require.NoError(t, err)
	requireIndexConsistent(t, ix)

	assert.Equal(t, []string{"-age", "name"}, ix.Columns())
	assert.Equal(t, []int{0, 2, 1}, collect(ix.Begin()))
	assert.Equal(t, []int{1}, collect(ix.GetGreater(Int(31), String("cid"))))
}

func TestIndexAffinities(t *testing.T) {
	tbl, err := NewTable("d:DATE_TIME,b:BOOL,f:FLOAT,u:UNSIGNED_INTEGER")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(DateTime(2024, 1, 2, 0, 0, 0, 0), Bool(true), Float(-1.5), UInt64(1<<63)))
	require.NoError(t, tbl.AppendRow(DateTime(2023, 5, 1, 0, 0, 0, 0), Bool(false), Float(2.25), UInt64(1)))
	require.NoError(t, tbl.AppendRow(DateTime(2024, 1, 1, 0, 0, 0, 0), Bool(true), Float(-3), UInt64(7)))

	tests := []struct {
		def  string
		want []int
	}{
		{def: "d", want: []int{1, 2, 0}},
		{def: "b,-d", want: []int{1, 0, 2}},
		{def: "f", want: []int{2, 0, 1}},
		{def: "u", want: []int{1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			ix, err := tbl.CreateIndex(tt.def)
			require.NoError(t, err)
			requireIndexConsistent(t, ix)
			assert.Equal(t, tt.want, collect(ix.Begin()))
		})
	}
}

func TestIndexFollowsMutations(t *testing.T) {
	tbl := newPeopleTable(t)
	byName, err := tbl.CreateIndex("name")
	require.NoError(t, err)
	byAge, err := tbl.CreateIndex("age,-score")
	require.NoError(t, err)

	check := func() {
		t.Helper()
		requireIndexConsistent(t, byName)
		requireIndexConsistent(t, byAge)
	}

	require.NoError(t, tbl.AppendRow(String("dan"), Int(25)))
	check()

	require.NoError(t, tbl.InsertRow(0, String("abe"), Int(40)))
	check()
	assert.Equal(t, 2, byName.GetEqual(String("bob")).Row())

	require.NoError(t, tbl.SetRow(2, String("bo"), Int(41)))
	check()
	assert.False(t, byName.GetEqual(String("bob")).Valid())

	require.NoError(t, tbl.SetCellValue(1, 1, Int(1)))
	check()
	assert.Equal(t, 1, byAge.Begin().Row())

	require.NoError(t, tbl.SetCellValue(1, 3, Bool(false)))
	check()

	require.NoError(t, tbl.DeleteRow(0))
	check()
	assert.Equal(t, 0, byName.GetEqual(String("ann")).Row())

	require.NoError(t, tbl.DeleteRows(0, 2))
	check()
	assert.Equal(t, 2, tbl.Height())
}

func TestIndexRandomMutations(t *testing.T) {
	rng := testutil.NewRNG(7)
	tbl, err := NewTable("k,n:INTEGER")
	require.NoError(t, err)
	ix, err := tbl.CreateIndex("k,-n")
	require.NoError(t, err)

	keys := rng.Keys(400, 12)
	for i, k := range keys {
		values := []Value{String(k), Int(rng.Int63n(5))}
		switch op := rng.Intn(6); {
		case op == 0 && tbl.Height() > 0:
			require.NoError(t, tbl.DeleteRow(rng.Intn(tbl.Height())))
		case op == 1:
			require.NoError(t, tbl.InsertRow(rng.Intn(tbl.Height()+1), values...))
		case op == 2 && tbl.Height() > 0:
			require.NoError(t, tbl.SetCellValue(rng.Intn(tbl.Height()), 1, values[1]))
		case op == 3 && tbl.Height() > 0:
			require.NoError(t, tbl.SetRow(rng.Intn(tbl.Height()), values...))
		default:
			require.NoError(t, tbl.AppendRow(values...))
		}
		if i%50 == 0 {
			requireIndexConsistent(t, ix)
		}
	}
	requireIndexConsistent(t, ix)
}

func TestDeleteIndexDetaches(t *testing.T) {
	tbl := newPeopleTable(t)
	ix, err := tbl.CreateIndex("name")
	require.NoError(t, err)
	require.NoError(t, ix.Err())
	require.Equal(t, []*Index{ix}, tbl.Indices())

	assert.True(t, tbl.DeleteIndex(ix))
	assert.False(t, tbl.DeleteIndex(ix))
	assert.False(t, ix.Attached())
	assert.ErrorIs(t, ix.Err(), ErrDetached)
	assert.Empty(t, tbl.Indices())

	require.NoError(t, tbl.AppendRow(String("eve")))
	assert.False(t, ix.Begin().Valid())
	assert.False(t, ix.GetEqual(String("ann")).Valid())
	assert.False(t, ix.GetLower(String("a")).Valid())
	assert.Equal(t, uint64(0), ix.Bitmap(String("ann")).GetCardinality())
	assert.Empty(t, collect(ix.Begin()))
}

func TestIndexBitmap(t *testing.T) {
	tbl := newPeopleTable(t)
	ix, err := tbl.CreateIndex("active")
	require.NoError(t, err)

	bm := ix.Bitmap(Bool(true))
	assert.Equal(t, []uint32{0, 2}, bm.ToArray())
	assert.True(t, ix.Bitmap(Int(7)).IsEmpty())
}

func TestCreateIndexErrors(t *testing.T) {
	tbl := newPeopleTable(t)

	_, err := tbl.CreateIndex(" ")
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "Index definition could not be empty")

	_, err = tbl.CreateIndex("name,missing")
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "Could not find column with name 'missing'")
	assert.Empty(t, tbl.Indices())
}

func TestIndexKeyCapacity(t *testing.T) {
	names := make([]string, MaxKeySize+1)
	for i := range names {
		names[i] = fmt.Sprintf("c%d:INTEGER", i)
	}
	tbl, err := NewTable(strings.Join(names, ","))
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(Int(1)))

	cols := make([]string, MaxKeySize+1)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%d", i)
	}

	ix, err := tbl.CreateIndex(strings.Join(cols[:MaxKeySize], ","))
	require.NoError(t, err)
	requireIndexConsistent(t, ix)

	_, err = tbl.CreateIndex(strings.Join(cols, ","))
	require.ErrorIs(t, err, ErrResourceLimit)
	var rle *ResourceLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, MaxKeySize, rle.Limit)
	assert.Equal(t, MaxKeySize+1, rle.Requested)
}

func TestCreateIndices(t *testing.T) {
	rng := testutil.NewRNG(3)
	tbl, err := NewTable("k,n:INTEGER,f:FLOAT", WithIndexBuildConcurrency(2))
	require.NoError(t, err)
	for _, k := range rng.Keys(1000, 40) {
		require.NoError(t, tbl.AppendRow(String(k), Int(rng.Int63n(100)), Float(rng.Float64())))
	}

	indices, err := tbl.CreateIndices(context.Background(), "k", "n,-k", "f", "-n")
	require.NoError(t, err)
	require.Len(t, indices, 4)
	assert.Equal(t, indices, tbl.Indices())
	for _, ix := range indices {
		requireIndexConsistent(t, ix)
	}

	require.NoError(t, tbl.DeleteRows(0, 10, 999))
	for _, ix := range indices {
		requireIndexConsistent(t, ix)
	}
}

func TestCreateIndicesFailures(t *testing.T) {
	tbl := newPeopleTable(t)

	_, err := tbl.CreateIndices(context.Background(), "name", "nope")
	require.ErrorIs(t, err, ErrSchema)
	assert.Empty(t, tbl.Indices())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tbl.CreateIndices(ctx, "name", "age")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tbl.Indices())
}
