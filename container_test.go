package nkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOperations(t *testing.T) {
	l := List()
	require.True(t, l.Append(Int(2), Int(3)))
	require.True(t, l.Prepend(Int(1)))
	require.True(t, l.Insert(3, Int(4)))
	assert.False(t, l.Insert(9, Int(0)))
	assert.Equal(t, "1,2,3,4", l.Join(","))

	assert.True(t, l.Front().Equal(Int(1)))
	assert.True(t, l.Back().Equal(Int(4)))
	assert.True(t, l.At(10).IsNone())
	assert.Equal(t, 2, l.IndexOf(UInt64(3)))
	assert.Equal(t, -1, l.IndexOf(Int(9)))

	require.True(t, l.SetAt(0, String("x")))
	require.True(t, l.Erase(1))
	assert.Equal(t, "x,3,4", l.Join(","))

	assert.True(t, l.PopBack().Equal(Int(4)))
	assert.True(t, l.PopFront().Equal(String("x")))
	assert.Equal(t, 1, l.Size())

	var seen []int64
	for _, item := range l.Elements() {
		seen = append(seen, item.Int64())
	}
	assert.Equal(t, []int64{3}, seen)

	assert.False(t, Int(1).Append(Int(2)))
	assert.True(t, List().PopBack().IsNone())
}

func TestListEraseRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		ok       bool
		want     string
	}{
		{name: "middle", from: 1, to: 3, ok: true, want: "0,3,4"},
		{name: "to clamped", from: 2, to: 99, ok: true, want: "0,1"},
		{name: "from past end", from: 5, to: 9, ok: true, want: "0,1,2,3,4"},
		{name: "empty range", from: 2, to: 2, ok: true, want: "0,1,2,3,4"},
		{name: "negative from", from: -1, to: 2, want: "0,1,2,3,4"},
		{name: "reversed", from: 3, to: 1, want: "0,1,2,3,4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := List(Int(0), Int(1), Int(2), Int(3), Int(4))
			assert.Equal(t, tt.ok, l.EraseRange(tt.from, tt.to))
			assert.Equal(t, tt.want, l.Join(","))
		})
	}

	assert.False(t, Int(1).EraseRange(0, 1))
}

func TestListEraseSet(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		ok        bool
		want      string
	}{
		{name: "unordered", positions: []int{3, 0}, ok: true, want: "1,2,4"},
		{name: "duplicates", positions: []int{1, 1, 4}, ok: true, want: "0,2,3"},
		{name: "none", ok: true, want: "0,1,2,3,4"},
		{name: "out of range", positions: []int{0, 5}, want: "0,1,2,3,4"},
		{name: "negative", positions: []int{-1}, want: "0,1,2,3,4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := List(Int(0), Int(1), Int(2), Int(3), Int(4))
			assert.Equal(t, tt.ok, l.EraseSet(tt.positions...))
			assert.Equal(t, tt.want, l.Join(","))
		})
	}
}

func TestListJoinAffixed(t *testing.T) {
	tests := []struct {
		name                 string
		l                    Value
		sep, prefix, postfix string
		want                 string
	}{
		{name: "quoted", l: List(String("a"), Int(2)), sep: ", ", prefix: "'", postfix: "'", want: "'a', '2'"},
		{name: "prefix only", l: List(Int(1), Int(2)), sep: "&", prefix: "k=", want: "k=1&k=2"},
		{name: "single", l: List(Bool(true)), sep: ",", prefix: "[", postfix: "]", want: "[true]"},
		{name: "empty", l: List(), sep: ",", prefix: "[", postfix: "]", want: ""},
		{name: "not a list", l: Int(1), sep: ",", prefix: "[", postfix: "]", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.l.JoinAffixed(tt.sep, tt.prefix, tt.postfix))
		})
	}
}

func TestListItemsAreAliases(t *testing.T) {
	inner := List()
	outer := List(inner)
	items := outer.Items()
	items[0].Append(Int(1))
	assert.Equal(t, 1, inner.Size())

	items[0] = Int(5)
	assert.True(t, outer.At(0).IsList())
}

func TestDictOperations(t *testing.T) {
	d := Dict()
	d.Set("b", Int(1))
	d.Set("a", Int(2))
	d.Set("b", Int(3))
	assert.Equal(t, []string{"b", "a"}, d.Keys())
	assert.Equal(t, 2, d.Size())

	got, ok := d.Get("b")
	require.True(t, ok)
	assert.True(t, got.Equal(Int(3)))
	assert.True(t, d.Has("a"))

	_, ok = d.Get("missing")
	assert.False(t, ok)

	assert.True(t, d.Delete("b"))
	assert.False(t, d.Delete("b"))
	assert.Equal(t, []string{"a"}, d.Keys())

	var keys []string
	for k := range d.Entries() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a"}, keys)

	d.Clear()
	assert.True(t, d.IsDict())
	assert.True(t, d.IsEmpty())
	assert.False(t, List().Set("a", Int(1)))
}

func TestDictUpdate(t *testing.T) {
	tests := []struct {
		name string
		dst  Value
		src  Value
		ok   bool
		want string
	}{
		{
			name: "overwrite and append",
			dst:  DictOf(KV{"a", Int(1)}, KV{"b", Int(2)}),
			src:  DictOf(KV{"c", Int(3)}, KV{"a", String("x")}),
			ok:   true,
			want: `{"a":"x","b":2,"c":3}`,
		},
		{
			name: "nested dicts merge",
			dst:  DictOf(KV{"n", DictOf(KV{"x", Int(1)}, KV{"y", Int(2)})}),
			src:  DictOf(KV{"n", DictOf(KV{"y", Int(9)}, KV{"z", Int(3)})}),
			ok:   true,
			want: `{"n":{"x":1,"y":9,"z":3}}`,
		},
		{
			name: "dict replaces scalar",
			dst:  DictOf(KV{"n", Int(1)}),
			src:  DictOf(KV{"n", DictOf(KV{"z", Int(3)})}),
			ok:   true,
			want: `{"n":{"z":3}}`,
		},
		{
			name: "non dict source",
			dst:  DictOf(KV{"a", Int(1)}),
			src:  List(Int(1)),
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.dst.Update(tt.src))
			b, err := tt.dst.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}

	d := DictOf(KV{"a", Int(1)})
	assert.True(t, d.Update(d))
	assert.Equal(t, 1, d.Size())
	assert.False(t, List().Update(d))
}

func TestPath(t *testing.T) {
	doc := Of(map[string]any{
		"items": []any{
			map[string]any{"name": "first"},
			map[string]any{"name": "second"},
		},
		"count": 2,
	})

	got, ok := doc.Path("/items/1/name")
	require.True(t, ok)
	assert.Equal(t, "second", got.String())

	got, ok = doc.Path("count")
	require.True(t, ok)
	assert.True(t, got.Equal(Int(2)))

	root, ok := doc.Path("/")
	require.True(t, ok)
	assert.True(t, root.IsSameAs(doc))

	for _, p := range []string{"/items/2", "/items/x", "/missing", "/count/0"} {
		_, ok := doc.Path(p)
		assert.False(t, ok, p)
	}
}

func TestStringHelpers(t *testing.T) {
	s := String("prefix-body-suffix")
	assert.True(t, s.HasPrefix("prefix"))
	assert.True(t, s.HasSuffix("suffix"))
	assert.False(t, Int(1).HasPrefix(""))

	alias := s
	assert.True(t, alias.ReplaceAll("-", "_"))
	assert.Equal(t, "prefix_body_suffix", s.String())
	assert.False(t, s.ReplaceAll("", "x"))
}

func TestTableValue(t *testing.T) {
	tbl, err := NewTable("name,val:INTEGER")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(String("a"), Int(1)))

	v := TableValue(tbl)
	require.True(t, v.IsTable())
	assert.Same(t, tbl, v.Table())
	assert.Equal(t, 1, v.Size())
	assert.True(t, v.Bool())

	c := v.Clone()
	require.NoError(t, c.Table().AppendRow(String("b"), Int(2)))
	assert.Equal(t, 1, v.Size())
	assert.Equal(t, 2, c.Size())
	assert.False(t, v.Equal(c))

	assert.True(t, TableValue(nil).IsUndefined())
	assert.Nil(t, Int(1).Table())
}
