package nkit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsUndefined(t *testing.T) {
	var v Value
	assert.True(t, v.IsUndefined())
	assert.Equal(t, TagUndefined, v.Tag())
	assert.Equal(t, 0, v.Size())
	assert.True(t, v.IsEmpty())
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Tag
	}{
		{name: "nil", in: nil, want: TagNone},
		{name: "bool", in: true, want: TagBool},
		{name: "int", in: 5, want: TagInteger},
		{name: "uint stays integer", in: uint(5), want: TagInteger},
		{name: "uint64 stays integer", in: uint64(5), want: TagInteger},
		{name: "float", in: 1.5, want: TagFloat},
		{name: "string", in: "x", want: TagString},
		{name: "slice", in: []any{1, "a"}, want: TagList},
		{name: "map", in: map[string]any{"a": 1}, want: TagDict},
		{name: "unsupported", in: struct{}{}, want: TagUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.in).Tag())
		})
	}

	assert.Equal(t, TagUnsignedInteger, UInt64(5).Tag())
}

func TestCoercionGetters(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		i64   int64
		u64   uint64
		f64   float64
		str   string
		truth bool
	}{
		{name: "integer", v: Int(-3), i64: -3, u64: math.MaxUint64 - 2, f64: -3, str: "-3", truth: true},
		{name: "unsigned", v: UInt64(7), i64: 7, u64: 7, f64: 7, str: "7", truth: true},
		{name: "float", v: Float(2.75), i64: 2, u64: 2, f64: 2.75, str: "2.750000", truth: true},
		{name: "negative float", v: Float(-2.5), i64: -2, u64: 0, f64: -2.5, str: "-2.500000", truth: true},
		{name: "bool", v: Bool(true), i64: 1, u64: 1, f64: 1, str: "1", truth: true},
		{name: "numeric string", v: String(" 42abc"), i64: 42, u64: 42, f64: 42, str: " 42abc", truth: true},
		{name: "float string", v: String("1.5e2x"), i64: 1, u64: 1, f64: 150, str: "1.5e2x", truth: true},
		{name: "text string", v: String("abc"), i64: 0, u64: 0, f64: 0, str: "abc", truth: false},
		{name: "true string", v: String("TRUE"), str: "TRUE", truth: true},
		{name: "none", v: None()},
		{name: "undefined", v: Undefined()},
		{name: "list", v: List(Int(1)), truth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.i64, tt.v.Int64())
			assert.Equal(t, tt.u64, tt.v.Uint64())
			assert.InDelta(t, tt.f64, tt.v.Float64(), 1e-9)
			assert.Equal(t, tt.str, tt.v.String())
			assert.Equal(t, tt.truth, tt.v.Bool())
		})
	}
}

func TestFormatAndConstString(t *testing.T) {
	assert.Equal(t, "3.14", Float(3.14159).Format("%.2f"))
	assert.Equal(t, "true", Bool(true).ConstString())
	assert.Equal(t, "false", Bool(false).ConstString())
	assert.Equal(t, "abc", String("abc").ConstString())
	assert.Equal(t, "", Int(1).ConstString())
	assert.Equal(t, "", List(Int(1)).String())
}

func TestSizeAndEmpty(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		size  int
		empty bool
	}{
		{name: "undefined", v: Undefined(), size: 0, empty: true},
		{name: "none", v: None(), size: 0, empty: true},
		{name: "false is not empty", v: Bool(false), size: 1, empty: false},
		{name: "zero is not empty", v: Int(0), size: 1, empty: false},
		{name: "zero datetime", v: DefaultValue(TagDateTime), size: 1, empty: false},
		{name: "string counts characters", v: String("héllo"), size: 5, empty: false},
		{name: "empty string", v: String(""), size: 0, empty: true},
		{name: "list", v: List(Int(1), Int(2)), size: 2, empty: false},
		{name: "empty dict", v: Dict(), size: 0, empty: true},
		{name: "oid", v: NewMongoOID(), size: 24, empty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.v.Size())
			assert.Equal(t, tt.empty, tt.v.IsEmpty())
		})
	}
}

func TestAliasVersusClone(t *testing.T) {
	a := List(Int(1))
	b := a
	b.Append(String("x"))
	require.Equal(t, 2, a.Size())
	assert.True(t, a.At(1).Equal(String("x")))
	assert.True(t, a.IsSameAs(b))

	c := a.Clone()
	c.Append(String("y"))
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 3, c.Size())
	assert.False(t, a.IsSameAs(c))
}

func TestCloneIsDeep(t *testing.T) {
	inner := List(Int(1))
	d := DictOf(KV{Key: "l", Value: inner})

	c := d.Clone()
	got, ok := c.Get("l")
	require.True(t, ok)
	got.Append(Int(2))

	assert.Equal(t, 1, inner.Size())
	assert.Equal(t, 2, got.Size())
}

func TestStringAlias(t *testing.T) {
	s := String("ab")
	alias := s
	alias.AddAssign(String("cd"))
	assert.Equal(t, "abcd", s.String())

	sum := s.Add(String("!"))
	assert.Equal(t, "abcd!", sum.String())
	assert.Equal(t, "abcd", s.String())
}

func TestClear(t *testing.T) {
	i := Int(5)
	i.Clear()
	assert.True(t, i.IsUndefined())

	s := String("abc")
	alias := s
	s.Clear()
	assert.True(t, alias.IsString())
	assert.Equal(t, "", alias.String())

	l := List(Int(1), Int(2))
	l.Clear()
	assert.True(t, l.IsList())
	assert.Equal(t, 0, l.Size())

	oid := MongoOID("0123456789abcdef01234567")
	oid.Clear()
	assert.Equal(t, "0123456789abcdef01234567", oid.String())
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		tag      Tag
		def, min Value
		max      Value
	}{
		{tag: TagInteger, def: Int(0), min: Int(math.MinInt64), max: Int(math.MaxInt64)},
		{tag: TagUnsignedInteger, def: UInt64(0), min: UInt64(0), max: UInt64(math.MaxUint64)},
		{tag: TagFloat, def: Float(0), min: Float(float64(math.MinInt64)), max: Float(float64(math.MaxInt64))},
		{tag: TagBool, def: Bool(false), min: Bool(false), max: Bool(true)},
		{tag: TagString, def: String(""), min: String(""), max: String("")},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			assert.True(t, DefaultValue(tt.tag).Equal(tt.def))
			assert.True(t, MinValue(tt.tag).Equal(tt.min))
			assert.True(t, MaxValue(tt.tag).Equal(tt.max))
			assert.Equal(t, tt.tag, DefaultValue(tt.tag).Tag())
		})
	}

	a := DefaultValue(TagString)
	a.AddAssign(String("x"))
	assert.Equal(t, "", DefaultValue(TagString).String())
}

func TestParseTag(t *testing.T) {
	for _, name := range []string{"string", "INTEGER", "Unsigned_Integer", "float", "bool", "date_time"} {
		tag, ok := ParseTag(name)
		assert.True(t, ok, name)
		assert.True(t, tag.IsColumnType())
	}
	_, ok := ParseTag("LIST")
	assert.False(t, ok)
}

func TestMongoOID(t *testing.T) {
	v := MongoOID("0123456789ABCDEF01234567")
	require.True(t, v.IsOID())
	assert.Equal(t, "0123456789abcdef01234567", v.String())
	assert.True(t, MongoOID("xyz").IsUndefined())
	assert.True(t, MongoOID("0123456789abcdef0123456g").IsUndefined())
	assert.Equal(t, "ffffffffffffffffffffffff", NewMongoOID().String())
	assert.True(t, v.Equal(String("0123456789abcdef01234567")))
}

func TestConvertToDateTime(t *testing.T) {
	day := DateTime(2024, 6, 1, 12, 0, 0, 0)
	tests := []struct {
		name string
		v    Value
		want Value
	}{
		{name: "integer", v: Int(1700000000), want: DateTimeFromTimestamp(1700000000)},
		{name: "numeric string", v: String("86400"), want: DateTimeFromTimestamp(86400)},
		{name: "datetime kept", v: day, want: day},
		{name: "float", v: Float(1e9), want: DateTimeFromTimestamp(0)},
		{name: "none", v: None(), want: DateTimeFromTimestamp(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.ConvertToDateTime()
			require.True(t, v.IsDateTime())
			assert.True(t, tt.want.Equal(v), "%#v", v)
		})
	}
}

func TestConvertToUInt64(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want uint64
	}{
		{name: "integer", v: Int(7), want: 7},
		{name: "unsigned kept", v: UInt64(math.MaxUint64), want: math.MaxUint64},
		{name: "float", v: Float(2.9), want: 2},
		{name: "string", v: String("12"), want: 12},
		{name: "bool", v: Bool(true), want: 1},
		{name: "list", v: List(Int(1)), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.ConvertToUInt64()
			require.True(t, v.IsUint())
			assert.Equal(t, tt.want, v.Uint64())
		})
	}
}

func TestConvertToMongoOID(t *testing.T) {
	oid := MongoOID("0123456789abcdef01234567")
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "integer padded", v: Int(12345), want: "12345fffffffffffffffffff"},
		{name: "zero", v: Int(0), want: "0fffffffffffffffffffffff"},
		{name: "max int", v: Int(math.MaxInt64), want: "9223372036854775807fffff"},
		{name: "negative", v: Int(-1), want: "ffffffffffffffffffffffff"},
		{name: "oid kept", v: oid, want: "0123456789abcdef01234567"},
		{name: "string", v: String("abc"), want: "ffffffffffffffffffffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.ConvertToMongoOID()
			require.True(t, v.IsOID())
			assert.Equal(t, tt.want, v.String())
		})
	}
}
