package nkit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a dynamically typed tagged value.
//
// Scalars are stored inline. String, MongoOID, List, Dict and Table values hold
// a pointer to a shared payload: copying such a Value creates an alias and a
// mutation through one alias is visible through all others. Use Clone to get
// an independent copy.
//
// The zero Value is Undefined. Values are not safe for concurrent mutation.
type Value struct {
	tag Tag
	n   uint64
	ref any
}

type stringData struct {
	s string
}

type listData struct {
	items []Value
}

// Undefined returns the Undefined value.
func Undefined() Value { return Value{} }

// None returns the None value.
func None() Value { return Value{tag: TagNone} }

// Bool returns a Bool value.
func Bool(b bool) Value {
	if b {
		return Value{tag: TagBool, n: 1}
	}
	return Value{tag: TagBool}
}

// Int returns an Integer value.
func Int(i int64) Value { return Value{tag: TagInteger, n: uint64(i)} }

// UInt64 returns an UnsignedInteger value.
func UInt64(u uint64) Value { return Value{tag: TagUnsignedInteger, n: u} }

// Float returns a Float value.
func Float(f float64) Value { return Value{tag: TagFloat, n: floatBits(f)} }

// String returns a String value backed by a new shared buffer.
func String(s string) Value { return Value{tag: TagString, ref: &stringData{s: s}} }

// List returns a List value holding items.
func List(items ...Value) Value {
	return Value{tag: TagList, ref: &listData{items: append([]Value(nil), items...)}}
}

// TableValue wraps t. A nil table yields Undefined.
func TableValue(t *Table) Value {
	if t == nil {
		return Value{}
	}
	return Value{tag: TagTable, ref: t}
}

// Of converts a Go value. Plain signed and unsigned Go integers both produce
// Integer; use UInt64 for UnsignedInteger. Unsupported types produce Undefined.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return None()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	case time.Time:
		return DateTimeFromTime(x)
	case []Value:
		return List(x...)
	case []any:
		l := List()
		for _, item := range x {
			l.Append(Of(item))
		}
		return l
	case map[string]any:
		d := Dict()
		for _, k := range sortedKeys(x) {
			d.Set(k, Of(x[k]))
		}
		return d
	case *Table:
		return TableValue(x)
	default:
		return Undefined()
	}
}

// Tag returns the value's tag.
func (v Value) Tag() Tag { return v.tag }

func (v Value) IsUndefined() bool { return v.tag == TagUndefined }
func (v Value) IsNone() bool      { return v.tag == TagNone }
func (v Value) IsBool() bool      { return v.tag == TagBool }
func (v Value) IsInt() bool       { return v.tag == TagInteger }
func (v Value) IsUint() bool      { return v.tag == TagUnsignedInteger }
func (v Value) IsFloat() bool     { return v.tag == TagFloat }
func (v Value) IsDateTime() bool  { return v.tag == TagDateTime }
func (v Value) IsString() bool    { return v.tag == TagString }
func (v Value) IsList() bool      { return v.tag == TagList }
func (v Value) IsDict() bool      { return v.tag == TagDict }
func (v Value) IsOID() bool       { return v.tag == TagMongoOID }
func (v Value) IsTable() bool     { return v.tag == TagTable }

// IsNumber reports whether v is Integer, UnsignedInteger or Float.
func (v Value) IsNumber() bool {
	return v.tag == TagInteger || v.tag == TagUnsignedInteger || v.tag == TagFloat
}

// IsSameAs reports whether v and o are aliases of the same shared payload,
// or equal scalars of the same tag.
func (v Value) IsSameAs(o Value) bool {
	if v.tag != o.tag {
		return false
	}
	if v.tag.IsShared() {
		return v.ref == o.ref
	}
	return v.n == o.n
}

// Int64 coerces v to a signed integer.
func (v Value) Int64() int64 { return dispatch.toInt[v.tag](v) }

// Uint64 coerces v to an unsigned integer.
func (v Value) Uint64() uint64 { return dispatch.toUint[v.tag](v) }

// Float64 coerces v to a float.
func (v Value) Float64() float64 { return dispatch.toFloat[v.tag](v) }

// Bool coerces v to a boolean.
func (v Value) Bool() bool { return dispatch.toBool[v.tag](v) }

// String coerces v to a string using the default layout of its tag.
// Containers and tables render as the empty string; use MarshalJSON for them.
func (v Value) String() string { return dispatch.toString[v.tag](v, "") }

// Format coerces v to a string. layout is a time layout for DateTime and a
// fmt verb (e.g. "%.2f") for Float; other tags ignore it.
func (v Value) Format(layout string) string { return dispatch.toString[v.tag](v, layout) }

// ConstString returns the string held by String and MongoOID values and
// "true"/"false" for Bool. Other tags yield "".
func (v Value) ConstString() string { return dispatch.constString[v.tag](v) }

// Size returns the character count of a String, the element count of a List
// or Dict, the row count of a Table, 1 for other scalars and 0 for None and
// Undefined.
func (v Value) Size() int { return dispatch.size[v.tag](v) }

// IsEmpty reports whether v holds nothing. A false Bool or a zero number is
// not empty.
func (v Value) IsEmpty() bool { return dispatch.isEmpty[v.tag](v) }

// Clear empties containers in place and resets scalars to Undefined.
func (v *Value) Clear() { dispatch.clear[v.tag](v) }

// Clone returns a deep copy of v. Scalars are returned as is.
func (v Value) Clone() Value { return dispatch.clone[v.tag](v) }

// ConvertToDateTime replaces v with a DateTime. Integer and String values are
// read as Unix seconds; DateTime values are kept and every other tag becomes
// the epoch. Timestamps outside the DateTime range leave v Undefined.
func (v *Value) ConvertToDateTime() {
	switch v.tag {
	case TagDateTime:
	case TagInteger, TagString:
		*v = DateTimeFromTimestamp(int64(v.Uint64()))
	default:
		*v = DateTimeFromTimestamp(0)
	}
}

// ConvertToUInt64 replaces v with its UnsignedInteger coercion.
func (v *Value) ConvertToUInt64() {
	if v.tag != TagUnsignedInteger {
		*v = UInt64(v.Uint64())
	}
}

// ConvertToMongoOID replaces v with a MongoOID. A non-negative Integer is
// written in decimal and padded with 'f' to the OID length. MongoOID values
// are kept; anything else becomes the default OID.
func (v *Value) ConvertToMongoOID() {
	switch v.tag {
	case TagMongoOID:
		return
	case TagInteger:
		if i := v.Int64(); i >= 0 {
			s := strconv.FormatInt(i, 10)
			*v = MongoOID(s + strings.Repeat("f", oidLength-len(s)))
			return
		}
	}
	*v = NewMongoOID()
}

// GoString implements fmt.GoStringer.
func (v Value) GoString() string {
	switch v.tag {
	case TagString, TagMongoOID:
		return fmt.Sprintf("%s(%q)", v.tag, v.ConstString())
	case TagList, TagDict, TagTable:
		b, err := v.MarshalJSON()
		if err != nil {
			return v.tag.String()
		}
		return fmt.Sprintf("%s(%s)", v.tag, b)
	default:
		return fmt.Sprintf("%s(%s)", v.tag, v.String())
	}
}

// DefaultValue returns the default value of t (zero, empty or false).
func DefaultValue(t Tag) Value { return sentinel(dispatch.defaults, t) }

// MinValue returns the minimum sentinel of t.
func MinValue(t Tag) Value { return sentinel(dispatch.mins, t) }

// MaxValue returns the maximum sentinel of t.
func MaxValue(t Tag) Value { return sentinel(dispatch.maxes, t) }

func sentinel(table [tagCount]Value, t Tag) Value {
	if t >= tagCount {
		return Undefined()
	}
	return table[t].Clone()
}
