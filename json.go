package nkit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/nkit/codec"
)

// MarshalJSON implements json.Marshaler.
//
// None and Undefined encode as null, DateTime as a quoted string in the
// default layout, Dicts keep insertion order and a Table encodes as an array
// of row objects keyed by column name.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.tag {
	case TagUndefined, TagNone:
		buf.WriteString("null")
	case TagBool:
		buf.WriteString(v.ConstString())
	case TagInteger, TagUnsignedInteger:
		buf.WriteString(v.String())
	case TagFloat:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	case TagDateTime, TagString, TagMongoOID:
		return writeJSONString(buf, textOf(v))
	case TagList:
		buf.WriteByte('[')
		for i, item := range v.Elements() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case TagDict:
		buf.WriteByte('{')
		first := true
		for k, item := range v.Entries() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case TagTable:
		return writeTableJSON(buf, v.table())
	default:
		return fmt.Errorf("nkit: cannot encode tag %s", v.tag)
	}
	return nil
}

func writeTableJSON(buf *bytes.Buffer, t *Table) error {
	buf.WriteByte('[')
	for pos, row := range t.Rows() {
		if pos > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, col := range t.columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, col.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, row[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTableJSON(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. See FromJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	x, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

// FromJSON decodes a JSON document. null becomes None, integral numbers
// become Integer (UnsignedInteger above the int64 range), other numbers
// Float, arrays List and objects Dict with keys in sorted order. Anything but
// whitespace after the document is an error.
func FromJSON(data []byte) (Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return Undefined(), err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Undefined(), fmt.Errorf("nkit: trailing data after JSON value at offset %d", dec.InputOffset())
	}
	return fromJSONAny(x), nil
}

func fromJSONAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return None()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case gojson.Number:
		return fromJSONNumber(string(t))
	case float64:
		return Float(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromJSONAny(item)
		}
		return List(items...)
	case map[string]any:
		d := Dict()
		for _, k := range sortedKeys(t) {
			d.Set(k, fromJSONAny(t[k]))
		}
		return d
	default:
		return Undefined()
	}
}

func fromJSONNumber(s string) Value {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i)
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return UInt64(u)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Undefined()
	}
	return Float(f)
}

// Encode serializes v with c (codec.Default when nil).
func Encode(c codec.Codec, v Value) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.Marshal(v)
}

// Decode deserializes data with c (codec.Default when nil).
func Decode(c codec.Codec, data []byte) (Value, error) {
	if c == nil {
		c = codec.Default
	}
	var v Value
	if err := c.Unmarshal(data, &v); err != nil {
		return Undefined(), err
	}
	return v, nil
}
