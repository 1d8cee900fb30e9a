package nkit

import (
	"math"
	"strings"
	"unicode/utf8"
)

func (v Value) str() string {
	if sd, ok := v.ref.(*stringData); ok {
		return sd.s
	}
	return ""
}

// textOf returns the string a String or MongoOID holds, or the coerced string
// of any other tag.
func textOf(v Value) string {
	if v.tag == TagString || v.tag == TagMongoOID {
		return v.str()
	}
	return v.String()
}

func truncateRunes(s string, n uint64) string {
	count := uint64(utf8.RuneCountInString(s))
	if n >= count {
		return ""
	}
	keep := count - n
	i := 0
	for k := uint64(0); k < keep; k++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}

// maxRepeatLen bounds the length of a repeated String or List.
const maxRepeatLen = math.MaxInt32

// repeatCount reads b as the count of a String or List repeat of unit
// elements. Negative counts give 0. It fails when the count or the resulting
// length exceeds maxRepeatLen.
func repeatCount(b Value, unit int) (int, bool) {
	var n int64
	if b.tag == TagUnsignedInteger {
		u := b.Uint64()
		if u > maxRepeatLen {
			return 0, false
		}
		n = int64(u)
	} else {
		n = b.Int64()
	}
	if n <= 0 {
		return 0, true
	}
	if n > maxRepeatLen || unit > 0 && n > maxRepeatLen/int64(unit) {
		return 0, false
	}
	return int(n), true
}

func (d *dispatchTables) registerString() {
	for _, t := range []Tag{TagString, TagMongoOID} {
		eachCoercible(t, func(l, r Tag) {
			d.eq[l][r] = func(a, b Value) bool { return a.str() == textOf(b) }
			d.lt[l][r] = func(a, b Value) bool { return a.str() < textOf(b) }
		})
		d.toString[t] = func(v Value, _ string) string { return v.str() }
		d.constString[t] = func(v Value) string { return v.str() }
		d.toBool[t] = func(v Value) bool {
			s := v.str()
			return strings.EqualFold(strings.TrimSpace(s), "true") || stringToInt(s) != 0
		}
	}

	t := TagString
	eachCoercible(t, func(l, r Tag) {
		d.add[l][r] = func(a *Value, b Value) bool {
			sd := a.ref.(*stringData)
			sd.s += textOf(b)
			return true
		}
		d.sub[l][r] = func(a *Value, b Value) bool {
			sd := a.ref.(*stringData)
			sd.s = truncateRunes(sd.s, b.Uint64())
			return true
		}
		d.mul[l][r] = func(a *Value, b Value) bool {
			sd := a.ref.(*stringData)
			n, ok := repeatCount(b, len(sd.s))
			if !ok {
				return false
			}
			sd.s = strings.Repeat(sd.s, n)
			return true
		}
		d.div[l][r] = func(a *Value, b Value) bool {
			n := b.Uint64()
			if n == 0 {
				return false
			}
			sd := a.ref.(*stringData)
			count := uint64(utf8.RuneCountInString(sd.s))
			sd.s = truncateRunes(sd.s, count-count/n)
			return true
		}
		d.min[l][r] = func(a, b Value) Value {
			if s := textOf(b); s < a.str() {
				return String(s)
			}
			return a
		}
		d.max[l][r] = func(a, b Value) Value {
			if s := textOf(b); s > a.str() {
				return String(s)
			}
			return a
		}
	})
	d.toInt[t] = func(v Value) int64 { return stringToInt(v.str()) }
	d.toUint[t] = func(v Value) uint64 { return stringToUint(v.str()) }
	d.toFloat[t] = func(v Value) float64 { return stringToFloat(v.str()) }
	d.size[t] = func(v Value) int { return utf8.RuneCountInString(v.str()) }
	d.isEmpty[t] = func(v Value) bool { return v.str() == "" }
	d.clear[t] = func(v *Value) { v.ref.(*stringData).s = "" }
	d.clone[t] = func(v Value) Value { return String(v.str()) }
	d.defaults[t] = String("")
	d.mins[t] = String("")
	d.maxes[t] = String("")

	o := TagMongoOID
	d.size[o] = func(Value) int { return oidLength }
	d.isEmpty[o] = func(v Value) bool { return v.str() == "" }
	d.clear[o] = func(*Value) {}
	d.clone[o] = func(v Value) Value { return Value{tag: TagMongoOID, ref: &stringData{s: v.str()}} }
	d.defaults[o] = Value{tag: o, ref: &stringData{s: defaultOID}}
	d.mins[o] = Value{tag: o, ref: &stringData{s: strings.Repeat("0", oidLength)}}
	d.maxes[o] = Value{tag: o, ref: &stringData{s: defaultOID}}
}

// HasPrefix reports whether a String value starts with prefix.
func (v Value) HasPrefix(prefix string) bool {
	return v.tag == TagString && strings.HasPrefix(v.str(), prefix)
}

// HasSuffix reports whether a String value ends with suffix.
func (v Value) HasSuffix(suffix string) bool {
	return v.tag == TagString && strings.HasSuffix(v.str(), suffix)
}

// ReplaceAll replaces every occurrence of from in a String value, in place.
func (v Value) ReplaceAll(from, to string) bool {
	if v.tag != TagString || from == "" {
		return false
	}
	sd := v.ref.(*stringData)
	sd.s = strings.ReplaceAll(sd.s, from, to)
	return true
}
