package nkit

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// dictData keeps keys in insertion order.
type dictData struct {
	keys []string
	m    map[string]Value
}

// KV is a Dict entry.
type KV struct {
	Key   string
	Value Value
}

// Dict returns an empty Dict value.
func Dict() Value {
	return Value{tag: TagDict, ref: &dictData{m: make(map[string]Value)}}
}

// DictOf returns a Dict holding pairs in order. Later duplicates overwrite
// earlier values and keep the first position.
func DictOf(pairs ...KV) Value {
	d := Dict()
	for _, p := range pairs {
		d.Set(p.Key, p.Value)
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func (v Value) dict() *dictData {
	if v.tag != TagDict {
		return nil
	}
	return v.ref.(*dictData)
}

// Set stores val under key in a Dict. It reports false for other tags.
func (v Value) Set(key string, val Value) bool {
	d := v.dict()
	if d == nil {
		return false
	}
	if _, ok := d.m[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.m[key] = val
	return true
}

// Update merges the entries of Dict o into v. Nested Dicts present on both
// sides are merged recursively; other values are overwritten by o's. It
// reports false when either side is not a Dict.
func (v Value) Update(o Value) bool {
	d, src := v.dict(), o.dict()
	if d == nil || src == nil {
		return false
	}
	if d == src {
		return true
	}
	for _, k := range src.keys {
		from := src.m[k]
		if to, ok := d.m[k]; ok && to.tag == TagDict && from.tag == TagDict {
			to.Update(from)
			continue
		}
		v.Set(k, from)
	}
	return true
}

// Get returns the value stored under key in a Dict.
func (v Value) Get(key string) (Value, bool) {
	d := v.dict()
	if d == nil {
		return Undefined(), false
	}
	val, ok := d.m[key]
	if !ok {
		return Undefined(), false
	}
	return val, true
}

// Has reports whether a Dict holds key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Delete removes key from a Dict.
func (v Value) Delete(key string) bool {
	d := v.dict()
	if d == nil {
		return false
	}
	if _, ok := d.m[key]; !ok {
		return false
	}
	delete(d.m, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the Dict keys in insertion order.
func (v Value) Keys() []string {
	d := v.dict()
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Entries iterates over Dict entries in insertion order.
func (v Value) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		d := v.dict()
		if d == nil {
			return
		}
		for _, k := range d.keys {
			if !yield(k, d.m[k]) {
				return
			}
		}
	}
}

// Path walks nested Lists and Dicts along a slash separated path such as
// "/items/0/name". Dict segments are keys, List segments are positions.
func (v Value) Path(path string) (Value, bool) {
	cur := v
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		switch cur.tag {
		case TagDict:
			next, ok := cur.Get(seg)
			if !ok {
				return Undefined(), false
			}
			cur = next
		case TagList:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= cur.Size() {
				return Undefined(), false
			}
			cur = cur.At(i)
		default:
			return Undefined(), false
		}
	}
	return cur, true
}

func (d *dispatchTables) registerDict() {
	t := TagDict
	for r := range tagCount {
		d.eq[t][r] = func(a, b Value) bool {
			db := b.dict()
			if db == nil {
				return false
			}
			da := a.dict()
			if len(da.m) != len(db.m) {
				return false
			}
			for k, va := range da.m {
				vb, ok := db.m[k]
				if !ok || !va.Equal(vb) {
					return false
				}
			}
			return true
		}
	}

	d.toBool[t] = func(v Value) bool { return len(v.dict().m) != 0 }
	d.size[t] = func(v Value) int { return len(v.dict().m) }
	d.isEmpty[t] = func(v Value) bool { return len(v.dict().m) == 0 }
	d.clear[t] = func(v *Value) {
		dd := v.dict()
		clear(dd.m)
		dd.keys = dd.keys[:0]
	}
	d.clone[t] = func(v Value) Value {
		src := v.dict()
		out := &dictData{keys: slices.Clone(src.keys), m: make(map[string]Value, len(src.m))}
		for k, val := range src.m {
			out.m[k] = val.Clone()
		}
		return Value{tag: TagDict, ref: out}
	}
	d.defaults[t] = Dict()
	d.mins[t] = Dict()
	d.maxes[t] = Dict()
}
