package nkit

import (
	"iter"
	"slices"
	"strings"
)

func (v Value) list() *listData {
	if v.tag != TagList {
		return nil
	}
	return v.ref.(*listData)
}

// Append adds items to the end of a List. It reports false for other tags.
func (v Value) Append(items ...Value) bool {
	l := v.list()
	if l == nil {
		return false
	}
	l.items = append(l.items, items...)
	return true
}

// Prepend inserts item at the front of a List.
func (v Value) Prepend(item Value) bool { return v.Insert(0, item) }

// Insert places item at position i of a List, 0 <= i <= Size().
func (v Value) Insert(i int, item Value) bool {
	l := v.list()
	if l == nil || i < 0 || i > len(l.items) {
		return false
	}
	l.items = append(l.items, Value{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = item
	return true
}

// At returns the i-th List element, or None when out of range.
func (v Value) At(i int) Value {
	l := v.list()
	if l == nil || i < 0 || i >= len(l.items) {
		return None()
	}
	return l.items[i]
}

// SetAt replaces the i-th List element.
func (v Value) SetAt(i int, item Value) bool {
	l := v.list()
	if l == nil || i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = item
	return true
}

// Erase removes the i-th List element.
func (v Value) Erase(i int) bool {
	l := v.list()
	if l == nil || i < 0 || i >= len(l.items) {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// EraseRange removes the List elements in [from, to). A to beyond the end is
// clamped; a from at or beyond the end removes nothing.
func (v Value) EraseRange(from, to int) bool {
	l := v.list()
	if l == nil || from < 0 || to < from {
		return false
	}
	if from >= len(l.items) {
		return true
	}
	l.items = slices.Delete(l.items, from, min(to, len(l.items)))
	return true
}

// EraseSet removes the List elements at the given positions. Duplicates are
// ignored. Nothing is removed when any position is out of range.
func (v Value) EraseSet(positions ...int) bool {
	l := v.list()
	if l == nil {
		return false
	}
	ps := slices.Clone(positions)
	slices.Sort(ps)
	ps = slices.Compact(ps)
	if len(ps) > 0 && (ps[0] < 0 || ps[len(ps)-1] >= len(l.items)) {
		return false
	}
	for _, p := range slices.Backward(ps) {
		l.items = slices.Delete(l.items, p, p+1)
	}
	return true
}

// PopBack removes and returns the last List element, or None when empty.
func (v Value) PopBack() Value {
	l := v.list()
	if l == nil || len(l.items) == 0 {
		return None()
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last
}

// PopFront removes and returns the first List element, or None when empty.
func (v Value) PopFront() Value {
	l := v.list()
	if l == nil || len(l.items) == 0 {
		return None()
	}
	first := l.items[0]
	l.items = l.items[1:]
	return first
}

func (v Value) Front() Value { return v.At(0) }
func (v Value) Back() Value  { return v.At(v.Size() - 1) }

// Items returns a copy of the List elements. The elements themselves are
// aliases.
func (v Value) Items() []Value {
	l := v.list()
	if l == nil {
		return nil
	}
	return append([]Value(nil), l.items...)
}

// Elements iterates over List elements by position.
func (v Value) Elements() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		l := v.list()
		if l == nil {
			return
		}
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Extend appends the elements of another List, or o itself when o is not a
// List.
func (v Value) Extend(o Value) bool {
	l := v.list()
	if l == nil {
		return false
	}
	if src := o.list(); src != nil {
		l.items = append(l.items, src.items...)
		return true
	}
	l.items = append(l.items, o)
	return true
}

// Join concatenates the string forms of the List elements.
func (v Value) Join(sep string) string { return v.JoinAffixed(sep, "", "") }

// JoinAffixed is Join with prefix and postfix written around every element.
func (v Value) JoinAffixed(sep, prefix, postfix string) string {
	l := v.list()
	if l == nil {
		return ""
	}
	var b strings.Builder
	for i, item := range l.items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(prefix)
		b.WriteString(textOf(item))
		b.WriteString(postfix)
	}
	return b.String()
}

// IndexOf returns the position of the first element equal to x, or -1.
func (v Value) IndexOf(x Value) int {
	for i, item := range v.Elements() {
		if item.Equal(x) {
			return i
		}
	}
	return -1
}

func (d *dispatchTables) registerList() {
	t := TagList
	for r := range tagCount {
		d.eq[t][r] = func(a, b Value) bool {
			lb := b.list()
			if lb == nil {
				return false
			}
			la := a.list()
			if len(la.items) != len(lb.items) {
				return false
			}
			for i := range la.items {
				if !la.items[i].Equal(lb.items[i]) {
					return false
				}
			}
			return true
		}
		if r == TagUndefined {
			continue
		}
		d.add[t][r] = func(a *Value, b Value) bool { return a.Extend(b) }
	}
	eachCoercible(t, func(l, r Tag) {
		d.sub[l][r] = func(a *Value, b Value) bool {
			ld := a.list()
			n := b.Uint64()
			if n >= uint64(len(ld.items)) {
				ld.items = ld.items[:0]
				return true
			}
			ld.items = ld.items[:uint64(len(ld.items))-n]
			return true
		}
		d.mul[l][r] = func(a *Value, b Value) bool {
			ld := a.list()
			n, ok := repeatCount(b, len(ld.items))
			if !ok {
				return false
			}
			if len(ld.items) == 0 {
				return true
			}
			out := make([]Value, 0, n*len(ld.items))
			for range n {
				out = append(out, ld.items...)
			}
			ld.items = out
			return true
		}
		d.div[l][r] = func(a *Value, b Value) bool {
			n := b.Uint64()
			if n == 0 {
				return false
			}
			ld := a.list()
			ld.items = ld.items[:uint64(len(ld.items))/n]
			return true
		}
	})

	d.toBool[t] = func(v Value) bool { return len(v.list().items) != 0 }
	d.size[t] = func(v Value) int { return len(v.list().items) }
	d.isEmpty[t] = func(v Value) bool { return len(v.list().items) == 0 }
	d.clear[t] = func(v *Value) {
		ld := v.list()
		clear(ld.items)
		ld.items = ld.items[:0]
	}
	d.clone[t] = func(v Value) Value {
		src := v.list().items
		items := make([]Value, len(src))
		for i, item := range src {
			items[i] = item.Clone()
		}
		return Value{tag: TagList, ref: &listData{items: items}}
	}
	d.defaults[t] = List()
	d.mins[t] = List()
	d.maxes[t] = List()
}
