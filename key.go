package nkit

import (
	"cmp"
	"strings"
)

// MaxKeySize is the capacity of a composite index or group key.
const MaxKeySize = 21

// keyItem is one comparable scalar extracted from a cell. Numeric kinds use
// n (raw bits), strings use s.
type keyItem struct {
	n uint64
	s string
}

// compositeKey is a fixed capacity key with an explicit length.
type compositeKey struct {
	items [MaxKeySize]keyItem
	size  int
}

// keyColumn describes one key position: the source column, the affinity
// used for ordering and the direction.
type keyColumn struct {
	col      int
	name     string
	affinity Tag
	desc     bool
}

// affinity maps a column type onto the class used for key comparison.
func affinity(t Tag) Tag {
	switch t {
	case TagUnsignedInteger, TagBool, TagDateTime:
		return TagUnsignedInteger
	case TagInteger, TagFloat, TagString:
		return t
	default:
		return TagUndefined
	}
}

type itemComparator func(a, b keyItem) int

func compareInt(a, b keyItem) int    { return cmp.Compare(int64(a.n), int64(b.n)) }
func compareUint(a, b keyItem) int   { return cmp.Compare(a.n, b.n) }
func compareFloat(a, b keyItem) int  { return cmp.Compare(bitsFloat(a.n), bitsFloat(b.n)) }
func compareString(a, b keyItem) int { return strings.Compare(a.s, b.s) }

var itemComparators = map[Tag]itemComparator{
	TagInteger:         compareInt,
	TagUnsignedInteger: compareUint,
	TagFloat:           compareFloat,
	TagString:          compareString,
}

// keyComparator is the concatenation of per-column comparators, each negated
// for descending columns.
type keyComparator []itemComparator

func newKeyComparator(cols []keyColumn) keyComparator {
	c := make(keyComparator, len(cols))
	for i, kc := range cols {
		base := itemComparators[kc.affinity]
		if kc.desc {
			c[i] = func(a, b keyItem) int { return base(b, a) }
		} else {
			c[i] = base
		}
	}
	return c
}

func (c keyComparator) compare(a, b *compositeKey) int {
	for i, fn := range c {
		if r := fn(a.items[i], b.items[i]); r != 0 {
			return r
		}
	}
	return 0
}

// parseKeyDef resolves "col,-col,..." against cols. notFound formats the
// message for an unknown column.
func parseKeyDef(def string, cols []Column, notFound string) ([]keyColumn, error) {
	items := splitDef(def)
	if len(items) > MaxKeySize {
		return nil, &ResourceLimitError{Limit: MaxKeySize, Requested: len(items), cause: ErrResourceLimit}
	}
	out := make([]keyColumn, 0, len(items))
	for _, item := range items {
		name, desc := strings.CutPrefix(item, "-")
		name = strings.TrimSpace(name)
		i := columnIndex(cols, name)
		if i < 0 {
			return nil, schemaErrorf(def, notFound, name)
		}
		aff := affinity(cols[i].Type)
		if aff == TagUndefined {
			return nil, schemaErrorf(def, "Unknown affinity for type '%s'", cols[i].Type)
		}
		out = append(out, keyColumn{col: i, name: name, affinity: aff, desc: desc})
	}
	return out, nil
}

func keyItemOfCell(c cell, aff Tag) keyItem {
	if aff == TagString {
		if sd, ok := c.ref.(*stringData); ok {
			return keyItem{s: sd.s}
		}
		return keyItem{}
	}
	return keyItem{n: c.n}
}

// keyItemOfValue coerces a lookup value onto a key position.
func keyItemOfValue(v Value, aff Tag) keyItem {
	switch aff {
	case TagString:
		return keyItem{s: textOf(v)}
	case TagInteger:
		return keyItem{n: uint64(v.Int64())}
	case TagFloat:
		return keyItem{n: floatBits(v.Float64())}
	default:
		return keyItem{n: v.Uint64()}
	}
}

func rowKey(cols []keyColumn, row []cell) compositeKey {
	var k compositeKey
	for i, kc := range cols {
		k.items[i] = keyItemOfCell(row[kc.col], kc.affinity)
	}
	k.size = len(cols)
	return k
}

// cellOfKeyItem rebuilds a cell of type t from a key item.
func cellOfKeyItem(item keyItem, t Tag) cell {
	if t == TagString {
		return cell{ref: &stringData{s: item.s}}
	}
	return cell{n: item.n}
}
