package nkit

func (d *dispatchTables) registerContainers() {
	d.registerList()
	d.registerDict()
	d.registerTable()
}

func (v Value) table() *Table {
	if v.tag != TagTable {
		return nil
	}
	return v.ref.(*Table)
}

// Table returns the table held by a Table value, or nil.
func (v Value) Table() *Table { return v.table() }

func (d *dispatchTables) registerTable() {
	t := TagTable
	for r := range tagCount {
		d.eq[t][r] = func(a, b Value) bool {
			tb := b.table()
			return tb != nil && a.table().Equal(tb)
		}
	}
	d.toBool[t] = func(v Value) bool { return v.table().Height() != 0 }
	d.size[t] = func(v Value) int { return v.table().Height() }
	d.isEmpty[t] = func(v Value) bool { return v.table().Height() == 0 }
	d.clear[t] = func(v *Value) { v.table().Clear() }
	d.clone[t] = func(v Value) Value { return TableValue(v.table().Clone(true)) }
}
