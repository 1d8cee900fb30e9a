// Package nkit provides a dynamically typed Value and an in-memory table
// engine with secondary indices and GROUP BY aggregation.
//
// # Values
//
// A Value is a tagged union over Undefined, None, Bool, Integer,
// UnsignedInteger, Float, DateTime, String, List, Dict, MongoOID and Table.
// Every operation is looked up once in a table indexed by tag or tag pair:
//
//	a := nkit.Int(40)
//	b := a.Add(nkit.Int(2))               // Integer(42)
//	u := nkit.UInt64(0).Sub(nkit.Int(5))  // Undefined: not representable
//
// Strings, Lists, Dicts and Tables are shared: copying the Value creates an
// alias. Clone makes an independent copy.
//
//	l := nkit.List()
//	alias := l
//	alias.Append(nkit.Int(1))  // l.Size() == 1
//	c := l.Clone()
//	c.Append(nkit.Int(2))      // l.Size() is still 1
//
// # Tables
//
//	t, _ := nkit.NewTable("name,val:INTEGER")
//	_ = t.AppendRow(nkit.String("A"), nkit.Int(1))
//	ix, _ := t.CreateIndex("name,-val")
//	for it := ix.GetEqual(nkit.String("A"), nkit.Int(1)); it.Valid(); it.Next() {
//		_ = it.Row()
//	}
//
// Supported column types are STRING, INTEGER, UNSIGNED_INTEGER, FLOAT, BOOL
// and DATE_TIME. Row values must carry exactly the column type.
//
// # Grouping
//
//	g, _ := t.Group("name", "COUNT,SUM(val)")
//
// NewGroupedTableBuilder groups rows fed one at a time.
//
// # Concurrency
//
// Values, tables and indices are single-writer structures. Callers must
// serialize mutation themselves.
package nkit
