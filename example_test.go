package nkit_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/nkit"
)

// Example_values demonstrates checked arithmetic and aliasing.
func Example_values() {
	fmt.Println(nkit.Int(40).Add(nkit.Int(2)).String())
	fmt.Println(nkit.UInt64(0).Sub(nkit.Int(5)).IsUndefined())

	l := nkit.List()
	alias := l
	alias.Append(nkit.Int(1))
	c := l.Clone()
	c.Append(nkit.Int(2))
	fmt.Println(l.Size(), c.Size())
	// Output:
	// 42
	// true
	// 1 2
}

// Example_index demonstrates an index kept in sync with positional inserts.
func Example_index() {
	t, err := nkit.NewTable("name,age:INTEGER")
	if err != nil {
		log.Fatal(err)
	}
	_ = t.AppendRow(nkit.String("ann"), nkit.Int(31))
	_ = t.AppendRow(nkit.String("bob"), nkit.Int(25))

	ix, err := t.CreateIndex("-age")
	if err != nil {
		log.Fatal(err)
	}
	_ = t.InsertRow(0, nkit.String("cid"), nkit.Int(40))

	for it := ix.Begin(); it.Valid(); it.Next() {
		fmt.Println(it.Row(), it.Value(0).String())
	}
	// Output:
	// 0 cid
	// 1 ann
	// 2 bob
}

// Example_group demonstrates GROUP BY with aggregators.
func Example_group() {
	t, err := nkit.NewTable("name,val:INTEGER")
	if err != nil {
		log.Fatal(err)
	}
	_ = t.AppendRow(nkit.String("A"), nkit.Int(1))
	_ = t.AppendRow(nkit.String("B"), nkit.Int(2))
	_ = t.AppendRow(nkit.String("A"), nkit.Int(3))

	g, err := t.Group("name", "COUNT,SUM(val)")
	if err != nil {
		log.Fatal(err)
	}
	b, _ := g.MarshalJSON()
	fmt.Println(g.Definition())
	fmt.Println(string(b))
	// Output:
	// name:STRING,COUNT:UNSIGNED_INTEGER,SUM(val):INTEGER
	// [{"name":"A","COUNT":2,"SUM(val)":4},{"name":"B","COUNT":1,"SUM(val)":2}]
}
