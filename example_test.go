// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel_test

import (
	"fmt"

	"github.com/dalzilio/grel"
)

// This example shows the basic usage of the package: create an engine, build
// two relations over different variables, and compose them.
func Example_composition() {
	b := grel.New(grel.Nodesize(10000), grel.Cachesize(3000))

	// rel1 = {(0,10),(2,10),(5,10)}, with five variables per component
	d1 := grel.NewDomains(grel.NewDomain(0, 5), grel.NewDomain(5, 5))
	rel1 := grel.NewRelation(b, d1, b.False()).Insert(0, 10).Insert(2, 10).Insert(5, 10)

	// mapper = {(0,0),(2,1),(5,2)}, over its own variables; composition
	// takes care of the renaming for us
	pool := grel.NewVarPool()
	dm := pool.AllocInterleaved(5, 2)
	mapper := grel.NewBinary(b, dm[0], dm[1], b.False())
	mapper = grel.Binary{Relation: mapper.Insert(0, 0).Insert(2, 1).Insert(5, 2)}

	composed := rel1.Compose(0, mapper)
	fmt.Println(composed)
	// Output:
	// {(0,10)(1,10)(2,10)}
}

// This example builds the set {2,3} over the fewest variables needed (two),
// prints it, and tests the membership of 2 and 7.
func Example_sets() {
	b := grel.New()
	s := grel.SetOf(b, 2, 3)
	fmt.Println(s)
	fmt.Println(s.Member(2), s.Member(7))
	// Output:
	// {2,3}
	// true false
}
