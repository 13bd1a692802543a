// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"math/big"
	"sort"
)

// This file implements the binary encoding of non-negative integers over a
// finite domain. A value v is encoded over the domain D as the conjunction
// stating that the i-th variable of D (in iteration order) equals the i-th
// bit of v; the encoding is little-endian with respect to the variable order.

// NVarsNeeded returns the least number of variables needed to encode the
// values 0 .. nvalues-1; that is the least n with 2^n ≥ nvalues.
func NVarsNeeded(nvalues uint) int {
	n := 0
	for (uint(1) << n) < nvalues {
		n++
	}
	return n
}

// finiteVars returns the variables of a finite domain, in iteration order.
func finiteVars(vs Domain) []Var {
	if vs.IsInfinite() {
		panic("grel: integer encoding needs a finite domain")
	}
	res := make([]Var, 0, vs.Size())
	it := vs.Iter()
	for {
		v, ok := it.Next()
		if !ok {
			return res
		}
		res = append(res, v)
	}
}

// Value returns the BDD encoding the value v over the finite domain vs. Bits
// of v beyond the size of vs are ignored; every variable of vs is
// constrained, so that the result is a minterm over vs.
func Value(b Constraint, vs Domain, v uint) Node {
	b.LockGC()
	defer b.UnlockGC()
	p := b.True()
	for i, u := range finiteVars(vs) {
		bit := b.VarFalse(u)
		if v&(1<<i) != 0 {
			bit = b.VarTrue(u)
		}
		p = b.Apply(p, bit, OPand)
	}
	return p
}

// ValueRange returns the BDD encoding the interval [from, to] over the finite
// domain vs. The construction is recursive on the highest variable of the
// domain, splitting the value space at its midpoint, with special cases for
// full coverage and emptiness.
func ValueRange(b Constraint, vs Domain, from, to uint) Node {
	b.LockGC()
	defer b.UnlockGC()
	return valueRange(b, vs, from, to)
}

func valueRange(b Constraint, vs Domain, from, to uint) Node {
	size := uint(1) << vs.Size()
	if size == 1 {
		return b.Leaf(from == 0 && to == 0)
	}
	if from == 0 && (to+1) == size {
		return b.True()
	}
	if from > to {
		return b.False()
	}
	// split is the value of the most significant bit
	split := size / 2
	highest := vs.Highest()
	rest := vs.Minus(DomainOf(highest))

	lo := to
	if lo > split-1 {
		lo = split - 1
	}
	low := valueRange(b, rest, from, lo)
	high := b.False()
	if to >= split {
		hi := from
		if hi < split {
			hi = split
		}
		high = valueRange(b, rest, hi-split, to-split)
	}
	return b.Apply(
		b.Apply(b.VarTrue(highest), high, OPand),
		b.Apply(b.VarFalse(highest), low, OPand),
		OPor)
}

// VarsProduct returns the conjunction relating the i-th variable of vs1 with
// the i-th variable of vs2 under op. Both domains must be finite and have the
// same size.
func VarsProduct(b Constraint, vs1, vs2 Domain, op Operator) Node {
	if vs1.Size() != vs2.Size() {
		panic("grel: VarsProduct called with domains of different sizes")
	}
	b.LockGC()
	defer b.UnlockGC()
	p := b.True()
	ws := finiteVars(vs2)
	for i, u := range finiteVars(vs1) {
		p = b.Apply(p, b.Apply(b.VarTrue(u), b.VarTrue(ws[i]), op), OPand)
	}
	return p
}

// VarsEqual returns the BDD representing the assignments where each variable
// of vs1 is equal to the corresponding variable of vs2.
func VarsEqual(b Constraint, vs1, vs2 Domain) Node {
	return VarsProduct(b, vs1, vs2, OPbiimp)
}

// ValueFollow returns the BDD obtained by following the encoding of v over
// the domain vs through p, descending the then branch when the current bit is
// 1 and the else branch otherwise. Variables of the domain that are not
// tested by p are transparent. The variables of vs must come first in the
// variable order of p.
func ValueFollow(b Constraint, p Node, vs Domain, v uint) Node {
	it := vs.Iter()
	for {
		if b.IsLeaf(p) {
			return p
		}
		u, ok := it.Next()
		if !ok {
			return p
		}
		w := b.VarOf(p)
		if w < u {
			panic("grel: BDD tests a variable below its domain in ValueFollow")
		}
		if w == u {
			if v&1 == 1 {
				p = b.Then(p)
			} else {
				p = b.Else(p)
			}
		}
		// when w > u the variable u is not constrained by p and the bit is
		// simply consumed
		v = v / 2
	}
}

// ValueMember reports whether the encoding of v over vs is a satisfying
// assignment of p. Every variable tested by p must be in vs.
func ValueMember(b Constraint, p Node, vs Domain, v uint) bool {
	res := ValueFollow(b, p, vs, v)
	if !b.IsLeaf(res) {
		panic("grel: BDD tests a variable outside its domain in ValueMember")
	}
	return b.LeafValue(res)
}

// NAssignments counts the assignments of the variables in vs that satisfy p.
// Every variable tested by p must be in vs; each variable of vs that is not
// tested by p doubles the count.
func NAssignments(b Constraint, p Node, vs Domain) *big.Int {
	return nassign(b, p, finiteVars(vs), 0)
}

func nassign(b Constraint, p Node, vars []Var, i int) *big.Int {
	if b.IsLeaf(p) {
		if !b.LeafValue(p) {
			return big.NewInt(0)
		}
		res := big.NewInt(0)
		res.SetBit(res, len(vars)-i, 1)
		return res
	}
	if i >= len(vars) || b.VarOf(p) < vars[i] {
		panic("grel: BDD tests a variable outside its domain in NAssignments")
	}
	if b.VarOf(p) == vars[i] {
		res := nassign(b, b.Then(p), vars, i+1)
		return res.Add(res, nassign(b, b.Else(p), vars, i+1))
	}
	res := nassign(b, p, vars, i+1)
	return res.Mul(res, big.NewInt(2))
}

// AssignmentsValue decodes every satisfying assignment of p over the domain
// vs to the value it encodes, and returns the set of values in increasing
// order. Every variable tested by p must be in vs.
func AssignmentsValue(b Constraint, p Node, vs Domain) []uint {
	acc := make(map[uint]bool)
	assignvalue(b, p, finiteVars(vs), 0, 1, 0, acc)
	res := make([]uint, 0, len(acc))
	for v := range acc {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func assignvalue(b Constraint, p Node, vars []Var, i int, base, cur uint, acc map[uint]bool) {
	if b.IsLeaf(p) {
		if !b.LeafValue(p) {
			return
		}
		if i >= len(vars) {
			acc[cur] = true
			return
		}
		// remaining variables are free
		assignvalue(b, p, vars, i+1, base<<1, cur|base, acc)
		assignvalue(b, p, vars, i+1, base<<1, cur, acc)
		return
	}
	if i >= len(vars) || b.VarOf(p) < vars[i] {
		panic("grel: BDD tests a variable outside its domain in AssignmentsValue")
	}
	if b.VarOf(p) == vars[i] {
		assignvalue(b, b.Then(p), vars, i+1, base<<1, cur|base, acc)
		assignvalue(b, b.Else(p), vars, i+1, base<<1, cur, acc)
		return
	}
	assignvalue(b, p, vars, i+1, base<<1, cur|base, acc)
	assignvalue(b, p, vars, i+1, base<<1, cur, acc)
}
