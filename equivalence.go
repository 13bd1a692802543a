// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import "sort"

// Equivalence is a binary relation that is known to be reflexive, symmetric
// and transitive. The property is a documented precondition: it is not
// checked at construction. An equivalence relation partitions the set it
// operates on; Quotient computes the partition.
type Equivalence struct {
	Binary
}

// NewEquivalence returns the equivalence relation denoted by the BDD n, with
// d1 and d2 typing its two components. The BDD must denote a reflexive,
// symmetric and transitive relation.
func NewEquivalence(b Constraint, d1, d2 Domain, n Node) Equivalence {
	return Equivalence{NewBinary(b, d1, d2, n)}
}

// NewEquivalenceIn retypes the equivalence relation r over the domains d1
// and d2.
func NewEquivalenceIn(d1, d2 Domain, r Equivalence) Equivalence {
	return Equivalence{NewBinaryIn(d1, d2, r.Binary)}
}

// Identity returns the identity relation over the domains d1 and d2: the
// relation where each variable of d1 equals the corresponding variable of
// d2.
func Identity(b Constraint, d1, d2 Domain) Equivalence {
	return NewEquivalence(b, d1, d2, VarsEqual(b, d1, d2))
}

// And returns the intersection of two equivalence relations, which is again
// an equivalence relation.
func (e Equivalence) And(e2 Equivalence) Equivalence {
	return Equivalence{e.Binary.And(e2.Binary)}
}

// Restrict returns the relation with both components restricted to the set
// s.
func (e Equivalence) Restrict(s Set) Equivalence {
	return Equivalence{e.RestrictRange(s).RestrictImage(s)}
}

// Quotient returns the partition of the set s by the equivalence relation:
// one class for each group of related members of s. Classes that do not
// intersect s contribute nothing; the union of the returned sets is the
// intersection of s with the range of the relation. Classes are returned in
// a deterministic order, sorted by the internal id of the subtree that
// represents them.
//
// The classes are found on the BDD itself: after renaming the two components
// to two fresh, consecutive bands of variables, every distinct subtree
// rooted at or above the image band is the image of the relation restricted
// to a single value of the first component, that is exactly one equivalence
// class.
func (e Equivalence) Quotient(s Set) []Set {
	dom0 := e.doms[0]
	dom1 := e.doms[1]
	if dom0.IsInfinite() {
		// dom0 and dom1 should both be infinite, i.e. they must be
		// interleaved; truncate them to the prefix covering the BDD
		sz := int(e.b.HighestVar(e.n)) + 1
		bound := NewDomain(0, sz)
		dom0 = dom0.CutToSameSize(bound)
		dom1 = dom1.CutToSameSize(bound)
	} else if dom0.Size() == 0 {
		// every member is related to every other one
		return []Set{s}
	}

	e.b.LockGC()
	defer e.b.UnlockGC()

	n0 := dom0.Size()
	newDom := NewDomain(Var(n0), n0)
	newIm := NewDomain(Var(2*n0), dom1.Size())

	m := MapVars(dom0, newDom)
	for u, v := range MapVars(dom1, newIm) {
		m[u] = v
	}
	adapted := e.b.Rename(e.n, m)

	subtrees := subtreesGeqVar(e.b, adapted, newIm.Lowest())

	// newIm does not contain holes, so the classes can be typed over the
	// infinite domain starting at its first variable
	domFound := Infinite(newIm.Lowest(), 1)
	sAdapted := NewSetIn(dom1, s)
	bddS := e.b.Rename(sAdapted.n, MapVars(dom1, newIm))

	res := []Set{}
	for _, t := range subtrees {
		class := e.b.Apply(t, bddS, OPand)
		if !e.b.Equal(class, e.b.False()) {
			res = append(res, NewSet(e.b, domFound, class))
		}
	}
	return res
}

// subtreesGeqVar collects the distinct subtrees of p whose root is a leaf or
// tests a variable greater or equal to v, in increasing order of their node
// id.
func subtreesGeqVar(b Constraint, p Node, v Var) []Node {
	found := map[int]Node{}
	seen := map[int]bool{}
	var rec func(n Node)
	rec = func(n Node) {
		if seen[*n] {
			return
		}
		seen[*n] = true
		if b.IsLeaf(n) || b.VarOf(n) >= v {
			found[*n] = n
			return
		}
		rec(b.Then(n))
		rec(b.Else(n))
	}
	rec(p)
	ids := make([]int, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	res := make([]Node, 0, len(ids))
	for _, id := range ids {
		res = append(res, found[id])
	}
	return res
}
