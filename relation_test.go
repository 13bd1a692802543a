// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// values returns the BDD of the set of values over the domain d.
func values(b Constraint, d Domain, vals ...uint) Node {
	res := b.False()
	for _, v := range vals {
		res = b.Apply(res, Value(b, d, v), OPor)
	}
	return res
}

func TestComposition(t *testing.T) {
	b := New()
	d1 := NewDomains(NewDomain(0, 5), NewDomain(5, 5))
	d2 := NewDomains(NewDomain(3, 5), NewDomain(9, 5))

	// rel1 = {(0,10),(2,10),(5,10)}
	rel1 := NewRelation(b, d1, b.Apply(values(b, d1[0], 0, 2, 5), Value(b, d1[1], 10), OPand))
	// rel2 = {(0,10),(1,10),(2,10)}
	rel2 := NewRelation(b, d1, b.Apply(values(b, d1[0], 0, 1, 2), Value(b, d1[1], 10), OPand))
	// mapper = {(0,0),(2,1),(5,2)}, over different variables than rel1
	mapper := NewBinary(b, d2[0], d2[1], values2(b, d2[0], d2[1], [][2]uint{{0, 0}, {2, 1}, {5, 2}}))

	composed := rel1.Compose(0, mapper)
	assert.True(t, composed.Equal(rel2), "composition with renaming")
	assert.Empty(t, b.Error())
}

// values2 returns the BDD of a set of pairs encoded over d1 and d2.
func values2(b Constraint, da, db Domain, pairs [][2]uint) Node {
	res := b.False()
	for _, p := range pairs {
		res = b.Apply(res, b.Apply(Value(b, da, p[0]), Value(b, db, p[1]), OPand), OPor)
	}
	return res
}

func TestComposeIdentity(t *testing.T) {
	b := New()
	d1 := NewDomains(NewDomain(0, 3), NewDomain(3, 3))
	r := NewRelation(b, d1, values2(b, d1[0], d1[1], [][2]uint{{1, 5}, {2, 6}, {7, 0}}))

	// composing with the identity relation leaves the relation unchanged
	id := Identity(b, d1[0], NewDomain(10, 3))
	assert.True(t, r.Compose(0, id.Binary).Equal(r))
	id2 := Identity(b, d1[1], NewDomain(10, 3))
	assert.True(t, r.Compose(1, id2.Binary).Equal(r))
}

func TestIntersection(t *testing.T) {
	b := New()
	dy := NewDomains(NewDomain(0, 5), NewDomain(5, 5))
	dz := NewDomains(NewDomain(3, 5), NewDomain(9, 5))

	rel1 := NewRelation(b, dy, values2(b, dy[0], dy[1], [][2]uint{{1, 2}, {1, 3}}))
	rel2 := NewRelation(b, dy, values2(b, dy[0], dy[1], [][2]uint{{1, 2}}))
	rel3 := NewRelation(b, dz, values2(b, dz[0], dz[1], [][2]uint{{1, 2}}))

	assert.False(t, rel1.And(rel2).IsEmpty())
	// intersection is insensitive to the variables used by the operands
	assert.True(t, rel1.And(rel2).Equal(rel1.And(rel3)))
}

func TestProductFamily(t *testing.T) {
	b := New()
	d := NewDomains(NewDomain(0, 3))
	p := NewRelation(b, d, values(b, d[0], 1, 2, 3))
	q := NewRelation(b, d, values(b, d[0], 3, 4))

	assert.True(t, p.Minus(q).Equal(p.And(q.Not())), "p - q == p & !q")
	assert.True(t, p.Or(q).Equal(q.Or(p)))
	assert.True(t, p.And(p).Equal(p))
	assert.True(t, p.Not().Not().Equal(p))
	assert.True(t, p.Iff(p).IsUniversal())
	assert.True(t, p.Implies(p.Or(q)).IsUniversal())
}

func TestRetypeIdentity(t *testing.T) {
	b := New()
	d1 := NewDomains(NewDomain(0, 4), NewDomain(4, 4))
	r := NewRelation(b, d1, values2(b, d1[0], d1[1], [][2]uint{{3, 9}, {5, 0}}))

	// retyping at domains of the same sizes is the identity up to equality
	d2 := NewDomains(NewDomain(2, 4), NewDomain(10, 4))
	assert.True(t, NewRelationIn(d2, r).Equal(r))
	// retyping at the same domains is the identity on the BDD
	assert.True(t, b.Equal(NewRelationIn(d1, r).BDD(), r.BDD()))
	// round trip
	assert.True(t, b.Equal(NewRelationIn(d1, NewRelationIn(d2, r)).BDD(), r.BDD()))
}

func TestExtendReduceDomain(t *testing.T) {
	b := New()
	d := NewDomain(0, 2)
	s := NewSet(b, d, values(b, d, 1, 3))

	ext := s.ExtendDomain(NewDomain(0, 4), false)
	assert.True(t, ext.Domain().Equal(NewDomain(0, 4)))
	assert.True(t, ext.Member(1))
	assert.True(t, ext.Member(3))
	assert.False(t, ext.Member(5), "new variables are constrained to false")
	assert.Equal(t, 2, ext.Size())

	red := ext.ReduceDomain(d)
	assert.True(t, b.Equal(red.BDD(), s.BDD()), "reduce undoes extend")

	assert.Panics(t, func() { s.ExtendDomain(NewDomain(1, 4), false) }, "not a prefix")
}

func TestProjectOnRestrict(t *testing.T) {
	b := New()
	ds := NewDomains(NewDomain(0, 3), NewDomain(3, 3))
	r := NewRelation(b, ds, values2(b, ds[0], ds[1], [][2]uint{{1, 5}, {2, 6}, {2, 7}}))

	dom0 := r.ProjectOn(0)
	assert.ElementsMatch(t, []uint{1, 2}, dom0.Values())
	im := r.ProjectOn(1)
	assert.ElementsMatch(t, []uint{5, 6, 7}, im.Values())

	// restricting the first component to {2}
	restricted := r.Restrict(0, dom0.Singleton(2))
	assert.ElementsMatch(t, []uint{6, 7}, restricted.ProjectOn(1).Values())

	// projecting away a component preserves the arity
	proj := r.Project(0)
	assert.Equal(t, 2, proj.Arity())
	assert.ElementsMatch(t, []uint{5, 6, 7}, proj.ProjectOn(1).Values())
}

func TestCrossProduct(t *testing.T) {
	b := New()
	ds := NewDomains(NewDomain(0, 3), NewDomain(3, 3))
	s1 := SetOf(b, 1, 2)
	s2 := SetOf(b, 5)

	r := CrossProduct(ds, []Set{s1, s2})
	assert.Equal(t, "{(1,5)(2,5)}", r.String())

	cb := CrossBinary(ds[0], ds[1], s1, s2)
	assert.True(t, cb.Relation.Equal(r))
	assert.ElementsMatch(t, []uint{1, 2}, cb.Range().Values())
	assert.ElementsMatch(t, []uint{5}, cb.Image().Values())
}

func TestRelationInsert(t *testing.T) {
	b := New()
	r1 := NewEmptyRelation(b, 2)
	r1 = r1.Insert(1, 5)
	r1 = r1.Insert(2, 6)

	dy := NewDomains(NewDomain(0, 4), NewDomain(4, 8))
	r2 := NewRelation(b, dy, values2(b, dy[0], dy[1], [][2]uint{{1, 5}, {2, 6}}))

	assert.True(t, r1.Equal(r2), "insert grows domains as needed")
	require.Panics(t, func() { r1.Insert(1) }, "arity mismatch")
}

func TestEnumerationColor(t *testing.T) {
	b := New()
	d := NewDomain(0, 3)
	s1 := NewSet(b, d, values(b, d, 4))
	s2 := NewSet(b, d, values(b, d, 2, 5))

	e := Enumeration([]Set{s1, s2})
	assert.ElementsMatch(t, []uint{0}, e.ImageUnder(s1.Singleton(4)).Values())
	assert.ElementsMatch(t, []uint{1}, e.ImageUnder(s1.Singleton(2)).Values())
	assert.ElementsMatch(t, []uint{4}, e.RangeUnder(SetOf(b, 0)).Values())

	colored := ColorSets(NewDomain(3, 1), []Set{s1, s2})
	assert.Equal(t, 2, len(colored))
	// colored sets are disjoint even when the originals overlap
	assert.True(t, colored[0].And(colored[1]).IsEmpty())
	assert.ElementsMatch(t, []uint{4}, colored[0].ReduceDomain(d).Values())
}

func TestRelationString(t *testing.T) {
	b := New()
	ds := NewDomains(NewDomain(0, 3), NewDomain(3, 3))
	r := NewRelation(b, ds, values2(b, ds[0], ds[1], [][2]uint{{0, 4}, {2, 4}, {2, 1}}))
	assert.Equal(t, "{(0,4)(2,1)(2,4)}", r.String())
	assert.Equal(t, "{}", NewRelation(b, ds, b.False()).String())
}

func TestInfiniteDomainsRelation(t *testing.T) {
	b := New()
	evens := NewDomainStep(0, 10, 2)
	odds := NewDomainStep(1, 10, 2)

	enc1 := Value(b, evens, 0)
	enc2 := b.Rename(enc1, MapVars(evens, odds))

	r1 := NewRelation(b, NewDomains(Infinite(0, 2)), enc1)
	r2 := NewRelation(b, NewDomains(Infinite(1, 2)), enc2)
	assert.True(t, r1.Equal(r2), "same value typed over interleaved infinite domains")

	// projecting a relation over two interleaved infinite components
	r := NewRelation(b, NewDomains(Infinite(0, 2), Infinite(1, 2)), b.Apply(enc1, enc2, OPand))
	assert.True(t, b.Equal(r.ProjectOn(0).BDD(), enc1))
	assert.True(t, b.Equal(r.ProjectOn(1).BDD(), enc2))
}
