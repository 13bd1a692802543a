// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import "fmt"

// Set is a relation of arity 1: a set of non-negative integers, binary
// encoded over the variables of its single domain.
type Set struct {
	Relation
}

// NewSet returns the set denoted by the BDD n over the domain d.
func NewSet(b Constraint, d Domain, n Node) Set {
	return Set{NewRelation(b, Domains{d}, n)}
}

// EmptySet returns an empty set with an empty domain. The domain grows
// automatically with Insert.
func EmptySet(b Constraint) Set {
	return Set{NewRelation(b, Domains{{}}, b.False())}
}

// SetOf returns the set containing exactly the given values, encoded over
// the fewest variables needed.
func SetOf(b Constraint, vals ...uint) Set {
	res := EmptySet(b)
	for _, v := range vals {
		res = res.Insert(v)
	}
	return res
}

// IntervalSet returns the set of values in the interval [from, to], over the
// domain [0, n) with n the number of variables needed to encode to.
func IntervalSet(b Constraint, from, to uint) Set {
	d := NewDomain(0, NVarsNeeded(to+1))
	return Set{NewRelation(b, Domains{d}, ValueRange(b, d, from, to))}
}

// NewSetIn retypes the set s over the domain d, renaming the variables of
// its BDD accordingly. See NewRelationIn.
func NewSetIn(d Domain, s Set) Set {
	return Set{NewRelationIn(Domains{d}, s.Relation)}
}

// Domain returns the domain of the set.
func (s Set) Domain() Domain {
	return s.doms[0]
}

// Singleton returns the set containing only the value v, over the same
// domain as s.
func (s Set) Singleton(v uint) Set {
	return Set{NewRelation(s.b, s.doms, Value(s.b, s.doms[0], v))}
}

// Interval returns the set of values in [from, to], over the same domain as
// s.
func (s Set) Interval(from, to uint) Set {
	return Set{NewRelation(s.b, s.doms, ValueRange(s.b, s.doms[0], from, to))}
}

// Universe returns the set of every value encodable over the domain of s.
func (s Set) Universe() Set {
	return Set{NewRelation(s.b, s.doms, s.b.True())}
}

// Insert returns the set with the value v added. The domain is extended with
// fresh, higher variables when v does not fit the current encoding.
func (s Set) Insert(v uint) Set {
	return Set{s.Relation.Insert(v)}
}

// Member reports whether v is a member of the set.
func (s Set) Member(v uint) bool {
	if NVarsNeeded(v+1) > s.doms[0].Size() {
		return false
	}
	return ValueMember(s.b, s.n, s.doms[0], v)
}

// Size returns the number of elements of the set. The result is exact only
// when it fits an int; use NAssignments directly for huge sets.
func (s Set) Size() int {
	return int(NAssignments(s.b, s.n, s.doms[0]).Int64())
}

// Values returns the elements of the set in increasing order. The set is
// materialized once; the domain must be finite.
func (s Set) Values() []uint {
	return AssignmentsValue(s.b, s.n, s.doms[0])
}

// Hash returns a hash of the set: the id of its underlying BDD node. Two
// sets over the same domain have the same hash exactly when they are equal.
func (s Set) Hash() int {
	return *s.n
}

// And returns the intersection of two sets.
func (s Set) And(s2 Set) Set {
	return Set{s.Relation.And(s2.Relation)}
}

// Or returns the union of two sets.
func (s Set) Or(s2 Set) Set {
	return Set{s.Relation.Or(s2.Relation)}
}

// Minus returns the difference of two sets.
func (s Set) Minus(s2 Set) Set {
	return Set{s.Relation.Minus(s2.Relation)}
}

// Not returns the complement of the set; the universe is taken to be
// {0..2^n-1} for a domain of n variables.
func (s Set) Not() Set {
	return Set{s.Relation.Not()}
}

// ExtendDomain extends the domain of the set to the larger domain to, of
// which the current domain must be a prefix. New variables are constrained
// to the given value.
func (s Set) ExtendDomain(to Domain, value bool) Set {
	return Set{s.Relation.ExtendDomain(0, to, value)}
}

// ReduceDomain reduces the domain of the set to the prefix to, projecting
// the trailing variables away.
func (s Set) ReduceDomain(to Domain) Set {
	return Set{s.Relation.ReduceDomain(0, to)}
}

// ComposeWith returns the image of the set under the binary relation rel.
func (s Set) ComposeWith(rel Binary) Set {
	return Set{s.Relation.Compose(0, rel)}
}

// Compress returns an injection from the elements of the set to the interval
// [0, n) with n the size of the set, as a binary relation. It is built by
// enumerating the singletons of the set in increasing order.
func (s Set) Compress() Binary {
	singletons := []Set{}
	for _, v := range s.Values() {
		singletons = append(singletons, s.Singleton(v))
	}
	return Enumeration(singletons)
}

// ColorSets extends the domain of every set in sets with colorDomain; in the
// result, the variables of colorDomain encode the index of the set in the
// input vector. The sets are returned in their original order.
func ColorSets(colorDomain Domain, sets []Set) []Set {
	rels := make([]Relation, 0, len(sets))
	for _, s := range sets {
		rels = append(rels, s.Relation)
	}
	colored := ColorRelations(0, colorDomain, rels)
	res := make([]Set, 0, len(colored))
	for _, r := range colored {
		res = append(res, Set{r})
	}
	return res
}

// String returns the elements of the set, in increasing order.
func (s Set) String() string {
	res := "{"
	for i, v := range s.Values() {
		if i > 0 {
			res += ","
		}
		res += fmt.Sprintf("%d", v)
	}
	return res + "}"
}
