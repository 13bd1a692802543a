// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityRelation(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 2)
	d2 := NewDomain(2, 2)
	id := Identity(b, d1, d2)

	all := NewSet(b, d1, b.True())
	for v := uint(0); v < 4; v++ {
		s := all.Singleton(v)
		assert.True(t, id.ImageUnder(s).Equal(s.Relation), "image of {%d}", v)
		assert.True(t, id.RangeUnder(s).Equal(s.Relation), "range of {%d}", v)
	}
	s12 := all.Singleton(1).Or(all.Singleton(2))
	assert.True(t, id.ImageUnder(s12).Equal(s12.Relation))
	assert.True(t, id.RangeUnder(s12).Equal(s12.Relation))
}

// matchPartition checks that the classes form exactly the expected
// partition, in some order.
func matchPartition(t *testing.T, classes []Set, expected []Set) {
	t.Helper()
	require.Equal(t, len(expected), len(classes), "number of classes")
	for _, e := range expected {
		found := false
		for _, c := range classes {
			if c.Equal(e.Relation) {
				found = true
				break
			}
		}
		assert.True(t, found, "missing class %s", e)
	}
}

func TestQuotientIdentity(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 2)
	d2 := NewDomain(2, 2)
	id := Identity(b, d1, d2)

	all := NewSet(b, d1, b.True())
	classes := id.Quotient(all)
	require.Equal(t, 4, len(classes), "four singleton classes")
	matchPartition(t, classes, []Set{
		all.Singleton(0), all.Singleton(1), all.Singleton(2), all.Singleton(3),
	})

	// restricting the set restricts the classes
	classes = id.Quotient(all.Singleton(1).Or(all.Singleton(3)))
	matchPartition(t, classes, []Set{all.Singleton(1), all.Singleton(3)})
}

func TestQuotientEvenOdd(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 2)
	d2 := NewDomain(2, 2)

	even := NewEquivalence(b, d1, d2,
		b.Apply(values(b, d1, 0, 2), values(b, d2, 0, 2), OPand))
	odd := NewEquivalence(b, d1, d2,
		b.Apply(values(b, d1, 1, 3), values(b, d2, 1, 3), OPand))
	evenodd := Equivalence{even.Binary.Or(odd.Binary)}

	all := NewSet(b, d1, b.True())
	evens := all.Singleton(0).Or(all.Singleton(2))
	odds := all.Singleton(1).Or(all.Singleton(3))

	classes := evenodd.Quotient(all)
	matchPartition(t, classes, []Set{evens, odds})

	// classes are mutually disjoint and cover the set
	require.Equal(t, 2, len(classes))
	assert.True(t, classes[0].And(classes[1]).IsEmpty())
	assert.True(t, classes[0].Or(classes[1]).Equal(all.Relation))

	// quotient of the even members only keeps one class
	classes = evenodd.Quotient(evens)
	matchPartition(t, classes, []Set{evens})
}

func TestQuotientEmptyDomain(t *testing.T) {
	b := New()
	id := NewEquivalence(b, Domain{}, Domain{}, b.True())
	s := SetOf(b, 1, 2)
	classes := id.Quotient(s)
	require.Equal(t, 1, len(classes), "everything is related")
	assert.True(t, classes[0].Equal(s.Relation))
}

func TestEquivalenceRestrict(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 2)
	d2 := NewDomain(2, 2)
	id := Identity(b, d1, d2)

	all := NewSet(b, d1, b.True())
	sub := all.Singleton(0).Or(all.Singleton(3))
	restricted := id.Restrict(sub)
	classes := restricted.Quotient(all)
	matchPartition(t, classes, []Set{all.Singleton(0), all.Singleton(3)})
}

func TestQuotientInfinite(t *testing.T) {
	b := New()
	evens := NewDomainStep(0, 2, 2)
	odds := NewDomainStep(1, 2, 2)

	// identity over two interleaved infinite domains
	id := NewEquivalence(b, Infinite(0, 2), Infinite(1, 2), VarsEqual(b, evens, odds))

	s := NewSet(b, evens, values(b, evens, 0, 1, 2, 3))
	classes := id.Quotient(s)
	require.Equal(t, 4, len(classes))

	// the classes are nonempty and pairwise disjoint
	for i, c := range classes {
		assert.False(t, c.IsEmpty())
		assert.True(t, c.Domain().IsInfinite())
		for _, c2 := range classes[i+1:] {
			assert.True(t, c.And(c2).IsEmpty())
		}
	}
	// each member of s falls in exactly one class
	enc := NewDomain(classes[0].Domain().Lowest(), 4)
	for v := uint(0); v < 4; v++ {
		count := 0
		for _, c := range classes {
			if ValueMember(b, c.BDD(), enc, v) {
				count++
			}
		}
		assert.Equal(t, 1, count, "value %d is in exactly one class", v)
	}
}
