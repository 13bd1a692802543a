// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSetIteration(t *testing.T) {
	b := New()
	s := NewSet(b, NewDomain(2, 3), b.True())
	assert.Empty(t, cmp.Diff([]uint{0, 1, 2, 3, 4, 5, 6, 7}, s.Values()))
	assert.Equal(t, 8, s.Size())
}

func TestSetOperations(t *testing.T) {
	b := New()
	empty := NewSet(b, NewDomain(2, 3), b.False())
	s := empty.Singleton(3).Or(empty.Singleton(5))

	assert.Empty(t, cmp.Diff([]uint{3, 5}, s.Values()))
	assert.True(t, s.Member(3))
	assert.False(t, s.Member(4))
	assert.False(t, s.Member(200), "value out of the encoding range")
	assert.False(t, s.IsEmpty())
	assert.True(t, empty.IsEmpty())

	assert.Empty(t, cmp.Diff([]uint{3}, s.And(empty.Interval(0, 3)).Values()))
	assert.Empty(t, cmp.Diff([]uint{5}, s.Minus(empty.Interval(0, 3)).Values()))
	assert.Equal(t, 8, s.Universe().Size())
	assert.Equal(t, 6, s.Not().Size())
}

func TestSetInsert(t *testing.T) {
	b := New()
	s1 := EmptySet(b)
	s1 = s1.Insert(6)
	s1 = s1.Insert(15)

	s2 := NewSet(b, NewDomain(0, 4), b.False())
	s2 = s2.Or(s2.Singleton(6))
	s2 = s2.Or(s2.Singleton(15))
	assert.True(t, s1.Equal(s2.Relation))

	s3 := SetOf(b, 6)
	s4 := SetOf(b, 15)
	assert.True(t, s3.Or(s4).Equal(s1.Relation))

	s5 := SetOf(b, 5, 6, 7, 8)
	s6 := IntervalSet(b, 5, 8)
	assert.True(t, s5.Equal(s6.Relation))

	// inserting an element twice is the identity
	assert.True(t, s5.Insert(6).Equal(s5.Relation))
}

func TestSetHash(t *testing.T) {
	b := New()
	d := NewDomain(0, 4)
	s1 := NewSet(b, d, values(b, d, 2, 9))
	s2 := NewSet(b, d, values(b, d, 9, 2))
	assert.Equal(t, s1.Hash(), s2.Hash(), "hash is the id of the hash-consed BDD")
	assert.NotEqual(t, s1.Hash(), s1.Not().Hash())
}

func TestSetCompress(t *testing.T) {
	b := New()
	s := SetOf(b, 5, 6, 8)
	c := s.Compress()

	assert.Empty(t, cmp.Diff([]uint{0}, c.ImageUnder(s.Singleton(5)).Values()))
	assert.Empty(t, cmp.Diff([]uint{1}, c.ImageUnder(s.Singleton(6)).Values()))
	assert.Empty(t, cmp.Diff([]uint{2}, c.ImageUnder(s.Singleton(8)).Values()))
	// the compression is an injection onto [0, size)
	assert.Empty(t, cmp.Diff([]uint{0, 1, 2}, c.ImageUnder(s).Values()))
}

func TestSetComposeWith(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 3)
	d2 := NewDomain(3, 3)
	succ := NewBinary(b, d1, d2, values2(b, d1, d2, [][2]uint{{0, 1}, {1, 2}, {2, 3}, {3, 4}}))

	s := NewSet(b, d1, values(b, d1, 1, 3))
	assert.ElementsMatch(t, []uint{2, 4}, s.ComposeWith(succ).Values())
	assert.ElementsMatch(t, []uint{2, 4}, succ.ImageUnder(s).Values())
	assert.ElementsMatch(t, []uint{0, 2}, succ.RangeUnder(s).Values())
	assert.ElementsMatch(t, []uint{1, 3}, succ.Inverse().ImageUnder(s.ComposeWith(succ)).Values())
}

func TestSetString(t *testing.T) {
	b := New()
	assert.Equal(t, "{1,4}", SetOf(b, 4, 1).String())
	assert.Equal(t, "{}", EmptySet(b).String())
}
