// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenameShift(t *testing.T) {
	b := New()
	d1 := NewDomain(0, 4)
	d2 := NewDomain(10, 4)
	p := Value(b, d1, 9)
	q := b.Rename(p, MapVars(d1, d2))
	assert.True(t, b.Equal(q, Value(b, d2, 9)), "shifted encoding")
	// renaming back gives the original BDD
	assert.True(t, b.Equal(b.Rename(q, MapVars(d2, d1)), p))
}

func TestRenameInterleaved(t *testing.T) {
	b := New()
	pool := NewVarPool()
	chunks := pool.AllocInterleaved(10, 2)

	enc0 := Value(b, chunks[0], 73)
	enc1 := Value(b, chunks[1], 73)

	m := MapVars(chunks[0], chunks[1])
	assert.True(t, b.Equal(enc1, b.Rename(enc0, m)), "interleaved rename")
	assert.True(t, b.Equal(enc0, b.Rename(enc1, MapVars(chunks[1], chunks[0]))))
}

func TestRenameSwap(t *testing.T) {
	b := New()
	// x0 and !x1, with the two variables swapped
	p := b.Apply(b.VarTrue(0), b.VarFalse(1), OPand)
	q := b.Rename(p, VarMap{0: 1, 1: 0})
	assert.True(t, b.Equal(q, b.Apply(b.VarTrue(1), b.VarFalse(0), OPand)))
	// a swap is its own inverse
	assert.True(t, b.Equal(b.Rename(q, VarMap{0: 1, 1: 0}), p))
}

func TestRenameRoundTrip(t *testing.T) {
	b := New()
	d := NewDomain(0, 3)
	p := b.Apply(ValueRange(b, d, 2, 5), b.VarTrue(4), OPand)

	var renameTests = []VarMap{
		{0: 7, 1: 8, 2: 9},
		{0: 1, 1: 0},
		{0: 4, 4: 0},
		{0: 2, 2: 4, 4: 6},
		{4: 5},
	}
	for _, m := range renameTests {
		inv := make(VarMap, len(m))
		for u, v := range m {
			inv[v] = u
		}
		q := b.Rename(p, m)
		assert.True(t, b.Equal(b.Rename(q, inv), p), "round trip %s", m)
	}
	assert.Empty(t, b.Error())
}

func TestRenameIdentity(t *testing.T) {
	b := New()
	p := cube(b, 1, 3)
	assert.True(t, b.Equal(b.Rename(p, VarMap{}), p))
	assert.True(t, b.Equal(b.Rename(p, VarMap{1: 1, 3: 3}), p))
}
