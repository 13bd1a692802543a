// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMin3(t *testing.T) {
	var minusTests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range minusTests {
		assert.Equal(t, tt.expected, min3(tt.p, tt.q, tt.r), "min3(%d, %d, %d)", tt.p, tt.q, tt.r)
	}
}

// cube returns the conjunction of the variables in vs, in their positive
// form.
func cube(b *Engine, vs ...Var) Node {
	res := b.True()
	for _, v := range vs {
		res = b.Apply(res, b.VarTrue(v), OPand)
	}
	return res
}

func TestBooleanIdentities(t *testing.T) {
	b := New(Nodesize(5000), Cachesize(3000))
	a := b.VarTrue(0)
	c := b.VarTrue(1)
	d := b.VarTrue(2)
	p := b.Apply(b.Apply(a, c, OPor), b.Not(d), OPand)
	q := b.Apply(c, d, OPbiimp)

	assert.True(t, b.Equal(b.Not(b.Not(p)), p), "double negation")
	assert.True(t, b.Equal(b.Apply(p, p, OPand), p), "idempotence of and")
	assert.True(t, b.Equal(b.Apply(p, b.False(), OPand), b.False()), "p and false")
	assert.True(t, b.Equal(b.Apply(p, b.True(), OPor), b.True()), "p or true")
	assert.True(t, b.Equal(b.Apply(p, q, OPdiff), b.Apply(p, b.Not(q), OPand)), "difference")

	// commutativity and associativity of the symmetric operators
	for _, op := range []Operator{OPand, OPor, OPbiimp, OPxor} {
		assert.True(t, b.Equal(b.Apply(p, q, op), b.Apply(q, p, op)), "commutativity of %s", op)
		assert.True(t, b.Equal(
			b.Apply(p, b.Apply(q, d, op), op),
			b.Apply(b.Apply(p, q, op), d, op)), "associativity of %s", op)
	}
	assert.Empty(t, b.Error())
}

func TestIte(t *testing.T) {
	b := New(Nodesize(5000), Cachesize(50))
	n1 := cube(b, 0, 2, 3)
	n2 := cube(b, 0, 3)
	actual := b.Apply(
		b.Ite(n1, n2, b.Not(n2)),
		b.Apply(b.Apply(n1, n2, OPand), b.Apply(b.Not(n1), b.Not(n2), OPand), OPor),
		OPbiimp)
	assert.True(t, b.Equal(actual, b.True()), "ite(f,g,h) <=> (f and g) or (-f and -h)")
}

func TestVarThenElse(t *testing.T) {
	b := New()
	x2 := b.VarTrue(2)
	x4 := b.VarTrue(4)
	// building in order
	n := b.VarThenElse(1, x2, x4)
	assert.True(t, b.Equal(n, b.Ite(b.VarTrue(1), x2, x4)))
	// the test variable can be pushed below the branches
	m := b.VarThenElse(3, x2, x2)
	assert.True(t, b.Equal(m, x2), "equal branches")
	k := b.VarThenElse(5, x2, x4)
	assert.True(t, b.Equal(k, b.Ite(b.VarTrue(5), x2, x4)))
}

// TestOperations implements the same tests as the bddtest program in the
// BuDDy distribution. It uses function Allsat for checking that all
// assignments are detected.
func TestOperations(t *testing.T) {
	b := New(Nodesize(1000), Cachesize(1000))
	varnum := 4
	for i := 0; i < varnum; i++ {
		b.VarTrue(Var(i))
	}

	check := func(x Node) {
		allsatBDD := x
		allsatSumBDD := b.False()
		// Calculate the whole set of assignments and remove each of them
		// from the original set
		err := b.Allsat(x, func(varset []int) error {
			y := b.True()
			for k, v := range varset {
				switch v {
				case 0:
					y = b.Apply(y, b.VarFalse(Var(k)), OPand)
				case 1:
					y = b.Apply(y, b.VarTrue(Var(k)), OPand)
				}
			}
			allsatSumBDD = b.Apply(allsatSumBDD, y, OPor)
			allsatBDD = b.Apply(allsatBDD, y, OPdiff)
			return nil
		})
		require.NoError(t, err)
		// Now the summed set should be equal to the original set and the
		// subtracted set should be empty
		assert.True(t, b.Equal(allsatSumBDD, x), "Allsat sum is the initial BDD")
		assert.True(t, b.Equal(allsatBDD, b.False()), "Allsat leftover is empty")
	}

	a := b.VarTrue(0)
	c := b.VarTrue(1)
	d := b.VarTrue(2)
	e := b.VarTrue(3)
	na := b.VarFalse(0)
	nc := b.VarFalse(1)
	nd := b.VarFalse(2)
	ne := b.VarFalse(3)

	check(b.True())
	check(b.False())
	check(b.Apply(b.Apply(a, c, OPand), b.Apply(na, nc, OPand), OPor))
	check(b.Apply(b.Apply(a, c, OPand), b.Apply(d, e, OPand), OPor))
	check(b.Apply(b.Apply(a, nc, OPand), b.Apply(b.Apply(a, ne, OPand), b.Apply(b.Apply(a, c, OPand), nd, OPand), OPor), OPor))

	for i := 0; i < varnum; i++ {
		check(b.VarTrue(Var(i)))
		check(b.VarFalse(Var(i)))
	}

	set := b.True()
	for i := 0; i < 50; i++ {
		v := Var(rand.Intn(varnum))
		if rand.Intn(2) == 0 {
			set = b.Apply(set, b.VarTrue(v), OPand)
		} else {
			set = b.Apply(set, b.VarFalse(v), OPand)
		}
		check(set)
	}
	assert.Empty(t, b.Error())
}

func TestProject(t *testing.T) {
	b := New()
	p := b.Apply(b.VarTrue(2), b.VarTrue(3), OPand)
	q := b.Exist(p, DomainOf(3))
	assert.True(t, b.Equal(q, b.VarTrue(2)), "exists x3 . x2 and x3")

	// projecting a variable that is not in the BDD is the identity
	assert.True(t, b.Equal(b.Exist(p, DomainOf(7)), p))

	// forall x3 . x2 or x3 == x2
	r := b.Forall(b.Apply(b.VarTrue(2), b.VarTrue(3), OPor), DomainOf(3))
	assert.True(t, b.Equal(r, b.VarTrue(2)))
}

func TestAppEx(t *testing.T) {
	b := New()
	// make sure that variables 0..5 exist
	b.VarTrue(5)
	n2 := b.Apply(b.Apply(b.VarTrue(1), b.VarFalse(3), OPor), b.VarTrue(4), OPor)
	n3 := b.AndExist(n2, b.VarTrue(3), DomainOf(2, 3, 5))
	// exists x2,x3,x5 . (x1 | !x3 | x4) & x3 == x1 | x4
	assert.True(t, b.Equal(n3, b.Apply(b.VarTrue(1), b.VarTrue(4), OPor)))
	assert.Equal(t, big.NewInt(48), b.Satcount(n3))
}

func TestSatcount(t *testing.T) {
	b := New()
	b.VarTrue(7) // 8 variables
	assert.Equal(t, big.NewInt(256), b.Satcount(b.True()))
	assert.Equal(t, 0, b.Satcount(b.False()).Sign())
	assert.Equal(t, big.NewInt(128), b.Satcount(b.VarTrue(3)))
	p := b.Apply(b.VarTrue(2), b.VarTrue(3), OPor)
	assert.Equal(t, big.NewInt(192), b.Satcount(p))
}

func TestHighestVar(t *testing.T) {
	b := New()
	assert.Equal(t, Var(0), b.HighestVar(b.True()))
	p := b.Apply(b.VarTrue(2), b.VarTrue(5), OPand)
	assert.Equal(t, Var(5), b.HighestVar(p))
	assert.Equal(t, Var(2), b.HighestVar(b.Exist(p, DomainOf(5))))
}

func TestGC(t *testing.T) {
	b := New(Nodesize(200))
	p := b.AddRef(cube(b, 0, 1, 2, 3))
	// create a fair amount of garbage so that the table is recycled
	for i := 0; i < 2000; i++ {
		v := Var(i % 17)
		b.Apply(b.VarTrue(v), b.VarTrue(v+1), OPxor)
	}
	// Satcount depends on the number of variables, which the loop raised to
	// 18, so the reference count is taken after it
	count := b.Satcount(p)
	b.GC()
	assert.True(t, b.Equal(p, cube(b, 0, 1, 2, 3)), "live handle survives GC")
	assert.Equal(t, count, b.Satcount(p))

	b.LockGC()
	b.LockGC()
	b.GC() // deferred
	b.UnlockGC()
	b.UnlockGC()
	b.GC()
	assert.True(t, b.Equal(p, cube(b, 0, 1, 2, 3)))
	assert.Empty(t, b.Error())
	b.DelRef(p)
}

func TestPrint(t *testing.T) {
	b := New()
	var buf bytes.Buffer
	b.Print(&buf, b.VarTrue(1))
	assert.Equal(t, "(v1: 1|0)", buf.String())

	buf.Reset()
	b.Print(&buf, b.Apply(b.VarTrue(0), b.VarTrue(1), OPand))
	assert.Equal(t, "(v0: (v1: 1|0)|0)", buf.String())

	buf.Reset()
	b.Print(&buf, b.False())
	assert.Equal(t, "0", buf.String())

	assert.NotEmpty(t, b.Stats())
}
