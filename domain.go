// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"fmt"
	"sort"
	"strings"
)

// Domain is a set of variables used to encode one component of a relation. A
// domain is either finite, in which case it is an ordered set of distinct
// variables, or the infinite periodic set {from + i·step | i ≥ 0}. The zero
// value of the type is the empty (finite) domain.
//
// Domains are immutable values: all the operations return a new domain and
// never modify their receiver.
//
// Some common usage patterns, with the sets they give:
//
//  NewDomain(0, 5)          {0,1,2,3,4}
//  NewDomain(5, 5)          {5,6,7,8,9}
//  NewDomainStep(0, 5, 2)   {0,2,4,6,8}
//  NewDomainStep(1, 5, 2)   {1,3,5,7,9}
//
// The last two domains are interleaved, a common way to represent the state
// components of a transition relation.
type Domain struct {
	infinite bool
	vars     []Var // finite case: sorted, distinct
	from     Var   // infinite case: first variable
	step     Var   // infinite case: difference between consecutive variables
}

// NewDomain returns the finite domain {from, from+1, ..., from+nvars-1}.
func NewDomain(from Var, nvars int) Domain {
	return NewDomainStep(from, nvars, 1)
}

// NewDomainStep returns the finite domain {from + i·step | 0 ≤ i < nvars}.
func NewDomainStep(from Var, nvars int, step Var) Domain {
	if step < 1 {
		panic("grel: domain step must be at least 1")
	}
	vars := make([]Var, nvars)
	for i := range vars {
		vars[i] = from + Var(i)*step
	}
	return Domain{vars: vars}
}

// DomainOf returns the finite domain containing exactly the given variables.
func DomainOf(vars ...Var) Domain {
	vs := append([]Var{}, vars...)
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	res := vs[:0]
	for i, v := range vs {
		if i == 0 || v != vs[i-1] {
			res = append(res, v)
		}
	}
	return Domain{vars: res}
}

// Infinite returns the infinite periodic domain {from + i·step | i ≥ 0}.
func Infinite(from, step Var) Domain {
	if step < 1 {
		panic("grel: domain step must be at least 1")
	}
	return Domain{infinite: true, from: from, step: step}
}

// OnBase lays out a finite domain onto an infinite base: each variable v of
// from becomes the v-th variable of base (counting from 0), that is
// base.from + v·base.step.
func OnBase(base, from Domain) Domain {
	if base.IsFinite() {
		panic("grel: OnBase needs an infinite base domain")
	}
	return from.Mul(base.step).Add(base.from)
}

// IsFinite reports whether the domain is finite.
func (d Domain) IsFinite() bool {
	return !d.infinite
}

// IsInfinite reports whether the domain is infinite.
func (d Domain) IsInfinite() bool {
	return d.infinite
}

// IsEmpty reports whether the domain is empty.
func (d Domain) IsEmpty() bool {
	return !d.infinite && len(d.vars) == 0
}

// Size returns the number of variables in a finite domain. It panics on an
// infinite domain.
func (d Domain) Size() int {
	if d.infinite {
		panic("grel: Size called on an infinite domain")
	}
	return len(d.vars)
}

// Lowest returns the smallest variable of a non-empty domain.
func (d Domain) Lowest() Var {
	if d.infinite {
		return d.from
	}
	if len(d.vars) == 0 {
		panic("grel: Lowest called on an empty domain")
	}
	return d.vars[0]
}

// Highest returns the largest variable of a non-empty, finite domain.
func (d Domain) Highest() Var {
	if d.infinite {
		panic("grel: Highest called on an infinite domain")
	}
	if len(d.vars) == 0 {
		panic("grel: Highest called on an empty domain")
	}
	return d.vars[len(d.vars)-1]
}

// Higher returns a variable strictly greater than every variable of a finite
// domain; it returns 0 for the empty domain.
func (d Domain) Higher() Var {
	if d.infinite {
		panic("grel: Higher called on an infinite domain")
	}
	if len(d.vars) == 0 {
		return 0
	}
	return d.vars[len(d.vars)-1] + 1
}

// Contains reports whether v is a member of the domain.
func (d Domain) Contains(v Var) bool {
	if d.infinite {
		return v >= d.from && (v-d.from)%d.step == 0
	}
	i := sort.Search(len(d.vars), func(i int) bool { return d.vars[i] >= v })
	return i < len(d.vars) && d.vars[i] == v
}

// IsCompatible reports whether two domains can encode the same component:
// both infinite, or both finite with the same number of variables.
func (d Domain) IsCompatible(d2 Domain) bool {
	if d.infinite || d2.infinite {
		return d.infinite && d2.infinite
	}
	return len(d.vars) == len(d2.vars)
}

// IsDisjoint reports whether the two domains have no variable in common. When
// both domains are infinite we use a finite prefix of the receiver that
// covers the start of d2; this approximation is crude but correct.
func (d Domain) IsDisjoint(d2 Domain) bool {
	if d.infinite && d2.infinite {
		return d.FirstN(int(d2.from + d2.step)).IsDisjoint(d2)
	}
	if d.infinite {
		return d2.IsDisjoint(d)
	}
	for _, v := range d.vars {
		if d2.Contains(v) {
			return false
		}
	}
	return true
}

// Equal reports whether the two domains contain exactly the same variables.
func (d Domain) Equal(d2 Domain) bool {
	if d.infinite != d2.infinite {
		return false
	}
	if d.infinite {
		return d.from == d2.from && d.step == d2.step
	}
	if len(d.vars) != len(d2.vars) {
		return false
	}
	for i, v := range d.vars {
		if d2.vars[i] != v {
			return false
		}
	}
	return true
}

// Union returns the union of two finite domains.
func (d Domain) Union(d2 Domain) Domain {
	if d.infinite || d2.infinite {
		panic("grel: Union called on an infinite domain")
	}
	return DomainOf(append(append([]Var{}, d.vars...), d2.vars...)...)
}

// Intersect returns the intersection of two domains. At least one of them
// must be finite; the intersection with an infinite domain goes through its
// membership test, which amounts to approximating it by a finite prefix
// covering the other domain.
func (d Domain) Intersect(d2 Domain) Domain {
	if d.infinite && d2.infinite {
		panic("grel: Intersect called on two infinite domains")
	}
	if d.infinite {
		return d2.Intersect(d)
	}
	res := []Var{}
	for _, v := range d.vars {
		if d2.Contains(v) {
			res = append(res, v)
		}
	}
	return Domain{vars: res}
}

// Minus returns the difference of two finite domains.
func (d Domain) Minus(d2 Domain) Domain {
	if d.infinite || d2.infinite {
		panic("grel: Minus called on an infinite domain")
	}
	res := []Var{}
	for _, v := range d.vars {
		if !d2.Contains(v) {
			res = append(res, v)
		}
	}
	return Domain{vars: res}
}

// Mul returns the domain where every variable is multiplied by k.
func (d Domain) Mul(k Var) Domain {
	if d.infinite {
		return Infinite(d.from*k, d.step*k)
	}
	return d.Transform(func(v Var) Var { return v * k })
}

// Div returns the finite domain where every variable is divided by k. It
// panics on an infinite domain.
func (d Domain) Div(k Var) Domain {
	return d.Transform(func(v Var) Var { return v / k })
}

// Add returns the domain where every variable is incremented by k.
func (d Domain) Add(k Var) Domain {
	if d.infinite {
		return Infinite(d.from+k, d.step)
	}
	return d.Transform(func(v Var) Var { return v + k })
}

// Sub returns the domain where every variable is decremented by k.
func (d Domain) Sub(k Var) Domain {
	if d.infinite {
		return Infinite(d.from-k, d.step)
	}
	return d.Transform(func(v Var) Var { return v - k })
}

// Transform returns the finite domain where each variable v is substituted by
// fn(v). It panics on an infinite domain.
func (d Domain) Transform(fn func(Var) Var) Domain {
	if d.infinite {
		panic("grel: Transform called on an infinite domain")
	}
	res := make([]Var, len(d.vars))
	for i, v := range d.vars {
		res[i] = fn(v)
	}
	return DomainOf(res...)
}

// FirstN returns the domain made of the n lowest variables of d. It is
// defined on infinite domains, where it returns the first n variables of the
// periodic set.
func (d Domain) FirstN(n int) Domain {
	if d.infinite {
		return NewDomainStep(d.from, n, d.step)
	}
	if n > len(d.vars) {
		n = len(d.vars)
	}
	return Domain{vars: append([]Var{}, d.vars[:n]...)}
}

// LastN returns the finite domain made of the n highest variables of d.
func (d Domain) LastN(n int) Domain {
	if d.infinite {
		panic("grel: LastN called on an infinite domain")
	}
	if n > len(d.vars) {
		n = len(d.vars)
	}
	return Domain{vars: append([]Var{}, d.vars[len(d.vars)-n:]...)}
}

// CutToSameSize keeps the lowest variables of d, as many as there are in d2.
func (d Domain) CutToSameSize(d2 Domain) Domain {
	return d.FirstN(d2.Size())
}

// Sup returns the domain, among d1 and d2, with the largest cardinality;
// infinite domains win over finite ones.
func Sup(d1, d2 Domain) Domain {
	if d1.infinite {
		return d1
	}
	if d2.infinite {
		return d2
	}
	if len(d1.vars) < len(d2.vars) {
		return d2
	}
	return d1
}

func (d Domain) String() string {
	if d.infinite {
		if d.from == 0 {
			return fmt.Sprintf("{%dk}", d.step)
		}
		return fmt.Sprintf("{%d+%dk}", d.from, d.step)
	}
	var sb strings.Builder
	sb.WriteString("{")
	for i, v := range d.vars {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteString("}")
	return sb.String()
}

// ************************************************************

// DomainIter iterates over the variables of a domain in increasing order.
// Iteration over an infinite domain never ends.
type DomainIter struct {
	d   Domain
	idx int
	cur Var
}

// Iter returns an iterator positioned at the start of the domain.
func (d Domain) Iter() *DomainIter {
	return &DomainIter{d: d, cur: d.from}
}

// Next returns the next variable of the domain, or false when the iteration
// is over.
func (it *DomainIter) Next() (Var, bool) {
	if it.d.infinite {
		v := it.cur
		it.cur += it.d.step
		return v, true
	}
	if it.idx >= len(it.d.vars) {
		return 0, false
	}
	v := it.d.vars[it.idx]
	it.idx++
	return v, true
}
