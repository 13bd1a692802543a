// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import "strings"

// Domains is an ordered sequence of domains, used as the type of a relation:
// the relation's arity is the length of the sequence and its i-th component
// is encoded by the variables of the i-th domain. Pairwise disjointness is
// not required by construction; operations that need it (like composition)
// escape colliding variables on demand.
type Domains []Domain

// NewDomains returns the sequence made of the given domains.
func NewDomains(ds ...Domain) Domains {
	return append(Domains{}, ds...)
}

// Concat returns the concatenation of two sequences of domains; this is the
// type of a cross product.
func (ds Domains) Concat(ds2 Domains) Domains {
	return append(append(Domains{}, ds...), ds2...)
}

// Clone returns a shallow copy of ds that can be modified componentwise
// without affecting the original.
func (ds Domains) Clone() Domains {
	return append(Domains{}, ds...)
}

// Equal reports whether the two sequences have the same length and equal
// components.
func (ds Domains) Equal(ds2 Domains) bool {
	if len(ds) != len(ds2) {
		return false
	}
	for i := range ds {
		if !ds[i].Equal(ds2[i]) {
			return false
		}
	}
	return true
}

// SomeInfinite reports whether at least one component is infinite.
func (ds Domains) SomeInfinite() bool {
	for _, d := range ds {
		if d.IsInfinite() {
			return true
		}
	}
	return false
}

// SupDomains returns the componentwise largest of two sequences of domains,
// which must have the same length.
func SupDomains(ds1, ds2 Domains) Domains {
	if len(ds1) != len(ds2) {
		panic("grel: SupDomains called with sequences of different arities")
	}
	res := make(Domains, len(ds1))
	for i := range ds1 {
		res[i] = Sup(ds1[i], ds2[i])
	}
	return res
}

// UnionAll returns the union of all the components, which must be finite.
func (ds Domains) UnionAll() Domain {
	all := Domain{}
	for _, d := range ds {
		all = all.Union(d)
	}
	return all
}

// IsDisjoint reports whether no variable of ds appears in a component of ds2.
func (ds Domains) IsDisjoint(ds2 Domains) bool {
	for _, d := range ds {
		for _, d2 := range ds2 {
			if !d.IsDisjoint(d2) {
				return false
			}
		}
	}
	return true
}

// IsDisjointFrom reports whether no component of ds intersects the domain d.
func (ds Domains) IsDisjointFrom(d Domain) bool {
	return ds.IsDisjoint(Domains{d})
}

// IntersectWith intersects every component with d.
func (ds Domains) IntersectWith(d Domain) Domains {
	res := ds.Clone()
	for i := range res {
		res[i] = res[i].Intersect(d)
	}
	return res
}

// CutToSameSizes cuts every component to the size of the corresponding
// component of ds2.
func (ds Domains) CutToSameSizes(ds2 Domains) Domains {
	res := ds.Clone()
	for i := range res {
		res[i] = res[i].CutToSameSize(ds2[i])
	}
	return res
}

// Transform applies fn to every variable of every component.
func (ds Domains) Transform(fn func(Var) Var) Domains {
	res := ds.Clone()
	for i := range res {
		res[i] = res[i].Transform(fn)
	}
	return res
}

func (ds Domains) String() string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 {
			sb.WriteString("×")
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
