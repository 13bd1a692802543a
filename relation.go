// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"fmt"
	"strings"
)

// Relation is a typed, n-ary relation: a BDD together with a sequence of
// domains stating which variables of the BDD encode which component. The
// arity of the relation is the number of domains.
//
// Relations are immutable values; every operation returns a new relation. The
// underlying BDD is shared with the engine's interned store through reference
// counting, so copying a relation is cheap.
//
// The following program illustrates the type. It builds the relation rel1 =
// {(0,10),(2,10),(5,10)} over two domains of five variables, the relation
// mapper = {(0,0),(2,1),(5,2)} over two other domains, and checks that
// composing rel1 with mapper in its first component gives the relation
// {(0,10),(1,10),(2,10)}. Note that mapper uses different variables than
// rel1; Compose takes care of the renaming for us.
//
//    b := grel.New()
//    d1 := grel.NewDomains(grel.NewDomain(0, 5), grel.NewDomain(5, 5))
//    d2 := grel.NewDomains(grel.NewDomain(3, 5), grel.NewDomain(9, 5))
//    rel1 := grel.NewRelation(b, d1, ...)
//    mapper := grel.NewBinary(b, d2[0], d2[1], ...)
//    composed := rel1.Compose(0, mapper)
type Relation struct {
	b    Constraint
	doms Domains
	n    Node
}

// NewRelation returns the relation denoted by the BDD n typed with the
// domains ds.
func NewRelation(b Constraint, ds Domains, n Node) Relation {
	return Relation{b: b, doms: ds.Clone(), n: n}
}

// NewEmptyRelation returns an empty relation of the given arity, with empty
// domains. The domains grow automatically with Insert.
func NewEmptyRelation(b Constraint, arity int) Relation {
	return Relation{b: b, doms: make(Domains, arity), n: b.False()}
}

// Backend returns the BDD backend of the relation.
func (r Relation) Backend() Constraint {
	return r.b
}

// BDD returns the underlying BDD of the relation.
func (r Relation) BDD() Node {
	return r.n
}

// Domains returns the sequence of domains typing the relation.
func (r Relation) Domains() Domains {
	return r.doms.Clone()
}

// Domain returns the domain of the i-th component.
func (r Relation) Domain(i int) Domain {
	return r.doms[i]
}

// Arity returns the number of components of the relation.
func (r Relation) Arity() int {
	return len(r.doms)
}

// IsEmpty reports whether the relation is empty.
func (r Relation) IsEmpty() bool {
	return r.b.Equal(r.n, r.b.False())
}

// IsUniversal reports whether the relation contains every tuple.
func (r Relation) IsUniversal() bool {
	return r.b.Equal(r.n, r.b.True())
}

// ************************************************************

// NewRelationIn retypes the relation r over the domains ds, renaming the
// variables of its BDD so that the encoding over the old domains becomes the
// same encoding over the new ones. Components must have compatible sizes;
// when a new finite domain is larger than the old one, the extra variables
// are constrained to false.
//
// The renaming goes through a temporary set of variables, allocated from a
// pool seeded with both the old and new variables, so that old and new
// domains may overlap arbitrarily.
func NewRelationIn(ds Domains, r Relation) Relation {
	if len(ds) != len(r.doms) {
		panic("grel: NewRelationIn called with a different arity")
	}
	if ds.Equal(r.doms) {
		return r
	}
	r.b.LockGC()
	defer r.b.UnlockGC()

	// When a component of r is infinite we truncate it to the finite prefix
	// covering the variables that actually appear in the BDD.
	old := r.doms.Clone()
	if old.SomeInfinite() {
		prefix := NewDomain(0, int(r.b.HighestVar(r.n))+1)
		for i := range old {
			if old[i].IsInfinite() {
				old[i] = old[i].Intersect(prefix)
			}
		}
	}
	newds := ds.CutToSameSizes(old)

	oldvars := old.UnionAll()
	newvars := newds.UnionAll()
	pool := NewVarPool()
	pool.reserve(oldvars.Union(newvars))
	temp := pool.Alloc(oldvars.Size())

	oldToTemp := MapVars(oldvars, temp)
	tempToNew := make(VarMap)
	for i := range old {
		tempComponent := old[i].Transform(func(v Var) Var { return oldToTemp[v] })
		for u, v := range MapVars(tempComponent, newds[i]) {
			// when two components share variables the first one wins
			if _, ok := tempToNew[u]; !ok {
				tempToNew[u] = v
			}
		}
	}

	n := r.b.Rename(r.b.Rename(r.n, oldToTemp), tempToNew)
	res := Relation{b: r.b, doms: newds, n: n}

	// Components that were cut are extended back to the full requested size;
	// an infinite requested component is restored as-is.
	for i := range ds {
		if !res.doms[i].Equal(ds[i]) {
			if ds[i].IsFinite() {
				res = res.ExtendDomain(i, ds[i], false)
			} else {
				res.doms = res.doms.Clone()
				res.doms[i] = ds[i]
			}
		}
	}
	return res
}

// ExtendDomain extends the i-th domain of the relation to the larger domain
// to, of which the current domain must be a prefix. Every new variable is
// constrained to the given value in the result.
func (r Relation) ExtendDomain(i int, to Domain, value bool) Relation {
	if to.IsInfinite() {
		panic("grel: ExtendDomain needs a finite target domain")
	}
	from := r.doms[i]
	fi := from.Iter()
	ti := to.Iter()
	for {
		u, ok := fi.Next()
		if !ok {
			break
		}
		w, ok2 := ti.Next()
		if !ok2 || u != w {
			panic("grel: current domain is not a prefix of the extension in ExtendDomain")
		}
	}
	r.b.LockGC()
	defer r.b.UnlockGC()
	n := r.n
	for {
		w, ok := ti.Next()
		if !ok {
			break
		}
		bit := r.b.VarFalse(w)
		if value {
			bit = r.b.VarTrue(w)
		}
		n = r.b.Apply(n, bit, OPand)
	}
	doms := r.doms.Clone()
	doms[i] = to
	return Relation{b: r.b, doms: doms, n: n}
}

// ReduceDomain reduces the i-th domain of the relation to the smaller domain
// to, which must be a prefix of the current domain. The trailing variables
// are projected away.
func (r Relation) ReduceDomain(i int, to Domain) Relation {
	if to.IsInfinite() {
		panic("grel: ReduceDomain needs a finite target domain")
	}
	from := r.doms[i]
	fi := from.Iter()
	ti := to.Iter()
	for {
		w, ok := ti.Next()
		if !ok {
			break
		}
		u, ok2 := fi.Next()
		if !ok2 || u != w {
			panic("grel: target domain is not a prefix of the current domain in ReduceDomain")
		}
	}
	remaining := []Var{}
	for {
		u, ok := fi.Next()
		if !ok {
			break
		}
		remaining = append(remaining, u)
	}
	doms := r.doms.Clone()
	doms[i] = to
	return Relation{b: r.b, doms: doms, n: r.b.Project(r.n, DomainOf(remaining...).Contains, OPor)}
}

// ************************************************************

// Product is the generic binary operation on relations: both operands are
// retyped at the componentwise largest of the two domain sequences, and their
// BDDs are combined with op.
func (r Relation) Product(r2 Relation, op Operator) Relation {
	res := SupDomains(r.doms, r2.doms)
	a := NewRelationIn(res, r)
	c := NewRelationIn(res, r2)
	return Relation{b: r.b, doms: res, n: r.b.Apply(a.n, c.n, op)}
}

// And returns the intersection of two relations.
func (r Relation) And(r2 Relation) Relation {
	return r.Product(r2, OPand)
}

// Or returns the union of two relations.
func (r Relation) Or(r2 Relation) Relation {
	return r.Product(r2, OPor)
}

// Minus returns the difference of two relations.
func (r Relation) Minus(r2 Relation) Relation {
	return r.Product(r2, OPdiff)
}

// Not returns the complement of the relation; the universe is the set of all
// tuples encodable over its domains.
func (r Relation) Not() Relation {
	return Relation{b: r.b, doms: r.doms.Clone(), n: r.b.UnaryApply(r.n, OPnot)}
}

// Iff returns the relation containing the tuples on which r and r2 agree.
func (r Relation) Iff(r2 Relation) Relation {
	return r.Product(r2, OPbiimp)
}

// Implies returns the relation denoting that membership in r implies
// membership in r2.
func (r Relation) Implies(r2 Relation) Relation {
	return r.Product(r2, OPimp)
}

// Equal reports whether the two relations contain the same tuples, after
// retyping both at the componentwise largest of their domain sequences.
func (r Relation) Equal(r2 Relation) bool {
	res := SupDomains(r.doms, r2.doms)
	return r.b.Equal(NewRelationIn(res, r).n, NewRelationIn(res, r2).n)
}

// ************************************************************

// CrossProduct returns the relation typed by ds whose i-th component ranges
// over the i-th set: the cross product of the given sets. Each set must have
// a domain at most the size of the corresponding component of ds; a smaller
// domain is extended with variables constrained to false (see NewRelationIn).
func CrossProduct(ds Domains, sets []Set) Relation {
	if len(sets) == 0 || len(ds) != len(sets) {
		panic("grel: CrossProduct needs one set per domain")
	}
	b := sets[0].b
	b.LockGC()
	defer b.UnlockGC()
	n := NewSetIn(ds[0], sets[0]).n
	for i := 1; i < len(sets); i++ {
		n = b.Apply(n, NewSetIn(ds[i], sets[i]).n, OPand)
	}
	return Relation{b: b, doms: ds.Clone(), n: n}
}

// ProjectOn projects the relation onto its i-th component, returning the set
// of values that appear there. Every other component is projected away; an
// infinite component is projected through its finite prefix covering the
// variables of the BDD.
func (r Relation) ProjectOn(i int) Set {
	var proj Domain
	for j := range r.doms {
		if j == i {
			continue
		}
		if r.doms[j].IsFinite() {
			proj = proj.Union(r.doms[j])
		} else {
			prefix := NewDomain(0, int(r.b.HighestVar(r.n))+1)
			proj = proj.Union(r.doms[j].Intersect(prefix))
		}
	}
	n := r.b.Project(r.n, proj.Contains, OPor)
	return Set{Relation{b: r.b, doms: Domains{r.doms[i]}, n: n}}
}

// Project projects away the i-th component of the relation, preserving its
// arity: the result is typed over the same domains but its i-th component no
// longer constrains anything.
func (r Relation) Project(i int) Relation {
	return Relation{b: r.b, doms: r.doms.Clone(), n: r.b.Project(r.n, r.doms[i].Contains, OPor)}
}

// Restrict returns the relation restricted, on its i-th component, to the
// values in the set s. The set is retyped over the i-th domain before being
// conjoined.
func (r Relation) Restrict(i int, s Set) Relation {
	adapted := NewSetIn(r.doms[i], s)
	return Relation{b: r.b, doms: r.doms.Clone(), n: r.b.Apply(adapted.n, r.n, OPand)}
}

// ************************************************************

// escapeFromDomain retypes r so that its domains do not interfere with the
// domain d. The finite case allocates fresh variables for the components
// that overlap d; when infinite domains are involved we double every
// variable of r and shift d to the odd positions instead. It returns the
// escaped relation together with the domain to use in place of d.
func escapeFromDomain(r Relation, d Domain) (Relation, Domain) {
	if r.doms.IsDisjointFrom(d) {
		return r, d
	}
	if d.IsInfinite() || r.doms.SomeInfinite() {
		doms := r.doms.Clone()
		for i := range doms {
			doms[i] = doms[i].Mul(2)
		}
		return NewRelationIn(doms, r), d.Mul(2).Add(1)
	}
	// all domains are finite from here; components overlapping d get fresh
	// variables, allocated outside of d and of the current domains
	pool := NewVarPool()
	pool.reserve(d)
	pool.reserve(r.doms.UnionAll())
	doms := r.doms.Clone()
	for i := range doms {
		if !doms[i].IsDisjoint(d) {
			doms[i] = pool.Alloc(doms[i].Size())
		}
	}
	return NewRelationIn(doms, r), d
}

// Compose applies the binary relation rel2 to the i-th component of the
// relation: the result relates the tuples of r whose i-th value is mapped by
// rel2, with that value replaced by its image. The first domain of rel2 must
// be compatible with the i-th domain of r; the variables of rel2 are renamed
// as needed, and its image component is escaped from the support of r when
// they overlap.
func (r Relation) Compose(i int, rel2 Binary) Relation {
	if rel2.Arity() != 2 {
		panic("grel: Compose needs a binary relation")
	}
	if !r.doms[i].IsCompatible(rel2.Domain(0)) {
		panic("grel: incompatible domains in Compose")
	}
	r.b.LockGC()
	defer r.b.UnlockGC()
	escaped, domIm := escapeFromDomain(r, rel2.Domain(1))
	domRange := escaped.doms[i]

	adapted := NewRelationIn(NewDomains(domRange, domIm), rel2.Relation)

	doms := escaped.doms.Clone()
	doms[i] = domIm
	combined := r.b.Apply(escaped.n, adapted.n, OPand)
	return Relation{b: r.b, doms: doms, n: r.b.Project(combined, domRange.Contains, OPor)}
}

// ************************************************************

// Insert adds a tuple of values to the relation, one value per component.
// Domains are extended with fresh, higher variables when a value does not fit
// the current encoding; the extension never reuses a variable of the current
// domains.
func (r Relation) Insert(vals ...uint) Relation {
	if len(vals) != r.Arity() {
		panic("grel: wrong number of values in Insert")
	}
	r.b.LockGC()
	defer r.b.UnlockGC()
	pool := NewVarPool()
	pool.reserve(r.doms.UnionAll())
	res := r
	conj := r.b.True()
	for i, v := range vals {
		need := NVarsNeeded(uint(v) + 1)
		if res.doms[i].Size() < need {
			// make sure that new variables are higher than the current ones
			pool.reserve(NewDomain(0, int(res.doms[i].Higher())))
			extra := pool.Alloc(need - res.doms[i].Size())
			res = res.ExtendDomain(i, res.doms[i].Union(extra), false)
		}
		conj = r.b.Apply(conj, Value(r.b, res.doms[i], v), OPand)
	}
	res.n = r.b.Apply(res.n, conj, OPor)
	return res
}

// Enumeration builds the membership relation of a vector of sets, all typed
// over the same domain: the binary relation R with R(x, i) iff x is a member
// of sets[i]. The index component is encoded over domEnum when given, and
// over fresh variables otherwise.
func Enumeration(sets []Set, domEnum ...Domain) Binary {
	if len(sets) == 0 {
		panic("grel: Enumeration needs at least one set")
	}
	b := sets[0].b
	var de Domain
	if len(domEnum) > 0 {
		de = domEnum[0]
	} else {
		pool := NewVarPool()
		pool.reserve(sets[0].Domain())
		de = pool.Alloc(NVarsNeeded(uint(len(sets))))
	}
	b.LockGC()
	defer b.UnlockGC()
	n := b.False()
	for i, s := range sets {
		n = b.Apply(n, b.Apply(s.n, Value(b, de, uint(i)), OPand), OPor)
	}
	return NewBinary(b, sets[0].Domain(), de, n)
}

// ColorRelations extends the domain with index i of every relation in rels
// with the domain colorDomain; in the result, the variables of colorDomain
// encode the index of the relation in the input vector. The relations are
// returned in their original order.
func ColorRelations(i int, colorDomain Domain, rels []Relation) []Relation {
	res := make([]Relation, 0, len(rels))
	for color, r := range rels {
		doms := r.doms.Clone()
		doms[i] = doms[i].Union(colorDomain)
		res = append(res, Relation{
			b:    r.b,
			doms: doms,
			n:    r.b.Apply(r.n, Value(r.b, colorDomain, uint(color)), OPand),
		})
	}
	return res
}

// ************************************************************

// String returns the extension of the relation, as a sequence of tuples. The
// relation is first projected on each of its components; we then iterate
// over the Cartesian product of the projections in increasing order and emit
// the tuples that, encoded back as a singleton relation, are included in the
// relation. All components must be decodable, so the domains have to be
// finite.
func (r Relation) String() string {
	if r.Arity() == 0 {
		if r.IsEmpty() {
			return "{}"
		}
		return "{()}"
	}
	proj := make([]Set, r.Arity())
	vals := make([][]uint, r.Arity())
	for i := range proj {
		proj[i] = r.ProjectOn(i)
		vals[i] = proj[i].Values()
		if len(vals[i]) == 0 {
			return "{}"
		}
	}
	var sb strings.Builder
	sb.WriteString("{")
	idx := make([]int, r.Arity())
	for {
		tuple := make([]Set, r.Arity())
		for i := range tuple {
			tuple[i] = proj[i].Singleton(vals[i][idx[i]])
		}
		prod := CrossProduct(r.doms, tuple)
		if !prod.And(r).IsEmpty() {
			sb.WriteString("(")
			for i := range idx {
				if i > 0 {
					sb.WriteString(",")
				}
				fmt.Fprintf(&sb, "%d", vals[i][idx[i]])
			}
			sb.WriteString(")")
		}
		// move to the next element of the Cartesian product
		i := r.Arity() - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(vals[i]) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	sb.WriteString("}")
	return sb.String()
}
