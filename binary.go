// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

// Binary is a relation of arity 2. The first component is called the range
// of the relation and the second one its image.
type Binary struct {
	Relation
}

// NewBinary returns the binary relation denoted by the BDD n, with d1 typing
// its first component and d2 its second one.
func NewBinary(b Constraint, d1, d2 Domain, n Node) Binary {
	return Binary{NewRelation(b, Domains{d1, d2}, n)}
}

// NewBinaryIn retypes the binary relation r over the domains d1 and d2.
func NewBinaryIn(d1, d2 Domain, r Binary) Binary {
	return Binary{NewRelationIn(Domains{d1, d2}, r.Relation)}
}

// RestrictRange restricts the first component of the relation to the set s.
func (r Binary) RestrictRange(s Set) Binary {
	return Binary{r.Relation.Restrict(0, s)}
}

// RestrictImage restricts the second component of the relation to the set s.
func (r Binary) RestrictImage(s Set) Binary {
	return Binary{r.Relation.Restrict(1, s)}
}

// Inverse returns the relation with its two components swapped. Only the
// domains move: the underlying BDD is unchanged.
func (r Binary) Inverse() Binary {
	return NewBinary(r.b, r.doms[1], r.doms[0], r.n)
}

// Range returns the set of values appearing in the first component.
func (r Binary) Range() Set {
	return r.ProjectOn(0)
}

// Image returns the set of values appearing in the second component.
func (r Binary) Image() Set {
	return r.ProjectOn(1)
}

// ImageUnder returns the image of the set s under the relation.
func (r Binary) ImageUnder(s Set) Set {
	return r.RestrictRange(s).Image()
}

// RangeUnder returns the set of values that the relation maps into s.
func (r Binary) RangeUnder(s Set) Set {
	return r.RestrictImage(s).Range()
}

// CrossBinary returns the binary relation set1 × set2, typed over d1 and d2.
func CrossBinary(d1, d2 Domain, set1, set2 Set) Binary {
	return Binary{CrossProduct(Domains{d1, d2}, []Set{set1, set2})}
}

// And returns the intersection of two binary relations.
func (r Binary) And(r2 Binary) Binary {
	return Binary{r.Relation.And(r2.Relation)}
}

// Or returns the union of two binary relations.
func (r Binary) Or(r2 Binary) Binary {
	return Binary{r.Relation.Or(r2.Relation)}
}

// Minus returns the difference of two binary relations.
func (r Binary) Minus(r2 Binary) Binary {
	return Binary{r.Relation.Minus(r2.Relation)}
}

// Not returns the complement of the relation.
func (r Binary) Not() Binary {
	return Binary{r.Relation.Not()}
}
