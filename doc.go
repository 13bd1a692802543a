// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

/*
Package grel provides typed, finite or infinite relations represented
symbolically with reduced ordered Binary Decision Diagrams (BDD).

Basics

The package is built in three layers. At the bottom, an Engine is a
hash-consed BDD store over variables ordered numerically by their index
(type Var). Most operations over the engine return a Node; that is a
pointer to a "vertex" in the BDD that includes a variable, and the
address of the high (then) and low (else) branch for this node. We use
integers to represent the address of Nodes, with the convention that 1
(respectively 0) is the address of the constant function True
(respectively False).

On top of the engine, a Domain is a set of variables used to encode one
component of a relation: either a finite, ordered set of variables, or
the infinite periodic set {from + i·step | i ≥ 0}. Non-negative
integers are encoded over finite domains with a binary, little-endian
encoding that follows the iteration order of the domain (see Value and
ValueMember). A VarPool hands out fresh, disjoint ranges of variables
and interleaved chunks, which is how automatic renaming avoids
collisions with variables already in use.

Finally, a Relation pairs a BDD with a vector of domains, one per
component; its arity is the length of the vector. Operations on
relations (intersection, union, difference, composition, projection,
restriction, cross products, quotients by an equivalence relation)
rewrite both the domains and the underlying BDD, renaming variables
automatically so that two relations typed over different variables can
always be combined. Set and Binary are views specializing arity 1 and
2, and Equivalence adds quotienting for relations that are known to be
reflexive, symmetric and transitive.

Automatic memory management

The library is written in pure Go, without the need for CGo. Like with
MuDDy, a ML interface to BuDDy, we piggyback on the garbage collection
mechanism offered by our host language. We take care of BDD resizing
and memory management directly in the library, but "external"
references to BDD nodes made by user code are automatically managed by
the Go runtime. Nodes can also be pinned explicitly with AddRef and
DelRef, and garbage collection can be deferred with LockGC and
UnlockGC while a sequence of intermediate nodes is built.

The typed layer is written against the Constraint interface, which
captures exactly the set of operations a BDD backend has to provide;
Engine is the only implementation in this package.
*/
package grel
