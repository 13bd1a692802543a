// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"io"
	"math/big"
)

// Constraint is the contract that a BDD backend has to satisfy for the typed
// relation layer to be built on top of it. Engine is the implementation
// provided by this package; the interface is what an adapter to a third-party
// BDD library would have to provide.
//
// All the methods returning a Node return a reference-counted handle; a nil
// result indicates an error, which can be retrieved with Error. Rename must
// accept arbitrary maps; an adapter whose underlying library only supports
// order-preserving renamings has to fall back to the variable-doubling
// construction used by Engine.
type Constraint interface {
	// GC explicitly starts a garbage collection of unused nodes.
	GC()

	// LockGC defers garbage collection until a matching UnlockGC. The
	// counter is reentrant.
	LockGC()

	// UnlockGC releases one level of the GC lock.
	UnlockGC()

	// AddRef increases the reference count of n.
	AddRef(n Node) Node

	// DelRef decreases the reference count of n.
	DelRef(n Node) Node

	// IsLeaf reports whether n is a constant node.
	IsLeaf(n Node) bool

	// LeafValue returns the value of a constant node.
	LeafValue(n Node) bool

	// Then returns the true branch of an internal node.
	Then(n Node) Node

	// Else returns the false branch of an internal node.
	Else(n Node) Node

	// VarOf returns the variable tested by an internal node.
	VarOf(n Node) Var

	// Leaf returns one of the two constant nodes.
	Leaf(v bool) Node

	// True returns the constant true node.
	True() Node

	// False returns the constant false node.
	False() Node

	// VarTrue returns the node testing that v is true.
	VarTrue(v Var) Node

	// VarFalse returns the node testing that v is false.
	VarFalse(v Var) Node

	// VarThenElse returns the canonical node for (v ? t : e).
	VarThenElse(v Var, t, e Node) Node

	// Not returns the negation of n.
	Not(n Node) Node

	// Apply combines two nodes with a binary Boolean operator.
	Apply(left, right Node, op Operator) Node

	// UnaryApply applies one of the four unary operations to n.
	UnaryApply(n Node, op UnaryOperator) Node

	// Project eliminates the variables selected by pred, combining branches
	// with op (OPor for existential quantification).
	Project(n Node, pred func(Var) bool, op Operator) Node

	// Rename substitutes variables according to m.
	Rename(n Node, m VarMap) Node

	// HighestVar returns the highest variable occurring in n, 0 for a leaf.
	HighestVar(n Node) Var

	// Equal reports whether two handles denote the same function.
	Equal(p, q Node) bool

	// Print writes a textual expression of n of the form (v<i>: then|else).
	Print(w io.Writer, n Node)

	// NodeCount returns the number of active nodes in the backend.
	NodeCount() int

	// Satcount returns the number of satisfying assignments of n over the
	// variables known to the backend.
	Satcount(n Node) *big.Int

	// Error returns the error status of the backend, or an empty string.
	Error() string
}

// compile-time check that Engine provides the full backend contract
var _ Constraint = (*Engine)(nil)
