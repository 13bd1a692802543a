// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"math/big"

	"github.com/pkg/errors"
)

// Not returns the negation (!n) of expression n. It negates a BDD by
// exchanging all references to the zero-terminal with references to the
// one-terminal and vice versa.
func (b *Engine) Not(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("wrong operand in call to Not (%v)", n)
	}
	b.initref()
	b.pushref(*n)
	res := b.not(*n)
	b.popref(1)
	return b.retnode(res)
}

func (b *Engine) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if res := b.matchnot(n); res >= 0 {
		return res
	}
	low := b.pushref(b.not(b.low(n)))
	high := b.pushref(b.not(b.high(n)))
	res := b.makenode(b.level(n), low, high)
	b.popref(2)
	return b.setnot(n, res)
}

// UnaryApply performs one of the four possible unary operations on the
// function denoted by n: negation, identity, or one of the two constant
// functions.
func (b *Engine) UnaryApply(n Node, op UnaryOperator) Node {
	switch op {
	case OPident:
		return n
	case OPtrue:
		return bddone
	case OPfalse:
		return bddzero
	case OPnot:
		return b.Not(n)
	}
	return b.seterror("unknown unary operation (%d) in call to UnaryApply", op)
}

// Apply performs all of the basic bdd operations with two operands, such as
// AND, OR etc. Left and right are the operands and op is the requested
// operation and must be one of the following:
//
//  Identifier    Description            Truth table
//
//  OPand         logical and            [0,0,0,1]
//  OPxor         logical xor            [0,1,1,0]
//  OPor          logical or             [0,1,1,1]
//  OPnand        logical not-and        [1,1,1,0]
//  OPnor         logical not-or         [1,0,0,0]
//  OPimp         implication            [1,1,0,1]
//  OPbiimp       equivalence            [1,0,0,1]
//  OPdiff        set difference         [0,0,1,0]
//  OPless        less than              [0,1,0,0]
//  OPinvimp      reverse implication    [1,0,1,1]
func (b *Engine) Apply(left Node, right Node, op Operator) Node {
	if b.checkptr(left) != nil {
		return b.seterror("wrong operand in call to Apply %s(left: %v, right: ...)", op, left)
	}
	if b.checkptr(right) != nil {
		return b.seterror("wrong operand in call to Apply %s(left: ..., right: %v)", op, right)
	}
	b.applycache.op = op
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := b.apply(*left, *right)
	b.popref(2)
	return b.retnode(res)
}

func (b *Engine) apply(left int, right int) int {
	switch b.applycache.op {
	case OPand:
		if left == right {
			return left
		}
		if (left == 0) || (right == 0) {
			return 0
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if (left == 1) || (right == 1) {
			return 1
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPnand:
		if (left == 0) || (right == 0) {
			return 1
		}
	case OPnor:
		if (left == 1) || (right == 1) {
			return 0
		}
	case OPimp:
		if left == 0 {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	case OPbiimp:
		if left == right {
			return 1
		}
	case OPdiff:
		if left == right {
			return 0
		}
		if right == 1 {
			return 0
		}
		if left == 0 {
			return 0
		}
	case OPless:
		if (left == right) || (left == 1) {
			return 0
		}
		if left == 0 {
			return right
		}
	case OPinvimp:
		if right == 0 {
			return 1
		}
		if right == 1 {
			return left
		}
		if left == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	default:
		// unary operations, such as OPnot, should not be used in apply
		b.seterror("unauthorized operation (%s) in apply", b.applycache.op)
		return -1
	}

	// we check for errors
	if left < 0 || right < 0 {
		return -1
	}

	// we deal with the other cases where the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.applycache.op][left][right]
	}
	if res := b.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.pushref(b.apply(b.low(left), b.low(right)))
		high := b.pushref(b.apply(b.high(left), b.high(right)))
		res = b.makenode(leftlvl, low, high)
	} else {
		if leftlvl < rightlvl {
			low := b.pushref(b.apply(b.low(left), right))
			high := b.pushref(b.apply(b.high(left), right))
			res = b.makenode(leftlvl, low, high)
		} else {
			low := b.pushref(b.apply(left, b.low(right)))
			high := b.pushref(b.apply(left, b.high(right)))
			res = b.makenode(rightlvl, low, high)
		}
	}
	b.popref(2)
	return b.setapply(left, right, res)
}

// ************************************************************

// VarThenElse returns the canonical node testing variable v, with t as its
// true branch and e as its false branch. If t and e are equal we simply
// return t. The operands may test variables smaller than v, in which case the
// test on v is pushed down to its place in the variable order.
func (b *Engine) VarThenElse(v Var, t, e Node) Node {
	if !b.ensure(v) {
		return nil
	}
	if b.checkptr(t) != nil {
		return b.seterror("wrong operand in call to VarThenElse (t: %v)", t)
	}
	if b.checkptr(e) != nil {
		return b.seterror("wrong operand in call to VarThenElse (e: %v)", e)
	}
	b.initref()
	b.pushref(*t)
	b.pushref(*e)
	res := b.correctify(int32(v), *e, *t)
	b.popref(2)
	return b.retnode(res)
}

// Ite, short for if-then-else operator, computes the BDD for the expression
// [(f /\ g) \/ (not f /\ h)] more efficiently than doing the three operations
// separately.
func (b *Engine) Ite(f, g, h Node) Node {
	if b.checkptr(f) != nil {
		return b.seterror("wrong operand in call to Ite (f: %v)", f)
	}
	if b.checkptr(g) != nil {
		return b.seterror("wrong operand in call to Ite (g: %v)", g)
	}
	if b.checkptr(h) != nil {
		return b.seterror("wrong operand in call to Ite (h: %v)", h)
	}
	b.initref()
	b.pushref(*f)
	b.pushref(*g)
	b.pushref(*h)
	res := b.ite(*f, *g, *h)
	b.popref(3)
	return b.retnode(res)
}

// ite_low returns n if the level p is strictly higher than q or r, otherwise
// it returns the low branch of n. This is used in function ite to know which
// node to follow: we always follow the smallest(s) nodes.
func (b *Engine) ite_low(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.low(n)
}

func (b *Engine) ite_high(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.high(n)
}

// min3 returns the smallest value between p, q and r. This is used in function
// ite to compute the smallest level.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r { // p <= q && p <= r
			return p
		}
		return r // r < p <= q
	}
	if q <= r { // q < p && q <= r
		return q
	}
	return r // r < q < p
}

func (b *Engine) ite(f, g, h int) int {
	switch {
	case f == 1:
		return g
	case f == 0:
		return h
	case g == h:
		return g
	case (g == 1) && (h == 0):
		return f
	case (g == 0) && (h == 1):
		return b.not(f)
	}
	if f < 0 || g < 0 || h < 0 {
		b.seterror("unexpected error in ite")
		return -1
	}
	if res := b.matchite(f, g, h); res >= 0 {
		return res
	}
	p := b.level(f)
	q := b.level(g)
	r := b.level(h)
	low := b.pushref(b.ite(b.ite_low(p, q, r, f), b.ite_low(q, p, r, g), b.ite_low(r, p, q, h)))
	high := b.pushref(b.ite(b.ite_high(p, q, r, f), b.ite_high(q, p, r, g), b.ite_high(r, p, q, h)))
	res := b.makenode(min3(p, q, r), low, high)
	b.popref(2)
	return b.setite(f, g, h, res)
}

// ************************************************************

// Project eliminates from n every variable selected by pred, replacing the
// test on a selected variable by the combination of its two branches under
// op. The operator must be associative and commutative with an identity
// element, hence one of OPand, OPor or OPxor; existential quantification is
// Project with OPor, universal quantification is obtained by negation (see
// Exist and Forall). Variables that are not selected are preserved.
func (b *Engine) Project(n Node, pred func(Var) bool, op Operator) Node {
	if op > OPor {
		return b.seterror("operator %s not supported in call to Project", op)
	}
	if b.checkptr(n) != nil {
		return b.seterror("wrong node in call to Project (%v)", n)
	}
	if !b.predicate2cache(pred) {
		// no variable is projected
		return n
	}
	b.quantcache.id = (int(b.quantsetID) << 3) | (int(op) << 1) | cacheid_EXIST
	b.applycache.op = op
	b.initref()
	b.pushref(*n)
	res := b.quant(*n)
	b.popref(1)
	return b.retnode(res)
}

func (b *Engine) quant(n int) int {
	if (n < 2) || (b.level(n) > b.quantlast) {
		return n
	}
	if res := b.matchquant(n); res >= 0 {
		return res
	}
	low := b.pushref(b.quant(b.low(n)))
	high := b.pushref(b.quant(b.high(n)))
	var res int
	if b.quantset[b.level(n)] == b.quantsetID {
		res = b.apply(low, high)
	} else {
		res = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	return b.setquant(n, res)
}

// Exist returns the existential quantification of n for the variables in the
// domain d.
func (b *Engine) Exist(n Node, d Domain) Node {
	return b.Project(n, d.Contains, OPor)
}

// Forall returns the universal quantification of n for the variables in the
// domain d. It is computed as the negation of the existential quantification
// of the negation of n.
func (b *Engine) Forall(n Node, d Domain) Node {
	return b.Not(b.Exist(b.Not(n), d))
}

// ************************************************************

// AppEx applies the binary operator op on the two operands left and right
// then eliminates the variables selected by pred, like in Project. This is
// done in a bottom up manner such that both the apply and the quantification
// are done on the lower nodes before stepping up to the higher nodes. This
// makes AppEx much more efficient than an apply operation followed by a
// quantification. Note that, when op is a conjunction, this operation returns
// the relational product of two BDDs.
func (b *Engine) AppEx(left Node, right Node, op Operator, pred func(Var) bool) Node {
	if op > OPnand {
		return b.seterror("operator %s not supported in call to AppEx", op)
	}
	if b.checkptr(left) != nil {
		return b.seterror("wrong operand in call to AppEx %s(left: %v)", op, left)
	}
	if b.checkptr(right) != nil {
		return b.seterror("wrong operand in call to AppEx %s(right: %v)", op, right)
	}
	if !b.predicate2cache(pred) {
		return b.Apply(left, right, op)
	}
	b.applycache.op = OPor
	b.appexcache.op = op
	b.appexcache.id = (int(b.quantsetID) << 2) | int(op)
	b.quantcache.id = (b.appexcache.id << 3) | cacheid_APPEX
	b.initref()
	b.pushref(*left)
	b.pushref(*right)
	res := b.appquant(*left, *right)
	b.popref(2)
	return b.retnode(res)
}

// AndExist returns the "relational composition" of two nodes with respect to
// the variables in d, meaning the result of (exist d . n1 & n2).
func (b *Engine) AndExist(n1, n2 Node, d Domain) Node {
	return b.AppEx(n1, n2, OPand, d.Contains)
}

func (b *Engine) appquant(left, right int) int {
	switch b.appexcache.op {
	case OPand:
		if left == 0 || right == 0 {
			return 0
		}
		if left == right {
			return b.quant(left)
		}
		if left == 1 {
			return b.quant(right)
		}
		if right == 1 {
			return b.quant(left)
		}
	case OPor:
		if left == 1 || right == 1 {
			return 1
		}
		if left == right {
			return b.quant(left)
		}
		if left == 0 {
			return b.quant(right)
		}
		if right == 0 {
			return b.quant(left)
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return b.quant(right)
		}
		if right == 0 {
			return b.quant(left)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	default:
		b.seterror("unauthorized operation (%s) in AppEx", b.appexcache.op)
		return -1
	}

	// we check for errors
	if left < 0 || right < 0 {
		b.seterror("unexpected error in appquant")
		return -1
	}

	// we deal with the other cases when the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.appexcache.op][left][right]
	}

	// and the case where we have no more variables to quantify
	if (b.level(left) > b.quantlast) && (b.level(right) > b.quantlast) {
		oldop := b.applycache.op
		b.applycache.op = b.appexcache.op
		res := b.apply(left, right)
		b.applycache.op = oldop
		return res
	}

	// next we check if the operation is already in our cache
	if res := b.matchappex(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.pushref(b.appquant(b.low(left), b.low(right)))
		high := b.pushref(b.appquant(b.high(left), b.high(right)))
		if b.quantset[leftlvl] == b.quantsetID {
			res = b.apply(low, high)
		} else {
			res = b.makenode(leftlvl, low, high)
		}
	} else {
		if leftlvl < rightlvl {
			low := b.pushref(b.appquant(b.low(left), right))
			high := b.pushref(b.appquant(b.high(left), right))
			if b.quantset[leftlvl] == b.quantsetID {
				res = b.apply(low, high)
			} else {
				res = b.makenode(leftlvl, low, high)
			}
		} else {
			low := b.pushref(b.appquant(left, b.low(right)))
			high := b.pushref(b.appquant(left, b.high(right)))
			if b.quantset[rightlvl] == b.quantsetID {
				res = b.apply(low, high)
			} else {
				res = b.makenode(rightlvl, low, high)
			}
		}
	}
	b.popref(2)
	return b.setappex(left, right, res)
}

// ************************************************************

// HighestVar returns the highest variable occurring in n, or 0 if n is a
// constant. This is used when an infinite domain has to be truncated to the
// finite prefix that covers the support of a BDD.
func (b *Engine) HighestVar(n Node) Var {
	if b.checkptr(n) != nil {
		b.seterror("wrong node in call to HighestVar (%v)", n)
		return 0
	}
	seen := make(map[int]bool)
	var rec func(m int) int32
	rec = func(m int) int32 {
		if m < 2 || seen[m] {
			return -1
		}
		seen[m] = true
		res := b.level(m)
		if v := rec(b.low(m)); v > res {
			res = v
		}
		if v := rec(b.high(m)); v > res {
			res = v
		}
		return res
	}
	res := rec(*n)
	if res < 0 {
		return 0
	}
	return Var(res)
}

// ************************************************************

// Satcount computes the number of satisfying variable assignments for the
// function denoted by n, with respect to the variables defined in the engine.
// We return a result using arbitrary-precision arithmetic to avoid possible
// overflows. The result is zero (and we set the error flag of b) if there is
// an error.
func (b *Engine) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if b.checkptr(n) != nil {
		b.seterror("wrong operand in call to Satcount (%v)", n)
		return res
	}
	// We compute 2^level with a bit shift 1 << level
	res.SetBit(res, int(b.level(*n)), 1)
	satc := make(map[int]*big.Int)
	return res.Mul(res, b.satcount(*n, satc))
}

func (b *Engine) satcount(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	// we use satc to memoize the value of satcount for each node
	res, ok := satc[n]
	if ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)

	res = big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(b.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(low, satc)))
	two = big.NewInt(0)
	two.SetBit(two, int(b.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(high, satc)))
	satc[n] = res
	return res
}

// ************************************************************

// Allsat iterates through all legal variable assignments for n and calls the
// function f on each of them. We pass an int slice of length varnum to f
// where each entry is either 0 if the variable is false, 1 if it is true, and
// -1 if it is a don't care. We stop and return an error if f returns an error
// at some point.
func (b *Engine) Allsat(n Node, f func([]int) error) error {
	if b.checkptr(n) != nil {
		return errors.Errorf("wrong node in call to Allsat (%v)", n)
	}
	prof := make([]int, b.varnum)
	for k := range prof {
		prof[k] = -1
	}
	// the function does not create new nodes, so we do not need to take care
	// of possible resizing
	return b.allsat(*n, prof, f)
}

func (b *Engine) allsat(n int, prof []int, f func([]int) error) error {
	if n == 1 {
		return f(prof)
	}
	if n == 0 {
		return nil
	}
	if low := b.low(n); low != 0 {
		prof[b.level(n)] = 0
		for v := b.level(low) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(low, prof, f); err != nil {
			return err
		}
	}
	if high := b.high(n); high != 0 {
		prof[b.level(n)] = 1
		for v := b.level(high) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(high, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// ************************************************************

// Allnodes applies function f over all the nodes accessible from the nodes in
// the sequence n..., or all the active nodes if n is absent. The parameters
// to function f are the id, level, and id's of the low and high successors of
// each node. The two constant nodes (True and False) have always the id 1 and
// 0, respectively. The order in which nodes are visited is not specified; we
// stop the computation and return an error if f returns an error at some
// point.
func (b *Engine) Allnodes(f func(id int, level Var, low, high int) error, n ...Node) error {
	for _, v := range n {
		if b.checkptr(v) != nil {
			return errors.Errorf("wrong node in call to Allnodes (%v)", v)
		}
	}
	// the function does not create new nodes, so we do not need to take care
	// of possible resizing
	if len(n) == 0 {
		return b.allnodes(f)
	}
	return b.allnodesfrom(f, n)
}

func (b *Engine) allnodesfrom(f func(id int, level Var, low, high int) error, n []Node) error {
	for _, v := range n {
		b.markrec(*v)
	}
	if err := f(0, Var(b.level(0)), 0, 0); err != nil {
		b.unmarkall()
		return err
	}
	if err := f(1, Var(b.level(1)), 1, 1); err != nil {
		b.unmarkall()
		return err
	}
	for k := range b.nodes {
		if k > 1 && b.ismarked(k) {
			b.unmarknode(k)
			if err := f(k, Var(b.level(k)), b.nodes[k].low, b.nodes[k].high); err != nil {
				b.unmarkall()
				return err
			}
		}
	}
	return nil
}

func (b *Engine) allnodes(f func(id int, level Var, low, high int) error) error {
	if err := f(0, Var(b.level(0)), 0, 0); err != nil {
		return err
	}
	if err := f(1, Var(b.level(1)), 1, 1); err != nil {
		return err
	}
	for k, v := range b.nodes {
		if k > 1 && v.low != -1 {
			if err := f(k, Var(b.level(k)), v.low, v.high); err != nil {
				return err
			}
		}
	}
	return nil
}
