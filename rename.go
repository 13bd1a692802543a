// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"fmt"
	"sort"
)

// VarMap is a substitution of variables, implicitly the identity on the
// variables that are not mentioned. It is the parameter of Rename.
type VarMap map[Var]Var

func (m VarMap) String() string {
	keys := m.sources()
	res := "["
	for i, u := range keys {
		if i > 0 {
			res += ", "
		}
		res += fmt.Sprintf("%d<-%d", m[u], u)
	}
	return res + "]"
}

// sources returns the variables moved by m, in increasing order.
func (m VarMap) sources() []Var {
	keys := make([]Var, 0, len(m))
	for u := range m {
		keys = append(keys, u)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MapVars builds the mapping that sends the i-th variable of vs1 to the i-th
// variable of vs2. Both domains must be finite and have the same size.
func MapVars(vs1, vs2 Domain) VarMap {
	if vs1.IsInfinite() || vs2.IsInfinite() {
		panic("grel: MapVars called with an infinite domain")
	}
	if vs1.Size() != vs2.Size() {
		panic(fmt.Sprintf("grel: MapVars called with domains of different sizes (%d and %d)", vs1.Size(), vs2.Size()))
	}
	res := make(VarMap, vs1.Size())
	i1 := vs1.Iter()
	i2 := vs2.Iter()
	for {
		u, ok := i1.Next()
		if !ok {
			break
		}
		v, _ := i2.Next()
		res[u] = v
	}
	return res
}

// ************************************************************

// Rename computes the result of n after replacing every variable u with m[u].
// The substitution is applied simultaneously: it is correct even when the map
// breaks the variable order, as long as no two variables are mapped to the
// same one. For order-preserving maps we use a direct relabeling of the
// nodes; in the general case we build the result by doubling the variable
// space, conjoining a biimplication per mapped pair, and projecting the old
// positions away.
func (b *Engine) Rename(n Node, m VarMap) Node {
	if b.checkptr(n) != nil {
		return b.seterror("wrong operand in call to Rename (%v)", n)
	}
	// drop identity pairs; they have no effect but would confuse the
	// order-preserving test
	moved := make(VarMap, len(m))
	for u, v := range m {
		if u != v {
			moved[u] = v
		}
	}
	if len(moved) == 0 {
		return n
	}
	for u, v := range moved {
		if !b.ensure(u) || !b.ensure(v) {
			return nil
		}
	}
	if b.orderPreserving(moved) {
		return b.replace(n, moved)
	}
	return b.renameGeneral(n, moved)
}

// orderPreserving reports whether the extension of m to all the variables of
// the engine is strictly increasing, in which case a renamed BDD keeps the
// same node structure.
func (b *Engine) orderPreserving(m VarMap) bool {
	last := int64(-1)
	for v := Var(0); int32(v) < b.varnum; v++ {
		image := v
		if w, ok := m[v]; ok {
			image = w
		}
		if int64(image) <= last {
			return false
		}
		last = int64(image)
	}
	return true
}

// ************************************************************

// replace is the fast path of Rename. It relabels the nodes of n following
// the variable order, using the rename cache for memoization.
func (b *Engine) replace(n Node, m VarMap) Node {
	image := make([]int32, b.varnum)
	last := int32(-1)
	for k := range image {
		image[k] = int32(k)
	}
	for u, v := range m {
		image[u] = int32(v)
		if int32(u) > last {
			last = int32(u)
		}
	}
	b.replaceid++
	b.replacecache.id = (b.replaceid << 1) | cacheid_RENAME
	b.initref()
	b.pushref(*n)
	res := b.retnode(b.replacerec(*n, image, last))
	b.popref(1)
	return res
}

func (b *Engine) replacerec(n int, image []int32, last int32) int {
	if n < 2 || b.level(n) > last {
		return n
	}
	if res := b.matchreplace(n); res >= 0 {
		return res
	}
	low := b.pushref(b.replacerec(b.low(n), image, last))
	high := b.pushref(b.replacerec(b.high(n), image, last))
	res := b.correctify(image[b.level(n)], low, high)
	b.popref(2)
	return b.setreplace(n, res)
}

// correctify inserts a test on variable level above the nodes low and high,
// pushing the test down to its correct place when low or high already test
// smaller variables.
func (b *Engine) correctify(level int32, low, high int) int {
	if (level < b.level(low)) && (level < b.level(high)) {
		return b.makenode(level, low, high)
	}
	if (level == b.level(low)) || (level == b.level(high)) {
		b.seterror("variable collision in call to Rename (level %d)", level)
		return -1
	}
	if b.level(low) == b.level(high) {
		left := b.pushref(b.correctify(level, b.low(low), b.low(high)))
		right := b.pushref(b.correctify(level, b.high(low), b.high(high)))
		res := b.makenode(b.level(low), left, right)
		b.popref(2)
		return res
	}
	if b.level(low) < b.level(high) {
		left := b.pushref(b.correctify(level, b.low(low), high))
		right := b.pushref(b.correctify(level, b.high(low), high))
		res := b.makenode(b.level(low), left, right)
		b.popref(2)
		return res
	}
	left := b.pushref(b.correctify(level, low, b.low(high)))
	right := b.pushref(b.correctify(level, low, b.high(high)))
	res := b.makenode(b.level(high), left, right)
	b.popref(2)
	return res
}

// ************************************************************

// renameGeneral is the slow path of Rename, valid for maps that break the
// variable order. Every variable v of n is first moved to the even position
// 2v; for each pair u -> v of the map we conjoin the biimplication between
// positions 2u and 2v+1 and project the even position 2u away; the surviving
// positions are finally contracted back, sending 2v+1 to v and 2w to w.
func (b *Engine) renameGeneral(n Node, m VarMap) Node {
	b.LockGC()
	defer b.UnlockGC()
	expanded := b.linearRename(n, func(v Var) Var { return 2 * v })
	mapping := b.True()
	olds := make([]Var, 0, len(m))
	for _, u := range m.sources() {
		v := m[u]
		pair := b.Apply(b.VarTrue(2*u), b.VarTrue(2*v+1), OPbiimp)
		mapping = b.Apply(mapping, pair, OPand)
		olds = append(olds, 2*u)
	}
	if b.Errored() {
		return nil
	}
	combined := b.AppEx(expanded, mapping, OPand, DomainOf(olds...).Contains)
	return b.linearRename(combined, func(v Var) Var { return v / 2 })
}

// linearRename relabels the variables of n with fn, which must be strictly
// increasing on the support of n. GC must be locked by the caller: the
// memoization table used here is not repaired when nodes move.
func (b *Engine) linearRename(n Node, fn func(Var) Var) Node {
	if b.checkptr(n) != nil {
		return b.seterror("wrong operand in call to linear rename (%v)", n)
	}
	cache := make(map[int]int)
	b.initref()
	b.pushref(*n)
	res := b.linrename(*n, fn, cache)
	b.popref(1)
	return b.retnode(res)
}

func (b *Engine) linrename(n int, fn func(Var) Var, cache map[int]int) int {
	if n < 2 {
		return n
	}
	if res, ok := cache[n]; ok {
		return res
	}
	nv := fn(Var(b.level(n)))
	if !b.ensure(nv) {
		return -1
	}
	low := b.pushref(b.linrename(b.low(n), fn, cache))
	high := b.pushref(b.linrename(b.high(n), fn, cache))
	res := b.makenode(int32(nv), low, high)
	b.popref(2)
	cache[n] = res
	return res
}
