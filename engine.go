// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"math"
	"runtime"
	"sync/atomic"
)

// Engine is a hash-consed store of reduced ordered BDD nodes. It keeps a
// unique table associating each triplet (variable, low branch, high branch)
// with a single node, so that two structurally equal BDDs are always
// represented by the same node (see Equal). Variables are created on demand:
// referencing variable v grows the variable table up to v.
//
// An Engine is not safe for concurrent use; operations on it are deterministic
// functions of their inputs.
type Engine struct {
	nodes         []enode                // List of all the BDD nodes. Constants are always kept at index 0 and 1
	unique        map[[huddsize]byte]int // Unicity table, used to associate each triplet to a single node
	hbuff         [huddsize]byte         // Used to compute the hash of nodes. Needs no initialization
	varnum        int32                  // Number of BDD variables currently defined
	varset        [][2]int               // For each variable, the nodes for its positive and negative occurrence
	refstack      []int                  // Internal node reference stack, protecting intermediate results from GC
	freepos       int                    // First free node
	freenum       int                    // Number of free nodes
	produced      int                    // Total number of new nodes ever produced
	gclock        int                    // Reentrant counter; while positive, GC is deferred and we only resize
	error         error                  // Sticky error status to help chain operations
	nodefinalizer interface{}            // Finalizer used to decrement the ref count of external references
	replaceid     int                    // Unique identifier used for caching renamings
	quantset      []int32                // Current variable set for quantifications
	quantsetID    int32                  // Current id used in quantset
	quantlast     int32                  // Current last variable to be quantified
	gcstat                               // Information about garbage collections
	cacheStat                            // Information about the caches
	applycache                           // Cache for apply results
	itecache                             // Cache for ITE results
	quantcache                           // Cache for project results
	appexcache                           // Cache for combined apply/project results
	replacecache                         // Cache for rename results
	*configs                             // Configurable parameters
}

// gcstat stores status information about garbage collections.
type gcstat struct {
	setfinalizers    uint64    // Total number of external references to BDD nodes
	calledfinalizers uint64    // Number of external references that were freed
	history          []gcpoint // Snapshot of GC stats at each occurrence
}

type gcpoint struct {
	nodes     int // Total number of allocated nodes in the node table
	freenodes int // Number of free nodes in the node table
}

// New initializes a new Engine. The initial number of nodes is not critical
// since the table is resized whenever there are too few nodes left after a
// garbage collection, but it does have some impact on the efficiency of the
// operations.
func New(options ...Option) *Engine {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	b := &Engine{configs: c}
	nodesize := primeGTE(c.nodesize)
	b.nodes = make([]enode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = enode{
			level:  0,
			low:    -1,
			high:   k + 1,
			refcou: 0,
		}
	}
	b.nodes[nodesize-1].high = 0
	b.unique = make(map[[huddsize]byte]int, nodesize)
	// Constants are never added to the unique table; their level is kept equal
	// to varnum so that they are always greater than any variable.
	b.nodes[0] = enode{level: 0, low: 0, high: 0, refcou: _MAXREFCOUNT}
	b.nodes[1] = enode{level: 0, low: 1, high: 1, refcou: _MAXREFCOUNT}
	b.freepos = 2
	b.freenum = nodesize - 2
	b.refstack = make([]int, 0, 64)
	b.initref()
	b.varset = make([][2]int, 0)
	b.quantset = make([]int32, 0)
	b.cacheinit(c.cachesize, c.cacheratio)
	b.gcstat.history = []gcpoint{}
	b.nodefinalizer = func(n *int) {
		atomic.AddUint64(&(b.gcstat.calledfinalizers), 1)
		b.nodes[*n].refcou--
	}
	b.log.WithField("nodesize", nodesize).Debug("initialized BDD engine")
	return b
}

// Varnum returns the number of defined variables.
func (b *Engine) Varnum() int {
	return int(b.varnum)
}

// ensure grows the variable table so that variable v becomes valid. Each
// variable is materialized by two stuck nodes, for its positive and negative
// occurrence, like in the BuDDy library.
func (b *Engine) ensure(v Var) bool {
	if int32(v) < b.varnum {
		return true
	}
	if int32(v) >= _MAXVAR {
		b.seterror("too many variables (%d) in call to ensure", v)
		return false
	}
	newvarnum := int32(v) + 1
	// Constants always have the highest level; they are not hashed in the
	// unique table so we can relabel them freely.
	b.nodes[0].level = newvarnum
	b.nodes[1].level = newvarnum
	for k := b.varnum; k < newvarnum; k++ {
		v0 := b.makenode(k, 0, 1)
		if v0 < 0 {
			b.seterror("cannot allocate variable %d in call to ensure", k)
			return false
		}
		b.pushref(v0)
		v1 := b.makenode(k, 1, 0)
		b.popref(1)
		if v1 < 0 {
			b.seterror("cannot allocate variable %d in call to ensure", k)
			return false
		}
		b.nodes[v0].refcou = _MAXREFCOUNT
		b.nodes[v1].refcou = _MAXREFCOUNT
		b.varset = append(b.varset, [2]int{v0, v1})
	}
	b.varnum = newvarnum
	b.quantset = make([]int32, b.varnum)
	b.quantsetID = 0
	// quantification ids restart from scratch, so the caches built from them
	// cannot be trusted anymore
	b.quantcache.cachereset()
	b.appexcache.cachereset()
	return true
}

// ************************************************************

// True returns the constant true BDD.
func (b *Engine) True() Node {
	return bddone
}

// False returns the constant false BDD.
func (b *Engine) False() Node {
	return bddzero
}

// Leaf returns a constant Node from a boolean value.
func (b *Engine) Leaf(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// VarTrue returns a BDD representing variable v; that is the function that is
// true exactly when v is true. The variable table grows as needed.
func (b *Engine) VarTrue(v Var) Node {
	if !b.ensure(v) {
		return nil
	}
	// we do not need to reference count variables
	return inode(b.varset[v][0])
}

// VarFalse returns a BDD representing the negation of variable v. See VarTrue
// for further info.
func (b *Engine) VarFalse(v Var) Node {
	if !b.ensure(v) {
		return nil
	}
	return inode(b.varset[v][1])
}

// Label returns the variable (index) corresponding to node n. We set the
// engine to its error state if we try to access a constant node.
func (b *Engine) Label(n Node) Var {
	if b.checkptr(n) != nil {
		b.seterror("illegal access to node %v in call to Label", n)
		return 0
	}
	if *n < 2 {
		b.seterror("try to access label of constant node")
		return 0
	}
	return Var(b.level(*n))
}

// VarOf is a synonym of Label; it is the name used in the Constraint
// interface.
func (b *Engine) VarOf(n Node) Var {
	return b.Label(n)
}

// Low returns the false branch of node n, or nil if there is an error.
func (b *Engine) Low(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("illegal access to node %v in call to Low", n)
	}
	return b.retnode(b.nodes[*n].low)
}

// High returns the true branch of node n.
func (b *Engine) High(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("illegal access to node %v in call to High", n)
	}
	return b.retnode(b.nodes[*n].high)
}

// Else is a synonym of Low.
func (b *Engine) Else(n Node) Node {
	return b.Low(n)
}

// Then is a synonym of High.
func (b *Engine) Then(n Node) Node {
	return b.High(n)
}

// IsLeaf reports whether n is one of the two constant nodes.
func (b *Engine) IsLeaf(n Node) bool {
	return *n < 2
}

// LeafValue returns the value of a constant node.
func (b *Engine) LeafValue(n Node) bool {
	return *n == 1
}

// Equal tests equivalence between nodes. Since nodes are hash-consed, two
// BDDs denote the same function exactly when their node addresses are equal.
func (b *Engine) Equal(low, high Node) bool {
	if low == high {
		return true
	}
	if low == nil || high == nil {
		return false
	}
	return *low == *high
}

// NodeCount returns the number of active nodes in the engine.
func (b *Engine) NodeCount() int {
	return len(b.nodes) - b.freenum
}

// ************************************************************

// checkptr returns an error if we try to access an invalid node.
func (b *Engine) checkptr(n Node) error {
	if n == nil {
		return errReset
	}
	if *n < 0 || *n >= len(b.nodes) {
		return errReset
	}
	if *n >= 2 && b.nodes[*n].low == -1 {
		return errReset
	}
	return nil
}

// ************************************************************

// level, low and high give raw access to the node table during recursions.

func (b *Engine) level(n int) int32 {
	return b.nodes[n].level & 0x1FFFFF
}

func (b *Engine) low(n int) int {
	return b.nodes[n].low
}

func (b *Engine) high(n int) int {
	return b.nodes[n].high
}

// ************************************************************

func (b *Engine) nodehashkey(level int32, low, high int) {
	b.hbuff[0] = byte(level)
	b.hbuff[1] = byte(level >> 8)
	b.hbuff[2] = byte(level >> 16)
	b.hbuff[3] = byte(level >> 24)
	b.hbuff[4] = byte(low)
	b.hbuff[5] = byte(low >> 8)
	b.hbuff[6] = byte(low >> 16)
	b.hbuff[7] = byte(low >> 24)
	if huddsize == 20 {
		// 64 bits machine
		b.hbuff[8] = byte(low >> 32)
		b.hbuff[9] = byte(low >> 40)
		b.hbuff[10] = byte(low >> 48)
		b.hbuff[11] = byte(low >> 56)
		b.hbuff[12] = byte(high)
		b.hbuff[13] = byte(high >> 8)
		b.hbuff[14] = byte(high >> 16)
		b.hbuff[15] = byte(high >> 24)
		b.hbuff[16] = byte(high >> 32)
		b.hbuff[17] = byte(high >> 40)
		b.hbuff[18] = byte(high >> 48)
		b.hbuff[19] = byte(high >> 56)
		return
	}
	// 32 bits machine
	b.hbuff[8] = byte(high)
	b.hbuff[9] = byte(high >> 8)
	b.hbuff[10] = byte(high >> 16)
	b.hbuff[11] = byte(high >> 24)
}

func (b *Engine) nodehash(level int32, low, high int) (int, bool) {
	b.nodehashkey(level, low, high)
	hn, ok := b.unique[b.hbuff]
	return hn, ok
}

// When a slot is unused in b.nodes, we have low set to -1 and high set to the
// next free position. The value of b.freepos gives the index of the lowest
// unused slot, except when freenum is 0, in which case it is also 0.

func (b *Engine) setnode(level int32, low int, high int, count int32) int {
	b.nodehashkey(level, low, high)
	b.freenum--
	b.unique[b.hbuff] = b.freepos
	res := b.freepos
	b.freepos = b.nodes[b.freepos].high
	b.nodes[res] = enode{level, low, high, count}
	return res
}

func (b *Engine) delnode(hn enode) {
	b.nodehashkey(hn.level, hn.low, hn.high)
	delete(b.unique, b.hbuff)
}

// retnode builds an external reference (a Node) for the node at index n. The
// reference count of n is incremented and a finalizer is set so that the
// count drops when the Go runtime collects the reference.
func (b *Engine) retnode(n int) Node {
	if n < 0 || n >= len(b.nodes) {
		b.log.WithField("node", n).Debug("invalid node in retnode")
		return nil
	}
	if n == 0 {
		return bddzero
	}
	if n == 1 {
		return bddone
	}
	x := n
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
		atomic.AddUint64(&(b.setfinalizers), 1)
		runtime.SetFinalizer(&x, b.nodefinalizer)
	}
	return &x
}

// makenode is the only way to create a new node; it first looks for an
// existing node in the unique table and may trigger a garbage collection, or
// a resize of the node table, when there is no free position left. It returns
// -1 when the engine runs out of memory.
func (b *Engine) makenode(level int32, low int, high int) int {
	b.uniqueAccess++
	// check whether children are equal, in which case we can skip the node
	if low == high {
		return low
	}
	if low < 0 || high < 0 {
		return -1
	}
	// otherwise try to find an existing node using the unique table
	if res, ok := b.nodehash(level, low, high); ok {
		b.uniqueHit++
		return res
	}
	b.uniqueMiss++
	// If there is no existing node, we build one. If there is no available
	// spot (b.freepos == 0), we try garbage collection and, as a last resort,
	// resizing the node list.
	if b.freepos == 0 {
		if b.gclock == 0 {
			b.gbc()
		}
		// We also test if we are under the threshold for resizing.
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			if err := b.noderesize(); err != nil {
				b.seterror("cannot resize node table")
				return -1
			}
		}
		// Fail if we still have no free positions after all this.
		if b.freepos == 0 {
			b.seterror("unable to free memory or resize BDD")
			return -1
		}
	}
	b.produced++
	return b.setnode(level, low, high, 0)
}

// ************************************************************

// AddRef increases the reference count on node n and returns n so that calls
// can be easily chained together. A call to AddRef can never raise an error,
// even if we access an unused node or a value outside the range of the BDD.
func (b *Engine) AddRef(n Node) Node {
	if n == nil || *n < 2 || *n >= len(b.nodes) {
		return n
	}
	if b.nodes[*n].low == -1 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on node n and returns n so that calls
// can be easily chained together. Like with AddRef, a call to DelRef can
// never raise an error.
func (b *Engine) DelRef(n Node) Node {
	if n == nil || *n < 2 || *n >= len(b.nodes) {
		return n
	}
	if b.nodes[*n].low == -1 {
		return n
	}
	if b.nodes[*n].refcou <= 0 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou--
	}
	return n
}

// LockGC defers garbage collection until a matching call to UnlockGC. The
// counter is reentrant: GC stays deferred while the number of calls to LockGC
// exceeds the number of calls to UnlockGC. While GC is deferred, the engine
// resizes its node table instead of collecting when it runs out of space.
func (b *Engine) LockGC() {
	b.gclock++
}

// UnlockGC releases one level of the GC lock taken with LockGC.
func (b *Engine) UnlockGC() {
	if b.gclock > 0 {
		b.gclock--
	}
}

// GC explicitly starts a garbage collection of unused nodes, unless GC is
// currently locked. A node is unused when its reference count is zero and it
// is not reachable from a node that is kept.
func (b *Engine) GC() {
	if b.gclock > 0 {
		return
	}
	b.gbc()
}

// gbc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free positions available. Allocated nodes that
// are not reclaimed do not move.
func (b *Engine) gbc() {
	b.log.WithField("nodes", len(b.nodes)).WithField("free", b.freenum).Debug("starting GC")

	// We could explicitly ask the runtime to run its GC so that we can
	// decrement the ref counts of Nodes that had an external reference. This
	// is blocking. Frequent GC is time consuming, but with fewer GC we can
	// experience more resizing events.
	//
	// runtime.GC()

	b.gcstat.history = append(b.gcstat.history, gcpoint{
		nodes:     len(b.nodes),
		freenodes: b.freenum,
	})
	// we mark the nodes in the refstack to avoid collecting them
	for _, r := range b.refstack {
		b.markrec(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such as variables)
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to void the unmarked nodes. After
	// finishing this pass, b.freepos points to the first free position in
	// b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].low != -1) {
			b.unmarknode(n)
		} else {
			if b.nodes[n].low != -1 {
				b.delnode(b.nodes[n])
			}
			b.nodes[n].low = -1
			b.nodes[n].high = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	// the caches may now reference dead nodes, so we invalidate them
	b.cachereset()
	b.log.WithField("free", b.freenum).Debug("end GC")
}

func (b *Engine) noderesize() error {
	oldsize := len(b.nodes)
	nodesize := len(b.nodes)
	if (oldsize >= b.maxnodesize) && (b.maxnodesize > 0) {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if b.maxnodeincrease > 0 && nodesize > (oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if (nodesize > b.maxnodesize) && (b.maxnodesize > 0) {
		nodesize = b.maxnodesize
	}
	if nodesize <= oldsize {
		return errMemory
	}
	b.log.WithField("from", oldsize).WithField("to", nodesize).Debug("resizing node table")

	tmp := b.nodes
	b.nodes = make([]enode, nodesize)
	copy(b.nodes, tmp)

	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].refcou = 0
		b.nodes[n].level = 0
		b.nodes[n].low = -1
		b.nodes[n].high = n + 1
	}
	b.nodes[nodesize-1].high = b.freepos
	b.freepos = oldsize
	b.freenum += (nodesize - oldsize)

	b.cacheresize()
	return nil
}

// ************************************************************
// Recursive mark / unmark

func (b *Engine) markrec(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

func (b *Engine) unmarkall() {
	for k := range b.nodes {
		if k < 2 || !b.ismarked(k) || (b.nodes[k].low == -1) {
			continue
		}
		b.unmarknode(k)
	}
}

// ************************************************************
// Private functions to manipulate the refstack; used to prevent nodes that
// are currently being built (e.g. transient nodes built during an apply) from
// being reclaimed during GC.

func (b *Engine) initref() {
	b.refstack = b.refstack[:0]
}

func (b *Engine) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}

func (b *Engine) popref(a int) {
	b.refstack = b.refstack[:len(b.refstack)-a]
}
