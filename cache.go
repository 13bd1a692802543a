// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"fmt"
	"math"
)

// cache is used for memoizing the result of the recursive operations of the
// engine (apply, ite, project, rename).
type cache struct {
	cacheratio int // value used to resize the caches as a factor of the number of nodes
	table      []cacheData
}

// cacheStat stores status information about cache usage.
type cacheStat struct {
	uniqueAccess int // accesses to the unique node table
	uniqueHit    int // entries actually found in the the unique node table
	uniqueMiss   int // entries not found in the the unique node table
	opHit        int // entries found in the operator caches
	opMiss       int // entries not found in the operator caches
}

// cacheData is a unit of information stored in the operation caches.
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

type applycache struct {
	cache          // Cache for apply results
	op    Operator // Current operation during an apply
}

type itecache struct {
	cache // Cache for ITE results
}

type quantcache struct {
	cache     // Cache for exist/forall results
	id    int // Current cache id for quantifications
}

// appexcache is a mix of the quant and apply caches, used for the combined
// apply-and-quantify operation.
type appexcache struct {
	cache          // Cache for appex results
	id    int      // Current cache id for quantifications
	op    Operator // Current operator for appex
}

type replacecache struct {
	cache     // Cache for rename results
	id    int // Current cache id for renamings
}

// Hash value modifiers for rename and quantification cache ids.
const cacheid_RENAME int = 0x0
const cacheid_EXPAND int = 0x1
const cacheid_EXIST int = 0x0
const cacheid_APPEX int = 0x3

// Basic functions shared by all caches.

func (bc *cache) cacheinit(size int) {
	size = primeGTE(size)
	bc.table = make([]cacheData, size)
	bc.cachereset()
}

func (bc *cache) cacheresize(size int) {
	if bc.cacheratio > 0 {
		bc.cacheinit((size * bc.cacheratio) / 100)
		return
	}
	bc.cachereset()
}

func (bc *cache) cachereset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// *************************************************************************

func (b *Engine) cacheinit(cachesize int, cacheratio int) {
	if cachesize <= 0 {
		cachesize = len(b.nodes)/5 + 1
	}
	cachesize = primeGTE(cachesize)
	b.applycache.cacheratio = cacheratio
	b.applycache.cacheinit(cachesize)
	b.itecache.cacheratio = cacheratio
	b.itecache.cacheinit(cachesize)
	b.quantcache.cacheratio = cacheratio
	b.quantcache.cacheinit(cachesize)
	b.appexcache.cacheratio = cacheratio
	b.appexcache.cacheinit(cachesize)
	b.replacecache.cacheratio = cacheratio
	b.replacecache.cacheinit(cachesize)
}

func (b *Engine) cachereset() {
	b.applycache.cachereset()
	b.itecache.cachereset()
	b.quantcache.cachereset()
	b.appexcache.cachereset()
	b.replacecache.cachereset()
}

func (b *Engine) cacheresize() {
	b.applycache.cacheresize(len(b.nodes))
	b.itecache.cacheresize(len(b.nodes))
	b.quantcache.cacheresize(len(b.nodes))
	b.appexcache.cacheresize(len(b.nodes))
	b.replacecache.cacheresize(len(b.nodes))
}

// ************************************************************
//
// Quantification cache. We keep the set of quantified levels in a slice
// indexed by level, marked with the current quantification id; this avoids
// clearing the slice between calls.

// predicate2cache loads the set of levels selected by pred in the
// quantification cache. It returns false when no level is selected, in which
// case a projection is the identity.
func (b *Engine) predicate2cache(pred func(Var) bool) bool {
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	found := false
	for i := int32(0); i < b.varnum; i++ {
		if pred(Var(i)) {
			b.quantset[i] = b.quantsetID
			b.quantlast = i
			found = true
		}
	}
	return found
}

// ************************************************************

// String prints information about the cache performance of the engine. The
// information contains the number of accesses to the unique node table, the
// number of times a node was (not) found there, together with hit and miss
// counts for the operator caches.
func (c cacheStat) String() string {
	res := fmt.Sprintf("Unique Access:  %d\n", c.uniqueAccess)
	res += fmt.Sprintf("Unique Hit:     %d\n", c.uniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d\n", c.uniqueMiss)
	res += fmt.Sprintf("Operator Hits:  %d\n", c.opHit)
	res += fmt.Sprintf("Operator Miss:  %d", c.opMiss)
	return res
}
