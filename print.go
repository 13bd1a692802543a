// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"fmt"
	"io"
	"sort"
	"unsafe"
)

// Print writes a textual expression of the BDD rooted at n, where an internal
// node testing variable i is written (v<i>: then|else) and the two leaves are
// written 1 and 0.
func (b *Engine) Print(w io.Writer, n Node) {
	if b.error != nil {
		fmt.Fprintf(w, "ERROR: %s", b.Error())
		return
	}
	if b.checkptr(n) != nil {
		fmt.Fprintf(w, "ERROR: invalid node")
		return
	}
	b.printrec(w, *n)
}

func (b *Engine) printrec(w io.Writer, n int) {
	if n < 2 {
		fmt.Fprintf(w, "%d", n)
		return
	}
	fmt.Fprintf(w, "(v%d: ", b.level(n))
	b.printrec(w, b.high(n))
	fmt.Fprint(w, "|")
	b.printrec(w, b.low(n))
	fmt.Fprint(w, ")")
}

// NodeString returns a one-line description of node n, mostly useful while
// debugging.
func (b *Engine) NodeString(n Node) string {
	if n == nil {
		return "Error"
	}
	if *n == 0 {
		return "False"
	}
	if *n == 1 {
		return "True"
	}
	if *n < 0 || *n >= len(b.nodes) || b.nodes[*n].low == -1 {
		return fmt.Sprintf("Error (%d not a valid index)", *n)
	}
	return fmt.Sprintf("(%d[%d] ? %d : %d)", *n, b.level(*n), b.high(*n), b.low(*n))
}

// DumpGraph writes a description of the node graph reachable from the nodes
// in n, or of all the active nodes if n is absent, with variables grouped by
// rank. Each line gives the id of a node together with the ids of its high
// and low successors.
func (b *Engine) DumpGraph(w io.Writer, n ...Node) {
	type gnode struct {
		id, low, high int
	}
	ranks := make(map[Var][]gnode)
	b.Allnodes(func(id int, level Var, low, high int) error {
		if id > 1 {
			ranks[level] = append(ranks[level], gnode{id, low, high})
		}
		return nil
	}, n...)
	levels := make([]Var, 0, len(ranks))
	for v := range ranks {
		levels = append(levels, v)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	fmt.Fprintf(w, "0 [leaf false]\n1 [leaf true]\n")
	for _, v := range levels {
		fmt.Fprintf(w, "rank v%d:\n", v)
		nodes := ranks[v]
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
		for _, gn := range nodes {
			fmt.Fprintf(w, "  %d (v%d ? %d : %d)\n", gn.id, v, gn.high, gn.low)
		}
	}
}

// Stats returns information about the engine: the number of variables and
// allocated nodes, how much of the table is in use, and a summary of garbage
// collection activity.
func (b *Engine) Stats() string {
	res := fmt.Sprintf("Varnum:     %d\n", b.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(b.nodes)-b.freenum, (100.0 - r))
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(b.nodes), unsafe.Sizeof(enode{})))
	res += "==============\n"
	res += fmt.Sprintf("# of GC:    %d\n", len(b.gcstat.history))
	res += fmt.Sprintf("Ext. refs:  %d\n", b.gcstat.setfinalizers)
	res += fmt.Sprintf("Reclaimed:  %d\n", b.gcstat.calledfinalizers)
	res += "==============\n"
	res += b.cacheStat.String()
	return res
}

// humanSize returns a human readable version of a size in bytes.
func humanSize(count int, size uintptr) string {
	total := float64(count) * float64(size)
	switch {
	case total >= 1<<30:
		return fmt.Sprintf("%.2f GB", total/(1<<30))
	case total >= 1<<20:
		return fmt.Sprintf("%.2f MB", total/(1<<20))
	case total >= 1<<10:
		return fmt.Sprintf("%.2f KB", total/(1<<10))
	}
	return fmt.Sprintf("%.0f B", total)
}
