// Package debugprint renders a tree's structure as a human-readable
// BFS level dump, the shape the teacher's bplustree/inspect.go prints
// for an on-disk index, applied here to the in-memory node graph
// shared by the latch and palm variants.
package debugprint

import (
	"cmp"
	"fmt"
	"io"
	"unsafe"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"bptree/node"
)

// Printer renders dumps of a tree and remembers, per node, the text
// it last rendered for that node. Repeated Dump calls against a live
// tree (a "watch" loop polling a running latch or palm instance) mark
// nodes whose rendering hasn't changed since the last call, so a
// human watching the output can tell which part of the tree a batch
// actually touched without rereading the whole thing by eye.
type Printer[K cmp.Ordered] struct {
	seen *lru.Cache[uintptr, string]
}

// NewPrinter builds a Printer that remembers up to cacheSize nodes'
// last-rendered text.
func NewPrinter[K cmp.Ordered](cacheSize int) *Printer[K] {
	cache, err := lru.New[uintptr, string](cacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, a programmer
		// error at a call site, not a runtime condition to recover from.
		panic(err)
	}
	return &Printer[K]{seen: cache}
}

func ptrKey[K cmp.Ordered](n *node.Node[K]) uintptr {
	return uintptr(unsafe.Pointer(n))
}

// renderNode matches printKeys' "[childIndex, M:minElem|k1,k2,...]"
// shape, extended with a leaf/internal tag and, for internal nodes,
// the child pointer count.
func renderNode[K cmp.Ordered](n *node.Node[K]) string {
	kind := "LEAF"
	if !n.IsLeaf {
		kind = "INTERNAL"
	}
	if n.IsDummy {
		kind = "DUMMY"
	}
	s := fmt.Sprintf("[%s idx=%d M=%v|", kind, n.ChildIndex, n.MinElem)
	for i, k := range n.Keys {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprint(k)
	}
	s += "]"
	if !n.IsLeaf {
		s += fmt.Sprintf(" children=%d", len(n.Children))
	}
	return s
}

// Dump writes a BFS, level-by-level rendering of the subtree rooted
// at dummy to w, one line per node, prefixed with "~" for a node
// whose rendering is unchanged since this Printer's last Dump call.
func (p *Printer[K]) Dump(w io.Writer, dummy *node.Node[K]) {
	fmt.Fprintf(w, "root (dummy): %d child(ren)\n", len(dummy.Children))
	if len(dummy.Children) == 0 {
		fmt.Fprintln(w, "  (empty tree)")
		return
	}

	queue := []*node.Node[K]{dummy.Children[0]}
	level := 0
	totalKeys, totalNodes := 0, 0
	for len(queue) > 0 {
		fmt.Fprintf(w, "level %d:\n", level)
		var next []*node.Node[K]
		for _, n := range queue {
			text := renderNode(n)
			mark := " "
			if prev, ok := p.seen.Get(ptrKey(n)); ok && prev == text {
				mark = "~"
			}
			p.seen.Add(ptrKey(n), text)
			fmt.Fprintf(w, "  %s%s\n", mark, text)
			totalKeys += n.NumKeys()
			totalNodes++
			next = append(next, n.Children...)
		}
		queue = next
		level++
	}
	fmt.Fprintf(w, "%s keys across %s nodes\n",
		humanize.Comma(int64(totalKeys)), humanize.Comma(int64(totalNodes)))
}
