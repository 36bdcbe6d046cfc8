// Package latch implements the fine-grained crab-latching B+ tree
// (spec §4.6): every node carries its own read/write latch, readers
// lock-couple with shared latches, and writers descend exclusively,
// releasing ancestor latches as soon as a "safe" node proves a
// structural change cannot propagate further up. Once a write
// descent reaches its target, the actual mutation is delegated to the
// seq package's primitives (InsertKey, RemoveKey, Split, Rebalance),
// which assume exactly the exclusive access a writer's retained latch
// chain provides.
package latch

import (
	"cmp"
	"sync/atomic"

	"github.com/golang/glog"

	"bptree/node"
	"bptree/seq"
)

// Tree is a concurrency-safe B+ tree using per-node latches. The zero
// value is not usable; construct with New.
type Tree[K cmp.Ordered] struct {
	order int
	dummy *node.Node[K]
	size  atomic.Int64
}

// New constructs an empty latched tree of the given branching factor.
func New[K cmp.Ordered](order int) *Tree[K] {
	if order < 3 {
		glog.Fatalf("latch: order must be >= 3, got %d", order)
	}
	return &Tree[K]{order: order, dummy: node.NewDummyRoot[K]()}
}

// Order returns the branching factor fixed at construction.
func (t *Tree[K]) Order() int { return t.order }

// Size returns the number of keys currently stored. Safe to call
// concurrently with any other operation; it does not latch anything.
func (t *Tree[K]) Size() int { return int(t.size.Load()) }

// Dummy exposes the sentinel root for diagnostic callers (debugprint)
// that need to walk the node graph directly. Callers that aren't the
// tree itself should treat it as read-only and not assume it's latched.
func (t *Tree[K]) Dummy() *node.Node[K] { return t.dummy }

// Get performs a shared lock-coupling descent (spec §4.6 "Read
// descent"): the root is latched shared, then at each level the child
// is latched shared before the parent is released, so a writer can
// never observe a reader mid-structural-change and vice versa.
func (t *Tree[K]) Get(k K) (K, bool) {
	t.dummy.RLock()
	cur := t.dummy
	for !cur.IsLeaf {
		child := cur.Children[cur.GtKeyIndex(k)]
		child.RLock()
		cur.RUnlock()
		cur = child
	}
	defer cur.RUnlock()
	if cur.IsDummy {
		var zero K
		return zero, false
	}
	idx, found := cur.Find(k)
	if !found {
		var zero K
		return zero, false
	}
	return cur.Keys[idx], true
}

// CheckInvariants takes the dummy root's latch exclusively, blocking
// out concurrent writers, and walks the tree verifying spec §3.3
// invariants 1-7. Intended for tests between operations, not for
// production hot paths.
func (t *Tree[K]) CheckInvariants() error {
	t.dummy.Lock()
	defer t.dummy.Unlock()
	return node.CheckInvariants(t.dummy, t.order, seq.MinKeys(t.order))
}

// Keys returns every stored key in ascending order, taking and
// releasing each leaf's shared latch in turn as it walks the chain so
// no single latch is held for the whole traversal.
func (t *Tree[K]) Keys() []K {
	t.dummy.RLock()
	leaf := node.LeftmostLeaf(t.dummy)
	t.dummy.RUnlock()

	var out []K
	for leaf != nil {
		leaf.RLock()
		out = append(out, leaf.Keys...)
		next := leaf.Next
		leaf.RUnlock()
		leaf = next
	}
	return out
}
