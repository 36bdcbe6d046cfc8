// Package seq implements the single-threaded B+ tree kernel: the
// insert/split and delete/borrow/merge primitives that assume the
// caller already has exclusive access to every node they touch (spec
// §4.2-§4.5). Tree is the sequential reference oracle; the latch
// package reuses the exported mutation primitives (Split, Rebalance,
// DescendToLeaf, InsertKey, RemoveKey) under its own crab-latching
// descent instead of this package's plain unlatched one.
package seq

import (
	"cmp"
	"fmt"

	"bptree/node"
)

// Tree is the sequential, non-concurrent reference implementation
// used both as a building block (embedded conceptually by latch.Tree)
// and as the test oracle spec §8 properties are checked against.
type Tree[K cmp.Ordered] struct {
	order int
	dummy *node.Node[K]
	size  int
}

// New constructs an empty tree of the given branching factor.
func New[K cmp.Ordered](order int) *Tree[K] {
	if order < 3 {
		panic(fmt.Sprintf("seq: order must be >= 3, got %d", order))
	}
	return &Tree[K]{order: order, dummy: node.NewDummyRoot[K]()}
}

// Order returns the branching factor fixed at construction.
func (t *Tree[K]) Order() int { return t.order }

// Size returns the number of keys currently stored.
func (t *Tree[K]) Size() int { return t.size }

// Dummy exposes the sentinel root, for packages (latch, debugprint,
// replay) that need to walk or wrap the same node graph.
func (t *Tree[K]) Dummy() *node.Node[K] { return t.dummy }

// Keys returns every stored key in ascending order via the leaf chain
// (spec §8 property 2).
func (t *Tree[K]) Keys() []K { return node.Collect(t.dummy) }

// CheckInvariants walks the tree verifying spec §3.3 invariants 1-7.
func (t *Tree[K]) CheckInvariants() error {
	return node.CheckInvariants(t.dummy, t.order, MinKeys(t.order))
}

// MinKeys is the universal structural floor from spec §3.3 invariant
// 4: every non-root node has at least floor((ORDER-1)/2) keys.
func MinKeys(order int) int { return (order - 1) / 2 }

// IsHalfFull and MoreHalfFull implement the latched variant's chosen
// threshold (spec §3.1: floor(ORDER/2)), used by both seq and latch
// since latch reuses this package's Split/Rebalance unmodified.
func IsHalfFull(order, numKeys int) bool   { return numKeys >= order/2 }
func MoreHalfFull(order, numKeys int) bool { return numKeys > order/2 }

// insertAt inserts v at index idx in s, shifting the tail right.
func insertAt[T any](s []T, idx int, v T) []T {
	s = append(s, v)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

// removeAt removes the element at index idx from s.
func removeAt[T any](s []T, idx int) []T {
	copy(s[idx:], s[idx+1:])
	return s[:len(s)-1]
}
