// Package coarse provides the trivial single-mutex baseline mentioned
// in passing alongside the two concurrency strategies this module
// actually studies: one global lock around the sequential kernel.
// Useful as a throughput floor in benchmarks, nothing more.
package coarse

import (
	"cmp"
	"sync"

	"bptree/node"
	"bptree/seq"
)

// Tree wraps a seq.Tree behind one mutex. Every operation serializes
// completely; there is no latch-coupling or batching here.
type Tree[K cmp.Ordered] struct {
	mu   sync.Mutex
	tree *seq.Tree[K]
}

// New constructs an empty coarse-grained tree of the given order.
func New[K cmp.Ordered](order int) *Tree[K] {
	return &Tree[K]{tree: seq.New[K](order)}
}

func (t *Tree[K]) Insert(k K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Insert(k)
}

func (t *Tree[K]) Remove(k K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Remove(k)
}

func (t *Tree[K]) Get(k K) (K, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Get(k)
}

func (t *Tree[K]) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Size()
}

func (t *Tree[K]) Keys() []K {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Keys()
}

func (t *Tree[K]) CheckInvariants() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.CheckInvariants()
}

// Dummy exposes the sentinel root for diagnostic callers (debugprint).
// The mutex is held only while the pointer is read; walking the
// returned nodes is not protected from a concurrent writer, unlike
// CheckInvariants and Keys, which hold it for the whole walk.
func (t *Tree[K]) Dummy() *node.Node[K] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Dummy()
}
