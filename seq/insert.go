package seq

import (
	"cmp"

	"bptree/node"
)

// Insert adds k to the tree, returning false without modifying
// anything if k is already present. Duplicate keys are rejected
// rather than accumulated, the Open Question decision for this
// package (spec §9).
func (t *Tree[K]) Insert(k K) bool {
	leaf := MaterializeRoot(t.dummy, k)
	if !InsertKey(leaf, k) {
		return false
	}
	t.size++
	if leaf.NumKeys() >= t.order {
		Split(t.order, leaf)
	}
	return true
}

// InsertKey inserts k into leaf's sorted key run, returning false
// without modifying leaf if k is already present. It never splits;
// callers check leaf.NumKeys() against the order themselves and call
// Split when needed, so a latch-holding caller controls exactly when
// the structural change happens.
func InsertKey[K cmp.Ordered](leaf *node.Node[K], k K) bool {
	idx, found := leaf.Find(k)
	if found {
		return false
	}
	leaf.Keys = insertAt(leaf.Keys, idx, k)
	return true
}

// MaterializeRoot is DescendToLeaf plus the one case DescendToLeaf
// can't handle on its own: turning an empty dummy root into the
// parent of a freshly allocated first leaf. Safe to call whether or
// not the tree is already non-empty.
func MaterializeRoot[K cmp.Ordered](dummy *node.Node[K], k K) *node.Node[K] {
	if leaf := DescendToLeaf(dummy, k); !leaf.IsDummy {
		return leaf
	}
	leaf := node.NewLeaf[K]()
	dummy.IsLeaf = false
	dummy.Children = []*node.Node[K]{leaf}
	dummy.ConsolidateChildren()
	return leaf
}
