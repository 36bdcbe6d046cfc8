package seq

import (
	"cmp"

	"bptree/node"
)

// Remove deletes k from the tree, returning false if it wasn't
// present. A leaf that falls below the half-full threshold afterward
// triggers Rebalance (spec §4.2 step 4), which also covers the
// root-leaf case where there is nothing to borrow from or merge with.
func (t *Tree[K]) Remove(k K) bool {
	leaf := DescendToLeaf(t.dummy, k)
	if leaf.IsDummy {
		return false
	}
	if !RemoveKey(leaf, k) {
		return false
	}
	t.size--
	if !IsHalfFull(t.order, leaf.NumKeys()) {
		Rebalance(t.order, leaf)
	}
	return true
}

// RemoveKey deletes k from leaf's key run if present, reporting
// whether it was found. It never rebalances; callers check
// leaf.NumKeys() against the half-full threshold and call Rebalance
// themselves.
func RemoveKey[K cmp.Ordered](leaf *node.Node[K], k K) bool {
	idx, found := leaf.Find(k)
	if !found {
		return false
	}
	leaf.Keys = removeAt(leaf.Keys, idx)
	return true
}

// Get reports the stored key equal to k, if any (identity lookup;
// with a plain cmp.Ordered key this just confirms presence).
func (t *Tree[K]) Get(k K) (K, bool) {
	leaf := DescendToLeaf(t.dummy, k)
	if leaf.IsDummy {
		var zero K
		return zero, false
	}
	idx, found := leaf.Find(k)
	if !found {
		var zero K
		return zero, false
	}
	return leaf.Keys[idx], true
}
