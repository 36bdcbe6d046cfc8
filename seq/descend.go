package seq

import (
	"cmp"

	"bptree/node"
)

// DescendToLeaf walks from root (the dummy sentinel, or any subtree
// root) down to the leaf that would contain k, following the
// GtKeyIndex routing rule at every internal node (spec §4.1). On an
// empty tree the dummy root itself has IsLeaf set, so the loop never
// executes and DescendToLeaf returns the dummy — callers check
// leaf.IsDummy rather than for a nil result. Because it only reads
// Keys/Children, it doubles as the PALM SEARCH stage's descent
// (spec §4.7) when nothing else is mutating the tree concurrently
// with it.
func DescendToLeaf[K cmp.Ordered](root *node.Node[K], k K) *node.Node[K] {
	n := root
	for !n.IsLeaf {
		n = n.Children[n.GtKeyIndex(k)]
	}
	return n
}
