package latch

import (
	"cmp"

	"bptree/node"
)

// isSafeForInsert reports whether n cannot overflow as a result of a
// single key insertion descending through it, i.e. it has no risk of
// needing to split (spec §4.6).
func isSafeForInsert[K cmp.Ordered](order int, n *node.Node[K]) bool {
	return n.NumKeys() < order-1
}

// isSafeForDelete reports whether n cannot underflow as a result of a
// single key deletion descending through it: it must have strictly
// more keys than the latched variant's own half-full rebalance
// trigger, IsHalfFull = floor(ORDER/2) (seq.IsHalfFull), and, for
// internal nodes, strictly more than floor(ORDER/2) children. The
// threshold here must match IsHalfFull's, not the universal structural
// floor floor((ORDER-1)/2): a node judged "safe" releases its
// ancestors during descent, so if losing one key could still drop it
// to or below the trigger that fires Rebalance, that rebalance may
// need to reach past an ancestor whose latch was already released.
func isSafeForDelete[K cmp.Ordered](order int, n *node.Node[K]) bool {
	minKeys := order / 2
	if n.NumKeys() <= minKeys {
		return false
	}
	if !n.IsLeaf && n.NumChildren() <= order/2 {
		return false
	}
	return true
}
