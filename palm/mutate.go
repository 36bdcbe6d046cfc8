package palm

import (
	"cmp"

	"bptree/node"
)

// bigSplitToRight peels keys off the right end of child into a brand
// new sibling spliced in immediately after it, ported from
// worker.hpp's bigSplitToRight. Unlike the sequential Split (which
// always halves a node), a PALM batch can push a node arbitrarily far
// over capacity in one round, so the amount peeled off is chosen to
// leave the new sibling itself at least half full: the "recursive"
// case below peels a full order-1 keys when the remainder would still
// clear the half-full floor, otherwise it falls back to the minimal
// half-full peel.
func bigSplitToRight[K cmp.Ordered](order int, child *node.Node[K]) *node.Node[K] {
	n := numToPeel(order, child.NumKeys(), child.IsLeaf)
	newNode := peelRight(child, n)
	newNode.Next = child.Next
	newNode.Prev = child
	if child.Next != nil {
		child.Next.Prev = newNode
	}
	child.Next = newNode
	child.UpdateMin()
	newNode.UpdateMin()
	return newNode
}

// bigSplitToLeft is bigSplitToRight's mirror image: the new sibling
// is spliced in immediately before child instead of after it. Used
// whenever child sits at the rightmost position among its parent's
// current children, where splitting right would place the new
// sibling outside the parent's own child range.
func bigSplitToLeft[K cmp.Ordered](order int, child *node.Node[K]) *node.Node[K] {
	n := numToPeel(order, child.NumKeys(), child.IsLeaf)
	newNode := peelLeft(child, n)
	newNode.Prev = child.Prev
	newNode.Next = child
	if child.Prev != nil {
		child.Prev.Next = newNode
	}
	child.Prev = newNode
	child.UpdateMin()
	newNode.UpdateMin()
	return newNode
}

// numToPeel returns the n to pass to peelRight/peelLeft. For a leaf
// that is the number of keys the new sibling receives; for an internal
// node it is a child count, one more than the keys the new sibling
// receives, since the separator in front of the moved children also
// leaves child.
func numToPeel(order, numKeys int, leaf bool) int {
	extra := 0
	if !leaf {
		extra = 1
	}
	if numKeys-(order-1)-extra >= (order-1)/2 {
		return order - 1 + extra
	}
	return (order-1)/2 + extra
}

// peelRight moves the rightmost n keys of a leaf out of child into a
// new node. For an internal node it moves the rightmost n children and
// the n-1 keys between them, and drops the key in front of them (the
// parent rederives its separators from MinElem).
func peelRight[K cmp.Ordered](child *node.Node[K], n int) *node.Node[K] {
	if child.IsLeaf {
		split := len(child.Keys) - n
		newNode := node.NewLeaf[K]()
		newNode.Keys = append(newNode.Keys, child.Keys[split:]...)
		child.Keys = child.Keys[:split:split]
		return newNode
	}
	split := len(child.Children) - n
	newNode := node.NewInternal[K]()
	newNode.Children = append(newNode.Children, child.Children[split:]...)
	newNode.Keys = append(newNode.Keys, child.Keys[split:]...)
	child.Children = child.Children[:split:split]
	child.Keys = child.Keys[:len(child.Keys)-n]
	newNode.ConsolidateChildren()
	return newNode
}

// peelLeft moves the leftmost n keys of a leaf out of child into a new
// node. For an internal node it moves the leftmost n children and the
// n-1 keys between them, and drops the key after them.
func peelLeft[K cmp.Ordered](child *node.Node[K], n int) *node.Node[K] {
	if child.IsLeaf {
		newNode := node.NewLeaf[K]()
		newNode.Keys = append(newNode.Keys, child.Keys[:n]...)
		rest := make([]K, len(child.Keys)-n)
		copy(rest, child.Keys[n:])
		child.Keys = rest
		return newNode
	}
	newNode := node.NewInternal[K]()
	newNode.Children = append(newNode.Children, child.Children[:n]...)
	newNode.Keys = append(newNode.Keys, child.Keys[:n-1]...)
	restChildren := make([]*node.Node[K], len(child.Children)-n)
	copy(restChildren, child.Children[n:])
	child.Children = restChildren
	restKeys := make([]K, len(child.Keys)-n)
	copy(restKeys, child.Keys[n:])
	child.Keys = restKeys
	child.ConsolidateChildren()
	newNode.ConsolidateChildren()
	return newNode
}

// tryBorrow rotates keys (and, for internal nodes, children) from one
// sibling to the other until the needy side clears the half-full
// floor or the donor can give no more, ported from worker.hpp's
// tryBorrow. Unlike a single-step rotation, a batch round can leave a
// node far enough underfull to need several keys at once, hence the
// loop. borrowFromLeft selects which side is the donor; it reports
// whether the needy side ended up half full.
func tryBorrow[K cmp.Ordered](order int, left, right *node.Node[K], borrowFromLeft bool) bool {
	for {
		if borrowFromLeft {
			if isHalfFull(order, right.NumKeys()) {
				return true
			}
			if !moreHalfFull(order, left.NumKeys()) {
				return isHalfFull(order, right.NumKeys())
			}
			rotateOne(left, right, true)
		} else {
			if isHalfFull(order, left.NumKeys()) {
				return true
			}
			if !moreHalfFull(order, right.NumKeys()) {
				return isHalfFull(order, left.NumKeys())
			}
			rotateOne(left, right, false)
		}
	}
}

// rotateOne moves exactly one key (and, for internal nodes, its
// associated child) across the left/right boundary. fromLeft selects
// direction: true moves left's last element to become right's first.
func rotateOne[K cmp.Ordered](left, right *node.Node[K], fromLeft bool) {
	if left.IsLeaf {
		if fromLeft {
			k := left.Keys[len(left.Keys)-1]
			left.Keys = left.Keys[:len(left.Keys)-1]
			right.Keys = append([]K{k}, right.Keys...)
		} else {
			k := right.Keys[0]
			right.Keys = right.Keys[1:]
			left.Keys = append(left.Keys, k)
		}
		left.UpdateMin()
		right.UpdateMin()
		return
	}
	if fromLeft {
		c := left.Children[len(left.Children)-1]
		left.Children = left.Children[:len(left.Children)-1]
		right.Children = append([]*node.Node[K]{c}, right.Children...)
		left.ConsolidateChildren()
		right.ConsolidateChildren()
		left.Keys = keysFromChildren(left.Children)
		right.Keys = keysFromChildren(right.Children)
	} else {
		c := right.Children[0]
		right.Children = right.Children[1:]
		left.Children = append(left.Children, c)
		left.ConsolidateChildren()
		right.ConsolidateChildren()
		left.Keys = keysFromChildren(left.Children)
		right.Keys = keysFromChildren(right.Children)
	}
	left.UpdateMin()
	right.UpdateMin()
}

// merge absorbs one sibling's contents into the other, ported from
// worker.hpp's merge. leftMergeToRight true means left's run is
// prepended into right and left is discarded; false means right's
// run is appended into left and right is discarded. The survivor's
// Next/Prev are relinked around the discarded node.
//
// For internal nodes the boundary separator between left and right
// never lived in either node (it lived in their parent), so rather
// than concatenate Keys the survivor's key run is rederived from its
// new combined Children, same as rebuildChildren does one level up.
func merge[K cmp.Ordered](order int, left, right *node.Node[K], leftMergeToRight bool) {
	if leftMergeToRight {
		if right.IsLeaf {
			right.Keys = append(append([]K{}, left.Keys...), right.Keys...)
		} else {
			right.Children = append(append([]*node.Node[K]{}, left.Children...), right.Children...)
			right.ConsolidateChildren()
			right.Keys = keysFromChildren(right.Children)
		}
		right.Prev = left.Prev
		if left.Prev != nil {
			left.Prev.Next = right
		}
		right.UpdateMin()
		return
	}
	if left.IsLeaf {
		left.Keys = append(left.Keys, right.Keys...)
	} else {
		left.Children = append(left.Children, right.Children...)
		left.ConsolidateChildren()
		left.Keys = keysFromChildren(left.Children)
	}
	left.Next = right.Next
	if right.Next != nil {
		right.Next.Prev = left
	}
	left.UpdateMin()
}

// keysFromChildren derives an internal node's separator run from its
// children's cached subtree minimums: the separator before
// children[i] is children[i].MinElem, for every child but the first.
func keysFromChildren[K cmp.Ordered](children []*node.Node[K]) []K {
	if len(children) == 0 {
		return nil
	}
	keys := make([]K, len(children)-1)
	for i := 1; i < len(children); i++ {
		keys[i-1] = children[i].MinElem
	}
	return keys
}

// rebuildChildren recomputes n.Children (and, from it, n.Keys) by
// walking the sibling-linked-list segment from n's current leftmost
// child up to but not including rightBound.Next, ported from
// worker.hpp's rebuildChildren. After any split, borrow, or merge
// touching n's children, that linked-list segment is the only
// reliably up to date source of "what n's children are now" — the
// stale n.Children slice from before the operation is discarded
// outright rather than patched.
func rebuildChildren[K cmp.Ordered](n *node.Node[K], rightBound *node.Node[K]) {
	stop := rightBound.Next
	// A merge that folded n.Children[0] into its right neighbour leaves
	// it unlinked: its Next still points into the chain, but nothing
	// points back at it. Step past it to the live leftmost child.
	start := n.Children[0]
	for start.Next != nil && start.Next.Prev != start {
		start = start.Next
	}
	var children []*node.Node[K]
	for c := start; c != stop; c = c.Next {
		children = append(children, c)
	}
	n.Children = children
	n.ConsolidateChildren()
	n.Keys = keysFromChildren(n.Children)
	n.UpdateMin()
}
