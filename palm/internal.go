package palm

import (
	"bptree/node"
)

// execInternalGroup re-examines a parent flagged by a child that
// overflowed or fell below half full, ported from worker.hpp's
// internal_execute. It walks the child chain once left to right,
// fixing each problem child in place (repeated bigsplit for overflow,
// borrow-then-merge for underfull) and rebuilding n's own Children/
// Keys after every structural change, then flags n's own parent if n
// itself ends up out of bounds.
//
// rightBound is captured once, before any mutation: the rightmost
// child is the unsplit side of a bigsplit and, in every merge but
// one, the surviving side. The exception is a two-child n whose
// leftmost child absorbs it; rightBound is then discarded, but its
// Next pointer is left as it was. Its Next pointer is never changed
// during this walk, so it stays a safe stop for every rebuildChildren
// call in this pass.
func (t *Tree[K]) execInternalGroup(n *node.Node[K]) {
	if len(n.Children) < 2 {
		n.UpdateMin()
		return
	}
	rightBound := n.Children[len(n.Children)-1]

	// Every branch below leaves child itself alive: an overflowing
	// child only ever sheds keys into a newly allocated sibling, and
	// the underfull branches always name child as the merge survivor
	// (it absorbs a neighbor, never the reverse). So child.Next, read
	// fresh after each fixup, is always a safe way to advance.
	for child := n.Children[0]; child != rightBound.Next; child = child.Next {
		switch {
		case child.NumKeys() >= t.order:
			for child.NumKeys() >= t.order {
				if child.ChildIndex < n.NumKeys() {
					bigSplitToRight(t.order, child)
				} else {
					bigSplitToLeft(t.order, child)
				}
				rebuildChildren(n, rightBound)
			}
		case !isHalfFull(t.order, child.NumKeys()):
			switch {
			case child.ChildIndex == 0:
				if !tryBorrow(t.order, child, child.Next, false) {
					merge(t.order, child, child.Next, false)
				}
			case child.ChildIndex < n.NumKeys():
				if !tryBorrow(t.order, child.Prev, child, true) {
					if !tryBorrow(t.order, child, child.Next, false) {
						merge(t.order, child.Prev, child, true)
					}
				}
			default:
				if !tryBorrow(t.order, child.Prev, child, true) {
					merge(t.order, child.Prev, child, true)
				}
			}
			rebuildChildren(n, rightBound)
		}
	}

	if n.Parent.IsDummy {
		return
	}
	if n.NumKeys() >= t.order || !isHalfFull(t.order, n.NumKeys()) {
		t.enqueueInternalUpdate(n.Parent)
	}
}

// maybeFixRoot handles the one case nothing above reaches: the real
// root (dummy's sole child) itself ending up over or under capacity.
// Every other node's parent is examined by execInternalGroup, but the
// root has no parent — the cascade has no queue entry that would
// trigger for it, so the coordinator checks it directly once the
// internal queue has fully drained for the round (spec §4.7 step 5).
//
// A single batch can push the root arbitrarily far over capacity (a
// batch's whole first round can land tens of keys in one empty root
// leaf), so, exactly like execInternalGroup's overflow branch, root
// is peeled until it is back under order before anything is promoted
// — promoting after only one bigsplit would wrap an already-fixed
// two-node level around a root that is still overflowing.
func (t *Tree[K]) maybeFixRoot() {
	if len(t.dummy.Children) == 0 {
		return
	}
	root := t.dummy.Children[0]

	for root.NumKeys() >= t.order {
		for root.NumKeys() >= t.order {
			bigSplitToRight(t.order, root)
		}
		t.promoteRootSplit(root)
		root = t.dummy.Children[0]
	}

	if !root.IsLeaf && len(root.Children) == 1 {
		child := root.Children[0]
		t.dummy.Children[0] = child
		child.Parent = t.dummy
		child.ChildIndex = 0
		return
	}
	if root.IsLeaf && len(root.Keys) == 0 {
		t.dummy.Children = nil
		t.dummy.IsLeaf = true
	}
}

// promoteRootSplit wraps root and every sibling the caller's peel loop
// split off it into a brand new internal root, mirroring seq.Split's
// dummy-parent branch. There is no parent here to promote a separator
// into, so one is built from scratch instead. root has no siblings of
// its own before a round starts — it is the sole node at the top of
// the tree — so walking its Next chain here picks up exactly the
// pieces the peel loop produced, already in ascending order.
func (t *Tree[K]) promoteRootSplit(root *node.Node[K]) {
	children := []*node.Node[K]{root}
	for s := root.Next; s != nil; s = s.Next {
		children = append(children, s)
	}
	newRoot := node.NewInternal[K]()
	newRoot.Children = children
	newRoot.ConsolidateChildren()
	newRoot.Keys = keysFromChildren(newRoot.Children)
	newRoot.UpdateMin()
	t.dummy.Children[0] = newRoot
	newRoot.Parent = t.dummy
	newRoot.ChildIndex = 0
}
