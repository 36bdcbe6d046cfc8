package seq

import (
	"cmp"

	"bptree/node"
)

// Rebalance restores the half-full threshold at an underfull node n
// (spec §4.4-§4.5): borrow from a same-parent sibling if one has more
// than the threshold, otherwise merge with a sibling and recurse
// upward if the parent falls underfull too. Two internal nodes are
// never merged when the result (their keys plus the separator pulled
// down from the parent) would hold order keys or more, which can
// happen for an even order; n borrows from that sibling instead,
// leaving the sibling at the floor((ORDER-1)/2) structural minimum.
// If n's parent is the
// dummy root, n is the real root and has no siblings to borrow from or
// merge with: an underfull leaf root is left as-is (or, if now empty,
// the tree collapses to the canonical empty state), and an internal
// root that has been merged down to a single child promotes that
// child to be the new real root.
func Rebalance[K cmp.Ordered](order int, n *node.Node[K]) {
	parent := n.Parent
	if parent.IsDummy {
		collapseRoot(n, parent)
		return
	}

	if n.ChildIndex > 0 {
		left := parent.Children[n.ChildIndex-1]
		if MoreHalfFull(order, left.NumKeys()) || (!n.IsLeaf && left.NumKeys()+n.NumKeys()+1 >= order) {
			borrowFromLeft(n, left)
			return
		}
		mergeWithLeft(order, n, left)
		return
	}

	right := parent.Children[n.ChildIndex+1]
	if MoreHalfFull(order, right.NumKeys()) || (!n.IsLeaf && right.NumKeys()+n.NumKeys()+1 >= order) {
		borrowFromRight(n, right)
		return
	}
	mergeWithRight(order, n, right)
}

func collapseRoot[K cmp.Ordered](n, dummy *node.Node[K]) {
	if n.IsLeaf {
		if n.NumKeys() == 0 {
			dummy.Children = nil
			dummy.IsLeaf = true
		}
		return
	}
	if len(n.Children) != 1 {
		return
	}
	child := n.Children[0]
	dummy.Children[0] = child
	child.Parent = dummy
	child.ChildIndex = 0
}

// borrowFromLeft moves left's last key (and, for internal nodes, its
// last child) over to n, rotating through the parent separator so the
// ordering invariant is preserved (spec §4.4 case "borrow from left").
func borrowFromLeft[K cmp.Ordered](n, left *node.Node[K]) {
	parent := n.Parent
	idx := left.ChildIndex // parent.Keys[idx] separates left and n

	if n.IsLeaf {
		moved := left.Keys[len(left.Keys)-1]
		left.Keys = left.Keys[:len(left.Keys)-1]
		n.Keys = insertAt(n.Keys, 0, moved)
		parent.Keys[idx] = moved
		return
	}

	fromParent := parent.Keys[idx]
	movedKey := left.Keys[len(left.Keys)-1]
	parent.Keys[idx] = movedKey
	left.Keys = left.Keys[:len(left.Keys)-1]
	n.Keys = insertAt(n.Keys, 0, fromParent)

	movedChild := left.Children[len(left.Children)-1]
	left.Children = left.Children[:len(left.Children)-1]
	n.Children = insertAt(n.Children, 0, movedChild)
	n.ConsolidateChildren()
}

// borrowFromRight is the mirror of borrowFromLeft.
func borrowFromRight[K cmp.Ordered](n, right *node.Node[K]) {
	parent := n.Parent
	idx := n.ChildIndex // parent.Keys[idx] separates n and right

	if n.IsLeaf {
		moved := right.Keys[0]
		right.Keys = right.Keys[1:]
		n.Keys = append(n.Keys, moved)
		parent.Keys[idx] = right.Keys[0]
		return
	}

	fromParent := parent.Keys[idx]
	movedKey := right.Keys[0]
	parent.Keys[idx] = movedKey
	right.Keys = right.Keys[1:]
	n.Keys = append(n.Keys, fromParent)

	movedChild := right.Children[0]
	right.Children = right.Children[1:]
	n.Children = append(n.Children, movedChild)
	n.ConsolidateChildren()
	right.ConsolidateChildren()
}

// mergeWithLeft folds n into left, pulling down the separating parent
// key for internal nodes, then removes n's slot from the parent and
// recurses upward if the parent is now underfull too (spec §4.5).
func mergeWithLeft[K cmp.Ordered](order int, n, left *node.Node[K]) {
	parent := n.Parent
	idx := left.ChildIndex

	if !n.IsLeaf {
		left.Keys = append(left.Keys, parent.Keys[idx])
		left.Children = append(left.Children, n.Children...)
	}
	left.Keys = append(left.Keys, n.Keys...)
	left.ConsolidateChildren()

	left.Next = n.Next
	if n.Next != nil {
		n.Next.Prev = left
	}

	parent.Keys = removeAt(parent.Keys, idx)
	parent.Children = removeAt(parent.Children, n.ChildIndex)
	parent.ConsolidateChildren()

	rebalanceParent(order, parent)
}

// mergeWithRight folds right into n; the mirror of mergeWithLeft.
func mergeWithRight[K cmp.Ordered](order int, n, right *node.Node[K]) {
	parent := n.Parent
	idx := n.ChildIndex

	if !n.IsLeaf {
		n.Keys = append(n.Keys, parent.Keys[idx])
		n.Children = append(n.Children, right.Children...)
	}
	n.Keys = append(n.Keys, right.Keys...)
	n.ConsolidateChildren()

	n.Next = right.Next
	if right.Next != nil {
		right.Next.Prev = n
	}

	parent.Keys = removeAt(parent.Keys, idx)
	parent.Children = removeAt(parent.Children, right.ChildIndex)
	parent.ConsolidateChildren()

	rebalanceParent(order, parent)
}

func rebalanceParent[K cmp.Ordered](order int, parent *node.Node[K]) {
	if parent.IsDummy {
		return
	}
	if !IsHalfFull(order, parent.NumKeys()) {
		Rebalance(order, parent)
	}
}
