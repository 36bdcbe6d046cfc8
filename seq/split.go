package seq

import (
	"cmp"

	"bptree/node"
)

// Split breaks an overflowing node n (NumKeys() >= order) into two,
// per spec §4.3. If n is the rightmost child of its parent, the new
// sibling is placed to n's left so the sibling chain stays ascending;
// otherwise it is placed to n's right. Leaf splits promote a copy of
// the separator (it stays reachable in a leaf); internal splits
// promote and remove the middle key. If n's parent is the dummy root,
// a fresh real root is created with n and the new sibling as its two
// children. If the (non-dummy) parent overflows as a result, Split
// recurses on it.
func Split[K cmp.Ordered](order int, n *node.Node[K]) {
	parent := n.Parent
	onLeft := !parent.IsDummy && n.ChildIndex == len(parent.Children)-1

	mid := n.NumKeys() / 2
	sep := n.Keys[mid]

	var newNode *node.Node[K]
	if n.IsLeaf {
		newNode = node.NewLeaf[K]()
		splitLeafKeys(n, newNode, mid, onLeft)
	} else {
		newNode = node.NewInternal[K]()
		splitInternal(n, newNode, mid, onLeft)
	}
	spliceSibling(n, newNode, onLeft)

	if parent.IsDummy {
		newRoot := node.NewInternal[K]()
		if onLeft {
			newRoot.Children = []*node.Node[K]{newNode, n}
		} else {
			newRoot.Children = []*node.Node[K]{n, newNode}
		}
		newRoot.Keys = []K{sep}
		newRoot.ConsolidateChildren()
		parent.Children = []*node.Node[K]{newRoot}
		parent.ConsolidateChildren()
		return
	}

	idx := n.ChildIndex
	childIdx := idx
	if !onLeft {
		childIdx = idx + 1
	}
	parent.Keys = insertAt(parent.Keys, idx, sep)
	parent.Children = insertAt(parent.Children, childIdx, newNode)
	parent.ConsolidateChildren()

	if parent.NumKeys() >= order {
		Split(order, parent)
	}
}

// splitLeafKeys divides n's keys between n and newNode. Both halves
// together are n's original keys; no key is discarded.
func splitLeafKeys[K cmp.Ordered](n, newNode *node.Node[K], mid int, onLeft bool) {
	if onLeft {
		newNode.Keys = append(newNode.Keys, n.Keys[:mid]...)
		n.Keys = append([]K{}, n.Keys[mid:]...)
	} else {
		newNode.Keys = append(newNode.Keys, n.Keys[mid:]...)
		n.Keys = append([]K{}, n.Keys[:mid]...)
	}
}

// splitInternal divides n's keys and children between n and newNode,
// dropping the middle key (it is promoted to the parent separately).
func splitInternal[K cmp.Ordered](n, newNode *node.Node[K], mid int, onLeft bool) {
	if onLeft {
		newNode.Keys = append(newNode.Keys, n.Keys[:mid]...)
		newNode.Children = append(newNode.Children, n.Children[:mid+1]...)
		n.Keys = append([]K{}, n.Keys[mid+1:]...)
		n.Children = append([]*node.Node[K]{}, n.Children[mid+1:]...)
	} else {
		newNode.Keys = append(newNode.Keys, n.Keys[mid+1:]...)
		newNode.Children = append(newNode.Children, n.Children[mid+1:]...)
		n.Keys = append([]K{}, n.Keys[:mid]...)
		n.Children = append([]*node.Node[K]{}, n.Children[:mid+1]...)
	}
	newNode.ConsolidateChildren()
	n.ConsolidateChildren()
}

// spliceSibling threads newNode into n's level of the sibling chain,
// maintained at every level (not just leaves) so PALM's rebuildChildren
// can walk it (spec §4.8).
func spliceSibling[K cmp.Ordered](n, newNode *node.Node[K], onLeft bool) {
	if onLeft {
		newNode.Prev = n.Prev
		newNode.Next = n
		if n.Prev != nil {
			n.Prev.Next = newNode
		}
		n.Prev = newNode
		return
	}
	newNode.Next = n.Next
	newNode.Prev = n
	if n.Next != nil {
		n.Next.Prev = newNode
	}
	n.Next = newNode
}
