package latch

import (
	"cmp"

	"github.com/golang/glog"

	"bptree/node"
	"bptree/seq"
)

// descend performs the exclusive write descent of spec §4.6: latch
// the dummy root exclusively, then at each level latch the chosen
// child before deciding whether it is safe. A safe child guarantees
// no structural change can propagate past it, so every previously
// retained ancestor is released; an unsafe child is added to the
// retained queue instead. The caller gets back the target node
// (leaf, or the dummy itself for an empty tree) plus the full set of
// latches still held, oldest-acquired first — releasing them in that
// order after the mutation is the FIFO release spec §4.6 calls for.
func descend[K cmp.Ordered](t *Tree[K], k K, safe func(order int, n *node.Node[K]) bool) (target *node.Node[K], retained []*node.Node[K]) {
	t.dummy.Lock()
	retained = []*node.Node[K]{t.dummy}
	cur := t.dummy
	for !cur.IsLeaf {
		child := cur.Children[cur.GtKeyIndex(k)]
		child.Lock()
		if safe(t.order, child) {
			for _, a := range retained {
				a.Unlock()
			}
			retained = retained[:0]
		}
		retained = append(retained, child)
		cur = child
	}
	return cur, retained
}

func release[K cmp.Ordered](retained []*node.Node[K]) {
	for _, a := range retained {
		a.Unlock()
	}
}

// Insert adds k to the tree, returning false if it was already
// present. Duplicate keys are rejected silently (spec §9 Open
// Question decision).
func (t *Tree[K]) Insert(k K) bool {
	leaf, retained := descend(t, k, isSafeForInsert[K])
	defer release(retained)

	if leaf.IsDummy {
		leaf = seq.MaterializeRoot(t.dummy, k)
	}
	if !seq.InsertKey(leaf, k) {
		return false
	}
	t.size.Add(1)
	if leaf.NumKeys() >= t.order {
		glog.V(2).Infof("latch: leaf full at %d keys, splitting", leaf.NumKeys())
		seq.Split(t.order, leaf)
	}
	return true
}

// Remove deletes k from the tree, returning false if it was not
// present.
func (t *Tree[K]) Remove(k K) bool {
	target, retained := descend(t, k, isSafeForDelete[K])
	defer release(retained)

	if target.IsDummy {
		return false
	}
	if !seq.RemoveKey(target, k) {
		return false
	}
	t.size.Add(-1)
	if !seq.IsHalfFull(t.order, target.NumKeys()) {
		glog.V(2).Infof("latch: leaf underfull at %d keys, rebalancing", target.NumKeys())
		seq.Rebalance(t.order, target)
	}
	return true
}
