package palm

import (
	"bptree/node"
	"bptree/seq"
)

// execLeafGroup applies every request sharing a leaf (EXEC_LEAF, spec
// §4.7 step 3), grounded on worker.hpp's leaf_execute: GET resolves
// its future, INSERT/DELETE apply via the same key-run primitives the
// sequential and latched variants use, and if the leaf ends up full
// or underfull its parent is queued for the internal cascade — unless
// the leaf's parent is the dummy sentinel, in which case the leaf
// itself is the whole tree and maybeFixRoot handles it once every
// group this round has finished.
func (t *Tree[K]) execLeafGroup(g *group[K]) {
	leaf := g.node
	if leaf.IsDummy {
		leaf = node.NewLeaf[K]()
		t.dummy.IsLeaf = false
		t.dummy.Children = []*node.Node[K]{leaf}
		t.dummy.ConsolidateChildren()
	}

	for _, r := range g.reqs {
		switch r.op {
		case opInsert:
			if seq.InsertKey(leaf, r.key) {
				t.size.Add(1)
			}
		case opDelete:
			if seq.RemoveKey(leaf, r.key) {
				t.size.Add(-1)
			}
		case opGet:
			_, found := leaf.Find(r.key)
			t.completeGet(r, found)
		}
	}
	leaf.UpdateMin()

	if leaf.Parent.IsDummy {
		return
	}
	if leaf.NumKeys() >= t.order || !isHalfFull(t.order, leaf.NumKeys()) {
		t.enqueueInternalUpdate(leaf.Parent)
	}
}
