package palm

import (
	"cmp"
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"bptree/node"
)

// group is every request in the current batch that resolved to the
// same node, the unit of work a single worker processes without
// contending with any other worker (spec §4.7: "requests are grouped
// by the node they touch so that each node is owned by exactly one
// worker for the duration of a stage").
type group[K cmp.Ordered] struct {
	node *node.Node[K]
	reqs []*request[K]
}

// nodeHashKey derives a stable slot key from a node's identity. Using
// an explicit hash of the pointer value, rather than relying on Go's
// unexported map hashing of pointer keys directly, mirrors the
// original scheduler's notion of a canonical index computed from the
// shared leaf/parent pointer (spec §4.7) in a way that doesn't depend
// on map-internals.
func nodeHashKey[K cmp.Ordered](n *node.Node[K]) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(unsafe.Pointer(n))))
	return xxhash.Sum64(buf[:])
}

// groupByNode partitions reqs by the node each one's currNode points
// at, preserving first-seen order across distinct nodes. Requests
// with a nil currNode (a barrier has none) are skipped by callers
// before this is invoked.
func groupByNode[K cmp.Ordered](reqs []*request[K]) []*group[K] {
	idx := make(map[uint64]*group[K])
	var groups []*group[K]
	for _, r := range reqs {
		key := nodeHashKey(r.currNode)
		g, ok := idx[key]
		if !ok {
			g = &group[K]{node: r.currNode}
			idx[key] = g
			groups = append(groups, g)
		}
		g.reqs = append(g.reqs, r)
	}
	return groups
}
