package palm

import (
	"cmp"

	"bptree/node"
)

// opKind is the request's operation, TreeOp in original_source.
type opKind int

const (
	opInsert opKind = iota
	opDelete
	opGet
	// opBarrier carries no key; it exists purely so Flush can observe
	// that every request submitted before it has been fully applied.
	opBarrier
)

// getResult is what a GET request's future resolves to.
type getResult[K cmp.Ordered] struct {
	key   K
	found bool
}

// request is one entry of request_queue (spec §4.7): an operation,
// its key, and the bookkeeping the coordinator/workers attach as the
// request moves through SEARCH, EXEC_LEAF, and (for GET) completion.
type request[K cmp.Ordered] struct {
	op  opKind
	key K

	id uint64 // GET future lookup key, assigned only for opGet

	currNode *node.Node[K] // resolved leaf, written by SEARCH

	barrierCh chan struct{} // opBarrier only; closed once applied
}
