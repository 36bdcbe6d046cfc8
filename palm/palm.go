// Package palm implements the PALM concurrency strategy: batches of
// operations are collected off a request queue and applied in
// lock-free synchronized stages (SEARCH, EXEC_LEAF, EXEC_INTERNAL) by
// up to numWorker goroutines started afresh for each stage and joined
// before the next, driven by a single coordinator goroutine, rather
// than latching individual nodes (spec §4.7).
package palm

import (
	"cmp"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/puzpuzpuz/xsync/v3"

	"bptree/node"
	"bptree/seq"
)

const defaultBatchSize = 64

// Tree is a PALM-scheduled B+ tree. Insert/Delete are fire-and-forget
// (spec §6: both are asynchronous under this strategy); Get blocks on
// a future that resolves once the key's batch has cleared EXEC_LEAF.
type Tree[K cmp.Ordered] struct {
	order     int
	numWorker int
	batchSize int

	dummy *node.Node[K]
	size  atomic.Int64

	requestCh chan *request[K]

	futures *xsync.MapOf[uint64, chan getResult[K]]
	nextID  atomic.Uint64

	wg        sync.WaitGroup
	closeOnce sync.Once

	// internalQueue accumulates parents that EXEC_LEAF (or a prior
	// EXEC_INTERNAL round) found full or underfull; it is drained and
	// re-grouped every round of the internal cascade (spec §4.7 step 4)
	// until empty. Keyed by nodeHashKey so concurrent workers flagging
	// the same parent collapse to one entry.
	internalQueue *xsync.MapOf[uint64, *node.Node[K]]
}

// Option configures a Tree at construction time.
type Option func(*options)

type options struct {
	batchSize int
}

// WithBatchSize overrides the default batch size (spec §4.7's
// BATCHSIZE): how many queued requests the coordinator drains into
// curr_batch before running a round of stages.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// New starts a PALM tree whose coordinator goroutine runs until Close.
// Each stage of a round runs on up to numWorker goroutines that exit
// when the stage ends.
func New[K cmp.Ordered](order, numWorker int, opts ...Option) *Tree[K] {
	if order < 3 {
		glog.Fatalf("palm: order must be >= 3, got %d", order)
	}
	if numWorker < 1 {
		glog.Fatalf("palm: numWorker must be >= 1, got %d", numWorker)
	}
	o := options{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tree[K]{
		order:         order,
		numWorker:     numWorker,
		batchSize:     o.batchSize,
		dummy:         node.NewDummyRoot[K](),
		requestCh:     make(chan *request[K], o.batchSize),
		futures:       xsync.NewMapOf[uint64, chan getResult[K]](),
		internalQueue: xsync.NewMapOf[uint64, *node.Node[K]](),
	}

	t.wg.Add(1)
	go t.coordinatorLoop()
	return t
}

// Close stops accepting new requests, lets every batch already queued
// drain through the pipeline, and waits for the coordinator to exit.
func (t *Tree[K]) Close() {
	t.closeOnce.Do(func() {
		close(t.requestCh)
	})
	t.wg.Wait()
}

// Order reports the tree's configured branching factor.
func (t *Tree[K]) Order() int { return t.order }

// Dummy exposes the sentinel root for diagnostic callers (debugprint)
// that need to walk the node graph directly. Call Flush first if you
// need a quiescent snapshot; the coordinator may be mid-round otherwise.
func (t *Tree[K]) Dummy() *node.Node[K] { return t.dummy }

// Size reports the number of keys currently stored. Because inserts
// and deletes are applied asynchronously, this counts only the
// requests already applied, which can include part of a batch still
// in EXEC_LEAF, and not necessarily every request submitted so far.
func (t *Tree[K]) Size() int64 { return t.size.Load() }

// Insert submits k for insertion and returns without waiting for it
// to be applied.
func (t *Tree[K]) Insert(k K) {
	t.requestCh <- &request[K]{op: opInsert, key: k}
}

// Delete submits k for deletion and returns without waiting for it to
// be applied.
func (t *Tree[K]) Delete(k K) {
	t.requestCh <- &request[K]{op: opDelete, key: k}
}

// Get submits a lookup for k and blocks until the batch containing it
// has cleared EXEC_LEAF, returning whether k was present at that
// point.
func (t *Tree[K]) Get(k K) bool {
	id := t.nextID.Add(1)
	ch := make(chan getResult[K], 1)
	t.futures.Store(id, ch)
	t.requestCh <- &request[K]{op: opGet, key: k, id: id}
	res := <-ch
	return res.found
}

// Flush blocks until every request submitted before this call has
// been fully applied, giving test and diagnostic code a
// synchronization point against the otherwise-asynchronous pipeline.
func (t *Tree[K]) Flush() {
	ch := make(chan struct{})
	t.requestCh <- &request[K]{op: opBarrier, barrierCh: ch}
	<-ch
}

// Keys returns every stored key in ascending order. It calls Flush
// first so the snapshot reflects all prior submissions.
func (t *Tree[K]) Keys() []K {
	t.Flush()
	return node.Collect(t.dummy)
}

// CheckInvariants validates the tree's structural invariants. It
// calls Flush first for the same reason Keys does.
func (t *Tree[K]) CheckInvariants() error {
	t.Flush()
	return node.CheckInvariants(t.dummy, t.order, seq.MinKeys(t.order))
}
