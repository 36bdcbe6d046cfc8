package palm

import (
	"cmp"
	"sync"

	"bptree/node"
	"bptree/seq"
)

// coordinatorLoop is the single goroutine that drives one round of
// SEARCH / EXEC_LEAF / EXEC_INTERNAL per batch (spec §4.7). Splits and
// merges below the root run in the workers spawned per stage, each on
// the group of nodes its assignment gives it; the root fixup
// (maybeFixRoot) runs on this goroutine once the stages are done.
func (t *Tree[K]) coordinatorLoop() {
	defer t.wg.Done()
	for {
		batch, barriers, open := t.drainBatch()
		if len(batch) > 0 {
			t.runRound(batch)
		}
		for _, ch := range barriers {
			close(ch)
		}
		if !open {
			return
		}
	}
}

// drainBatch blocks for the first request of the next batch, then
// greedily pulls up to batchSize-1 more without blocking, matching
// curr_batch's "collect what's ready, don't wait around" intake (spec
// §4.7 step 1). Barrier requests carry no key to search, so they're
// pulled out of the batch and returned separately, to be signaled
// once the round they were queued behind has fully applied. open is
// false once requestCh has been closed and drained.
func (t *Tree[K]) drainBatch() (batch []*request[K], barriers []chan struct{}, open bool) {
	first, ok := <-t.requestCh
	if !ok {
		return nil, nil, false
	}
	raw := []*request[K]{first}
drain:
	for len(raw) < t.batchSize {
		select {
		case r, ok := <-t.requestCh:
			if !ok {
				return extract(raw, false)
			}
			raw = append(raw, r)
		default:
			break drain
		}
	}
	return extract(raw, true)
}

func extract[K cmp.Ordered](raw []*request[K], open bool) ([]*request[K], []chan struct{}, bool) {
	var reqs []*request[K]
	var barriers []chan struct{}
	for _, r := range raw {
		if r.op == opBarrier {
			barriers = append(barriers, r.barrierCh)
			continue
		}
		reqs = append(reqs, r)
	}
	return reqs, barriers, open
}

// runRound applies one fully-drained batch of non-barrier requests.
func (t *Tree[K]) runRound(batch []*request[K]) {
	t.runStage(len(batch), func(id, i int) { t.stageSearch(batch[i]) })

	leafGroups := groupByNode(batch)
	t.runStage(len(leafGroups), func(id, i int) { t.execLeafGroup(leafGroups[i]) })

	for {
		pending := t.drainInternalQueue()
		if len(pending) == 0 {
			break
		}
		t.runStage(len(pending), func(id, i int) { t.execInternalGroup(pending[i]) })
	}

	t.maybeFixRoot()
}

// runStage fans work item indices [0, n) out across numWorker
// goroutines, round-robin, and blocks until all of them return. This
// is the Go-idiomatic stand-in for the original's persistent
// flag-woken worker pool: goroutines are cheap enough that spinning
// up a handful per stage, rather than keeping a pool parked on atomic
// rendezvous flags between rounds, is the natural fit here.
func (t *Tree[K]) runStage(n int, fn func(workerID, itemIdx int)) {
	if n == 0 {
		return
	}
	workers := t.numWorker
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for id := 0; id < workers; id++ {
		id := id
		go func() {
			defer wg.Done()
			for i := id; i < n; i += workers {
				fn(id, i)
			}
		}()
	}
	wg.Wait()
}

// stageSearch resolves a request's target leaf (SEARCH, spec §4.7
// step 2). Read-only descent, safe to run concurrently with every
// other in-flight request's own SEARCH since nothing mutates the tree
// between rounds.
func (t *Tree[K]) stageSearch(r *request[K]) {
	r.currNode = seq.DescendToLeaf(t.dummy, r.key)
}

// enqueueInternalUpdate flags n for reexamination in the next
// EXEC_INTERNAL round. Safe to call concurrently from multiple
// EXEC_LEAF/EXEC_INTERNAL workers touching different children of n.
func (t *Tree[K]) enqueueInternalUpdate(n *node.Node[K]) {
	t.internalQueue.Store(nodeHashKey(n), n)
}

// drainInternalQueue empties the internal-update queue and returns
// its contents as the groups for the next EXEC_INTERNAL round. Each
// entry already corresponds to exactly one node (the queue dedups by
// pointer identity), so no further grouping is needed.
func (t *Tree[K]) drainInternalQueue() []*node.Node[K] {
	var out []*node.Node[K]
	t.internalQueue.Range(func(key uint64, n *node.Node[K]) bool {
		out = append(out, n)
		t.internalQueue.Delete(key)
		return true
	})
	return out
}

func (t *Tree[K]) completeGet(r *request[K], found bool) {
	if ch, ok := t.futures.LoadAndDelete(r.id); ok {
		ch <- getResult[K]{key: r.key, found: found}
	}
}

// isHalfFull and moreHalfFull are PALM's own half-full convention
// (spec §9 Open Question: each variant picks one), matching
// original_source's isHalfFull/moreHalfFull in worker.hpp exactly:
// floor((ORDER-1)/2), distinct from latch/seq's floor(ORDER/2).
func isHalfFull(order, numKeys int) bool   { return numKeys >= (order-1)/2 }
func moreHalfFull(order, numKeys int) bool { return numKeys > (order-1)/2 }
