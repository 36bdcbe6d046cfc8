package replay

// Target is the narrow capability a trace is replayed against. All
// three tree variants satisfy it through the adapters below, each
// translating the variant's own Insert/Remove/Get signatures into
// this common shape. Flush is a no-op for the synchronous variants;
// for the PALM variant it's the synchronization point that makes
// replay observe linear, one-command-at-a-time semantics despite the
// variant's own batching.
type Target interface {
	Insert(key int)
	Delete(key int)
	Get(key int) bool
	Flush()
}

// syncTree is satisfied by seq.Tree[int], coarse.Tree[int] and
// latch.Tree[int] directly; named here only so the adapters below can
// be written once instead of duplicating boilerplate per variant.
type syncTree interface {
	Insert(key int) bool
	Remove(key int) bool
	Get(key int) (int, bool)
}

// SyncAdapter wraps seq.Tree[int] or latch.Tree[int] — anything with
// the synchronous Insert/Remove/Get shape both packages share — as a
// replay Target. Flush is a no-op since both apply every mutation
// before the call that submitted it returns.
type SyncAdapter struct {
	Tree syncTree
}

func (a SyncAdapter) Insert(key int) { a.Tree.Insert(key) }
func (a SyncAdapter) Delete(key int) { a.Tree.Remove(key) }
func (a SyncAdapter) Get(key int) bool {
	_, found := a.Tree.Get(key)
	return found
}
func (a SyncAdapter) Flush() {}

// palmTree is satisfied by palm.Tree[int].
type palmTree interface {
	Insert(key int)
	Delete(key int)
	Get(key int) bool
	Flush()
}

// PalmAdapter wraps palm.Tree[int] as a replay Target. Its methods
// already match Target's shape exactly, since PALM's own API is
// async-submit-plus-explicit-Flush to begin with.
type PalmAdapter struct {
	Tree palmTree
}

func (a PalmAdapter) Insert(key int)   { a.Tree.Insert(key) }
func (a PalmAdapter) Delete(key int)   { a.Tree.Delete(key) }
func (a PalmAdapter) Get(key int) bool { return a.Tree.Get(key) }
func (a PalmAdapter) Flush()           { a.Tree.Flush() }
