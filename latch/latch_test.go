package latch

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"bptree/seq"
)

func TestBasicInsertGetRemove(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8} {
		tr := New[int](order)
		const n = 400
		inserted := make(map[int]bool)
		for i := 0; i < n; i++ {
			k := rand.Intn(n * 2)
			got := tr.Insert(k)
			if got == inserted[k] {
				t.Fatalf("order %d: Insert(%d) = %v, want %v", order, k, got, !inserted[k])
			}
			inserted[k] = true
			if err := tr.CheckInvariants(); err != nil {
				t.Fatalf("order %d: after insert %d: %v", order, k, err)
			}
		}
		for k := range inserted {
			if _, ok := tr.Get(k); !ok {
				t.Fatalf("order %d: Get(%d) missing", order, k)
			}
		}
		if tr.Size() != len(inserted) {
			t.Fatalf("order %d: Size() = %d, want %d", order, tr.Size(), len(inserted))
		}

		keys := tr.Keys()
		for i := 1; i < len(keys); i++ {
			if keys[i-1] >= keys[i] {
				t.Fatalf("order %d: Keys() not ascending: %v", order, keys)
			}
		}

		var toDelete []int
		for k := range inserted {
			toDelete = append(toDelete, k)
		}
		rand.Shuffle(len(toDelete), func(i, j int) { toDelete[i], toDelete[j] = toDelete[j], toDelete[i] })
		for _, k := range toDelete {
			if !tr.Remove(k) {
				t.Fatalf("order %d: Remove(%d) = false", order, k)
			}
			if err := tr.CheckInvariants(); err != nil {
				t.Fatalf("order %d: after remove %d: %v", order, k, err)
			}
		}
		if tr.Size() != 0 {
			t.Fatalf("order %d: Size() = %d after draining, want 0", order, tr.Size())
		}
	}
}

func TestEmptyTree(t *testing.T) {
	tr := New[int](4)
	if _, ok := tr.Get(1); ok {
		t.Fatalf("Get on empty tree should report absent")
	}
	if tr.Remove(1) {
		t.Fatalf("Remove on empty tree should return false")
	}
	if tr.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", tr.Size())
	}
}

// TestConcurrentLinearizesAgainstOracle mirrors spec §8 scenario S6:
// many goroutines issue mixed operations against a shared latched
// tree and against a single-mutex oracle driven by the same log, and
// the final key sets must agree.
func TestConcurrentLinearizesAgainstOracle(t *testing.T) {
	const order = 4
	const universe = 2000
	const numGoroutines = 8
	const opsPerGoroutine = 2000

	tr := New[int](order)
	oracle := seq.New[int](order)
	var oracleMu sync.Mutex

	type op struct {
		insert bool
		key    int
	}
	ops := make([][]op, numGoroutines)
	rng := rand.New(rand.NewSource(1))
	for g := 0; g < numGoroutines; g++ {
		for i := 0; i < opsPerGoroutine; i++ {
			ops[g] = append(ops[g], op{insert: rng.Intn(2) == 0, key: rng.Intn(universe)})
		}
	}

	var wg sync.WaitGroup
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(myOps []op) {
			defer wg.Done()
			for _, o := range myOps {
				if o.insert {
					tr.Insert(o.key)
					oracleMu.Lock()
					oracle.Insert(o.key)
					oracleMu.Unlock()
				} else {
					tr.Remove(o.key)
					oracleMu.Lock()
					oracle.Remove(o.key)
					oracleMu.Unlock()
				}
			}
		}(ops[g])
	}
	wg.Wait()

	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants: %v", err)
	}
	if tr.Size() != oracle.Size() {
		t.Fatalf("Size() = %d, oracle Size() = %d", tr.Size(), oracle.Size())
	}

	got := tr.Keys()
	want := oracle.Keys()
	sort.Ints(got)
	sort.Ints(want)
	if len(got) != len(want) {
		t.Fatalf("key count mismatch: got %d want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("key set diverged at index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestConcurrentGetDuringWrites(t *testing.T) {
	tr := New[int](5)
	const n = 1000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			tr.Insert(k)
		}(i)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				tr.Get(rand.Intn(n))
			}
		}
	}()
	wg.Wait()
	close(done)
	if tr.Size() != n {
		t.Fatalf("Size() = %d, want %d", tr.Size(), n)
	}
}
