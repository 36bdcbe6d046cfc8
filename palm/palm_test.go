package palm

import (
	"math/rand"
	"sort"
	"testing"

	"bptree/seq"
)

func TestBasicInsertGetDelete(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8} {
		tr := New[int](order, 4, WithBatchSize(16))
		defer tr.Close()

		for i := 0; i < 200; i++ {
			tr.Insert(i)
		}
		if err := tr.CheckInvariants(); err != nil {
			t.Fatalf("order %d: invariants after insert: %v", order, err)
		}
		for i := 0; i < 200; i++ {
			if !tr.Get(i) {
				t.Fatalf("order %d: key %d missing after insert", order, i)
			}
		}
		for i := 0; i < 200; i += 2 {
			tr.Delete(i)
		}
		tr.Flush()
		if err := tr.CheckInvariants(); err != nil {
			t.Fatalf("order %d: invariants after delete: %v", order, err)
		}
		for i := 0; i < 200; i++ {
			want := i%2 != 0
			if got := tr.Get(i); got != want {
				t.Fatalf("order %d: key %d present=%v, want %v", order, i, got, want)
			}
		}
	}
}

// TestAgainstOracle drives a PALM tree and a sequential oracle through
// the same randomized mix of inserts and deletes, comparing the final
// key set — spec §8 scenario S5 / property 1 (equivalence to the
// sequential semantics), adapted so the PALM side is asynchronous:
// Flush before each comparison point.
func TestAgainstOracle(t *testing.T) {
	const order = 5
	const n = 2000

	tr := New[int](order, 4, WithBatchSize(64))
	defer tr.Close()
	oracle := seq.New[int](order)

	rng := rand.New(rand.NewSource(7))
	present := map[int]bool{}
	for i := 0; i < n; i++ {
		k := rng.Intn(n / 4)
		if rng.Intn(2) == 0 {
			tr.Insert(k)
			oracle.Insert(k)
			present[k] = true
		} else {
			tr.Delete(k)
			oracle.Remove(k)
			present[k] = false
		}
	}
	tr.Flush()

	got := tr.Keys()
	want := oracle.Keys()
	if len(got) != len(want) {
		t.Fatalf("key count mismatch: palm=%d oracle=%d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("key mismatch at %d: palm=%d oracle=%d", i, got[i], want[i])
		}
	}
	if int64(oracle.Size()) != tr.Size() {
		t.Fatalf("size mismatch: palm=%d oracle=%d", tr.Size(), oracle.Size())
	}
	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

// TestConcurrentSubmitters exercises multiple goroutines submitting
// requests at once, as distinct from the internal worker pool: the
// request queue and future registry must be safe for concurrent
// producers (spec §8 property 6's batch-intake side).
func TestConcurrentSubmitters(t *testing.T) {
	const order = 4
	const perGoroutine = 300
	const goroutines = 8

	tr := New[int](order, 4, WithBatchSize(32))
	defer tr.Close()

	done := make(chan struct{})
	for g := 0; g < goroutines; g++ {
		g := g
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < perGoroutine; i++ {
				tr.Insert(g*perGoroutine + i)
			}
		}()
	}
	for g := 0; g < goroutines; g++ {
		<-done
	}
	tr.Flush()

	if got, want := tr.Size(), int64(goroutines*perGoroutine); got != want {
		t.Fatalf("size = %d, want %d", got, want)
	}
	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	keys := tr.Keys()
	if !sort.IntsAreSorted(keys) {
		t.Fatalf("keys not sorted: %v", keys)
	}
}

// TestGetDuringConcurrentWrites checks that Get's future resolves
// against a consistent batch rather than hanging or racing, while
// inserts are continuously in flight.
func TestGetDuringConcurrentWrites(t *testing.T) {
	const order = 4
	tr := New[int](order, 3, WithBatchSize(8))
	defer tr.Close()

	for i := 0; i < 50; i++ {
		tr.Insert(i)
	}
	tr.Flush()

	stop := make(chan struct{})
	go func() {
		for i := 50; i < 1000; i++ {
			select {
			case <-stop:
				return
			default:
				tr.Insert(i)
			}
		}
	}()

	for i := 0; i < 50; i++ {
		if !tr.Get(i) {
			t.Fatalf("key %d should already be present", i)
		}
	}
	close(stop)
	tr.Flush()
	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := New[int](4, 2)
	defer tr.Close()
	if tr.Get(42) {
		t.Fatalf("expected empty tree miss")
	}
	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("invariants on empty tree: %v", err)
	}
	if keys := tr.Keys(); len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

// TestDrainOnClose submits a batch and calls Close with no Flush in
// between, then checks every insert was applied rather than lost in
// the pipe (spec §9's Open Question decision on PALM shutdown: drain
// what's queued, don't discard it).
func TestDrainOnClose(t *testing.T) {
	tr := New[int](4, 4, WithBatchSize(16))
	for i := 0; i < 500; i++ {
		tr.Insert(i)
	}
	tr.Close()
	if got, want := tr.Size(), int64(500); got != want {
		t.Fatalf("size = %d, want %d", got, want)
	}
}
