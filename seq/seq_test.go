package seq

import (
	"math/rand"
	"testing"
)

func TestInsertGetRemove(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8, 16} {
		t.Run(itoaOrder(order), func(t *testing.T) {
			tr := New[int](order)
			const n = 500
			want := make(map[int]bool)
			for i := 0; i < n; i++ {
				k := rand.Intn(n * 2)
				ok := tr.Insert(k)
				if ok == want[k] {
					t.Fatalf("Insert(%d) = %v, want %v", k, ok, !want[k])
				}
				want[k] = true
				if err := tr.CheckInvariants(); err != nil {
					t.Fatalf("after insert %d: %v", k, err)
				}
			}
			for k := range want {
				if _, ok := tr.Get(k); !ok {
					t.Fatalf("Get(%d) missing after inserts", k)
				}
			}
			for k := 0; k < n*2; k++ {
				_, ok := tr.Get(k)
				if ok != want[k] {
					t.Fatalf("Get(%d) = %v, want %v", k, ok, want[k])
				}
			}

			keys := make([]int, 0, len(want))
			for k := range want {
				keys = append(keys, k)
			}
			rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
			for _, k := range keys {
				if !tr.Remove(k) {
					t.Fatalf("Remove(%d) = false, want true", k)
				}
				delete(want, k)
				if err := tr.CheckInvariants(); err != nil {
					t.Fatalf("after remove %d: %v", k, err)
				}
			}
			if tr.Size() != 0 {
				t.Fatalf("Size() = %d after draining, want 0", tr.Size())
			}
			if len(tr.Keys()) != 0 {
				t.Fatalf("Keys() non-empty after draining")
			}
		})
	}
}

func TestInsertDuplicateRejected(t *testing.T) {
	tr := New[int](4)
	if !tr.Insert(5) {
		t.Fatalf("first Insert(5) should succeed")
	}
	if tr.Insert(5) {
		t.Fatalf("duplicate Insert(5) should be rejected")
	}
	if tr.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tr.Size())
	}
}

func TestKeysAscending(t *testing.T) {
	tr := New[int](4)
	for _, k := range []int{9, 3, 7, 1, 5, 2, 8, 4, 6, 0} {
		tr.Insert(k)
	}
	got := tr.Keys()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("Keys() not strictly ascending: %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("Keys() len = %d, want 10", len(got))
	}
}

func TestRemoveMissing(t *testing.T) {
	tr := New[int](4)
	tr.Insert(1)
	if tr.Remove(2) {
		t.Fatalf("Remove(2) on absent key should be false")
	}
}

func itoaOrder(order int) string {
	switch order {
	case 3:
		return "order=3"
	case 4:
		return "order=4"
	case 5:
		return "order=5"
	case 8:
		return "order=8"
	case 16:
		return "order=16"
	default:
		return "order"
	}
}
