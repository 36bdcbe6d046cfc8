package coarse

import (
	"sync"
	"testing"
)

func TestConcurrentInserts(t *testing.T) {
	tr := New[int](6)
	const n = 1000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			tr.Insert(k)
		}(i)
	}
	wg.Wait()
	if tr.Size() != n {
		t.Fatalf("Size() = %d, want %d", tr.Size(), n)
	}
	if err := tr.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants: %v", err)
	}
	for i := 0; i < n; i++ {
		if _, ok := tr.Get(i); !ok {
			t.Fatalf("Get(%d) missing", i)
		}
	}
}
