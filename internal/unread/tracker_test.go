package unread

import (
	"sync"
	"testing"
)

func TestCompleteInOrder(t *testing.T) {
	tr := NewTracker()

	seq := tr.Begin()
	if count, applied := tr.Complete(seq, 3); !applied || count != 3 {
		t.Fatalf("first completion not applied: count=%d applied=%v", count, applied)
	}

	seq = tr.Begin()
	if count, applied := tr.Complete(seq, 2); !applied || count != 2 {
		t.Fatalf("second completion not applied: count=%d applied=%v", count, applied)
	}
	if tr.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", tr.Count())
	}
}

func TestStaleCompletionIsDropped(t *testing.T) {
	tr := NewTracker()

	older := tr.Begin()
	newer := tr.Begin()

	// The newer recount resolves first.
	if _, applied := tr.Complete(newer, 5); !applied {
		t.Fatal("newer completion should apply")
	}

	// The older recount resolving late must not overwrite the newer total.
	if count, applied := tr.Complete(older, 4); applied || count != 5 {
		t.Fatalf("stale completion applied: count=%d applied=%v", count, applied)
	}
	if tr.Count() != 5 {
		t.Fatalf("Count() = %d, want 5", tr.Count())
	}
}

func TestDuplicateCompletionIsIdempotent(t *testing.T) {
	tr := NewTracker()

	seq := tr.Begin()
	tr.Complete(seq, 7)
	if _, applied := tr.Complete(seq, 9); applied {
		t.Fatal("re-completing the same token should be a no-op")
	}
	if tr.Count() != 7 {
		t.Fatalf("Count() = %d, want 7", tr.Count())
	}
}

func TestConcurrentRecounts(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			seq := tr.Begin()
			tr.Complete(seq, n)
		}(int64(i))
	}
	wg.Wait()

	// Whatever interleaving happened, the final value must come from an
	// applied completion, so a fresh recount must still win.
	seq := tr.Begin()
	if count, applied := tr.Complete(seq, 42); !applied || count != 42 {
		t.Fatalf("fresh recount lost: count=%d applied=%v", count, applied)
	}
}
