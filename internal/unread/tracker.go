// Package unread sequences inbox recounts so that overlapping count queries
// cannot leave a stale total in place. Every change notification triggers a
// full recount rather than an incremental delta; the tracker ensures that
// when recounts complete out of order, only the newest issued one wins.
package unread

import "sync"

// Tracker guards a single inbox's unread total.
type Tracker struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	count   int64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin issues a recount token. The caller runs its count query and reports
// the result through Complete with the same token.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Complete records the result of a recount. The result is applied only when
// no newer recount has been applied already; a stale completion is dropped.
// The returned bool reports whether the value was applied.
func (t *Tracker) Complete(seq uint64, count int64) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq <= t.applied {
		return t.count, false
	}
	t.applied = seq
	t.count = count
	return t.count, true
}

// Count returns the most recently applied unread total.
func (t *Tracker) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
