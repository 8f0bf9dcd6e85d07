package blackboard

import "time"

// Snapshot is an immutable, ordered view of committed entries at an
// epoch. It is never mutated after construction; two snapshots built from
// equal entry sequences have equal Thumbprint and byte-equal Rendered
// text (spec §3 Snapshot invariants).
type Snapshot struct {
	Epoch      uint64
	Entries    []Entry
	Thumbprint Hash
	Rendered   string
}

// Len reports the number of entries in the snapshot.
func (s *Snapshot) Len() int { return len(s.Entries) }

// IsEmpty reports whether the snapshot has no entries.
func (s *Snapshot) IsEmpty() bool { return len(s.Entries) == 0 }

// emptySnapshot returns the zero-entry snapshot for a given epoch.
func emptySnapshot(epoch uint64) *Snapshot {
	return &Snapshot{Epoch: epoch, Entries: nil, Thumbprint: computeThumbprint(nil), Rendered: renderSnapshot(nil)}
}

// Snapshot returns the memoized snapshot if one is cached and still valid,
// else builds a fresh one: walk canonical order, look up each hash in
// live, drop tombstoned/expired entries, compute the thumbprint over the
// retained hash sequence, pre-render the prompt text, memoize, and return.
func (s *memStore) Snapshot() (*Snapshot, error) {
	s.snapMu.RLock()
	if s.snapshot != nil {
		cached := s.snapshot
		s.snapMu.RUnlock()
		return cached, nil
	}
	s.snapMu.RUnlock()

	snap := s.buildSnapshot()

	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()

	return snap, nil
}

func (s *memStore) buildSnapshot() *Snapshot {
	order := s.order.snapshot()
	now := time.Now().UTC()
	stmTTL := s.stmTTL()

	entries := make([]Entry, 0, len(order))
	hashes := make([]Hash, 0, len(order))
	for _, h := range order {
		e, ok := s.live.get(h)
		if !ok {
			continue
		}
		if e.IsExpired(stmTTL, now) {
			continue
		}
		entries = append(entries, e)
		hashes = append(hashes, e.Hash)
	}

	return &Snapshot{
		Epoch:      s.Epoch(),
		Entries:    entries,
		Thumbprint: computeThumbprint(hashes),
		Rendered:   renderSnapshot(entries),
	}
}

// CacheThumbprint returns the current snapshot's thumbprint. Per spec §7,
// this degrades to ZeroHash on internal error rather than propagating,
// since it sits on hot paths where a cache miss is preferable to a
// caller-visible error.
func (s *memStore) CacheThumbprint() Hash {
	snap, err := s.Snapshot()
	if err != nil {
		return ZeroHash
	}
	return snap.Thumbprint
}
