package blackboard

import (
	"fmt"
	"sync"
	"time"
)

// simpleStore is an unindexed, linear-scan Store flavor: one mutex, one
// slice. It trades query performance for simplicity and is intended for
// tests and small single-agent workloads where the sharded memStore's
// concurrency machinery is unneeded overhead.
type simpleStore struct {
	cfg    Config
	policy PolicyHook
	sink   EventSink

	mu      sync.RWMutex
	entries []Entry
	epoch   uint64

	snapMu   sync.RWMutex
	snapshot *Snapshot
}

// NewSimple constructs the linear-scan store flavor directly, bypassing
// NewStore's Flavor switch. Most callers should prefer NewStore(cfg) with
// cfg.Flavor = FlavorSimple.
func NewSimple(cfg Config) Store {
	return newSimpleStore(cfg, nil, nil)
}

func newSimpleStore(cfg Config, policy PolicyHook, sink EventSink) *simpleStore {
	return &simpleStore{cfg: cfg, policy: policy, sink: sink}
}

// emit notifies the attached EventSink, if any. No-op when no sink is
// attached.
func (s *simpleStore) emit(eventType, entryHash, author string, epoch uint64, reason string) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(LifecycleEvent{
		Type:      eventType,
		EntryHash: entryHash,
		Author:    author,
		Epoch:     epoch,
		Reason:    reason,
	})
}

func (s *simpleStore) FlavorName() string { return string(FlavorSimple) }

func (s *simpleStore) indexOf(h Hash) int {
	for i, e := range s.entries {
		if e.Hash == h {
			return i
		}
	}
	return -1
}

func (s *simpleStore) Post(e Entry) (Hash, error) {
	span := startWriteSpan(s.FlavorName(), "post")
	var spanErr error
	defer func() { endWriteSpan(span, spanErr) }()

	if s.policy != nil {
		if err := s.policy.AllowPost(e); err != nil {
			s.emit(EventPolicyDenied, e.Hash.String(), e.Author, s.Epoch(), err.Error())
			spanErr = fmt.Errorf("%w: %v", ErrPolicyDenied, err)
			return Hash{}, spanErr
		}
	}

	s.mu.Lock()

	if s.indexOf(e.Hash) >= 0 {
		s.mu.Unlock()
		return e.Hash, nil
	}

	for _, superseded := range e.Supersedes {
		if i := s.indexOf(superseded); i >= 0 {
			s.entries[i].Tombstoned = true
			s.emit(EventEntryTombstoned, superseded.String(), e.Author, s.epoch, "superseded by "+e.Hash.String())
		}
	}

	s.entries = append(s.entries, e)
	s.invalidateSnapshotLocked()
	epoch := s.epoch
	s.mu.Unlock()

	s.emit(EventEntryPosted, e.Hash.String(), e.Author, epoch, "")
	return e.Hash, nil
}

func (s *simpleStore) PostBatch(entries []Entry) ([]Hash, error) {
	hashes := make([]Hash, 0, len(entries))
	for _, e := range entries {
		h, err := s.Post(e)
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

func (s *simpleStore) Get(h Hash) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(h); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

func (s *simpleStore) Query(q Query) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, e := range s.entries {
		if matches(e, q) {
			out = append(out, e)
			if q.Limit > 0 && len(out) >= q.Limit {
				break
			}
		}
	}
	return out, nil
}

func (s *simpleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *simpleStore) IsEmpty() bool { return s.Len() == 0 }

func (s *simpleStore) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *simpleStore) AdvanceEpoch() uint64 {
	span := startWriteSpan(s.FlavorName(), "advance_epoch")
	defer endWriteSpan(span, nil)

	s.mu.Lock()
	s.epoch++
	s.invalidateSnapshotLocked()
	epoch := s.epoch
	s.mu.Unlock()

	s.emit(EventEpochAdvanced, "", "", epoch, "")
	return epoch
}

func (s *simpleStore) Tombstone(h Hash) error {
	s.mu.Lock()
	i := s.indexOf(h)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	s.entries[i].Tombstoned = true
	s.invalidateSnapshotLocked()
	epoch := s.epoch
	s.mu.Unlock()

	s.emit(EventEntryTombstoned, h.String(), "", epoch, "")
	return nil
}

func (s *simpleStore) Compact() (CompactionStats, error) {
	span := startWriteSpan(s.FlavorName(), "compact")
	defer endWriteSpan(span, nil)

	s.mu.Lock()

	before := len(s.entries)
	now := time.Now().UTC()

	tombstonedCount := 0
	expiredCount := 0
	for _, e := range s.entries {
		if e.Tombstoned {
			tombstonedCount++
		} else if e.IsExpired(s.cfg.StmTTL, now) {
			expiredCount++
		}
	}

	supersededTargets := make(map[Hash]bool)
	for _, e := range s.entries {
		if !e.Tombstoned {
			for _, h := range e.Supersedes {
				supersededTargets[h] = true
			}
		}
	}

	kept := s.entries[:0:0]
	pruned := 0
	supersededRemoved := 0
	for _, e := range s.entries {
		expired := e.IsExpired(s.cfg.StmTTL, now)
		if s.cfg.PruneExpired && (e.Tombstoned || expired) {
			pruned++
			continue
		}
		if !s.cfg.PruneExpired && e.Tombstoned && supersededTargets[e.Hash] {
			supersededRemoved++
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) > s.cfg.MaxEntries {
		overflow := len(kept) - s.cfg.MaxEntries
		kept = kept[overflow:]
	}
	s.entries = kept

	s.invalidateSnapshotLocked()
	epoch := s.epoch
	s.mu.Unlock()

	stats := CompactionStats{
		EntriesBefore:     before,
		EntriesAfter:      len(kept),
		Tombstoned:        tombstonedCount,
		Expired:           expiredCount,
		Pruned:            pruned,
		SupersededRemoved: supersededRemoved,
	}
	s.emit(EventCompacted, "", "", epoch,
		fmt.Sprintf("pruned=%d superseded_removed=%d", stats.Pruned, stats.SupersededRemoved))
	return stats, nil
}

func (s *simpleStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.epoch = 0
	s.invalidateSnapshotLocked()
}

func (s *simpleStore) invalidateSnapshotLocked() {
	s.snapMu.Lock()
	s.snapshot = nil
	s.snapMu.Unlock()
}

func (s *simpleStore) Snapshot() (*Snapshot, error) {
	s.snapMu.RLock()
	if s.snapshot != nil {
		cached := s.snapshot
		s.snapMu.RUnlock()
		return cached, nil
	}
	s.snapMu.RUnlock()

	s.mu.RLock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	epoch := s.epoch
	stmTTL := s.cfg.StmTTL
	s.mu.RUnlock()

	now := time.Now().UTC()

	var retained []Entry
	var hashes []Hash
	for _, e := range entries {
		if e.IsExpired(stmTTL, now) {
			continue
		}
		retained = append(retained, e)
		hashes = append(hashes, e.Hash)
	}

	snap := &Snapshot{
		Epoch:      epoch,
		Entries:    retained,
		Thumbprint: computeThumbprint(hashes),
		Rendered:   renderSnapshot(retained),
	}

	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()

	return snap, nil
}

func (s *simpleStore) CacheThumbprint() Hash {
	snap, err := s.Snapshot()
	if err != nil {
		return ZeroHash
	}
	return snap.Thumbprint
}

func (s *simpleStore) ExportEntries(sinceEpoch *uint64) ([]Entry, error) {
	_ = sinceEpoch
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *simpleStore) ImportEntries(entries []Entry) ([]Hash, error) {
	var imported []Hash
	for _, e := range entries {
		want := computeEntryHash(e.Author, e.Content, e.Parent, e.HasParent)
		if want != e.Hash {
			return imported, fmt.Errorf("%w: entry %s re-hashes to %s", ErrSerialization, e.Hash, want)
		}
		s.mu.Lock()
		if s.indexOf(e.Hash) < 0 {
			s.entries = append(s.entries, e)
			imported = append(imported, e.Hash)
		}
		s.mu.Unlock()
	}
	if len(imported) > 0 {
		s.invalidateSnapshotLocked()
	}
	return imported, nil
}

func (s *simpleStore) BuildContextForTask(task, extraContext string) string {
	snap, err := s.Snapshot()
	if err != nil {
		return ""
	}
	return snap.Rendered
}

func (s *simpleStore) Stats() map[string]any {
	return map[string]any{
		"flavor":  s.FlavorName(),
		"entries": s.Len(),
		"epoch":   s.Epoch(),
	}
}
