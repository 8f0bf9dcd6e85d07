package blackboard

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// CompactionStats reports the outcome of a Compact call.
type CompactionStats struct {
	EntriesBefore     int
	EntriesAfter      int
	Tombstoned        int
	Expired           int
	Pruned            int
	SupersededRemoved int
}

// Compact runs the seven-step compaction algorithm (spec §4.9):
//  1. count tombstoned/expired entries
//  2. if PruneExpired, physically remove them from live and deindex
//  3. remove entries that are tombstoned AND superseded by a live successor
//  4. filter canonical order to hashes still in live
//  5. evict oldest entries by canonical order until len(live) <= MaxEntries
//  6. invalidate the memoized snapshot
//  7. return stats
func (s *memStore) Compact() (CompactionStats, error) {
	span := startWriteSpan(s.FlavorName(), "compact")
	defer endWriteSpan(span, nil)

	before := s.live.len()
	now := time.Now().UTC()
	stmTTL := s.stmTTL()

	live := s.live.all()

	// Step 1: classify tombstoned/expired concurrently across the entry
	// set — this is read-only work, safe to fan out before any mutation.
	tombstonedOrExpired := make([]bool, len(live))
	var g errgroup.Group
	const workers = 8
	chunk := (len(live) + workers - 1) / workers
	if chunk == 0 {
		chunk = 1
	}
	for start := 0; start < len(live); start += chunk {
		end := start + chunk
		if end > len(live) {
			end = len(live)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				tombstonedOrExpired[i] = live[i].Tombstoned || live[i].IsExpired(stmTTL, now)
			}
			return nil
		})
	}
	_ = g.Wait() // classification funcs never error

	tombstonedCount := 0
	expiredCount := 0
	for i, e := range live {
		if e.Tombstoned {
			tombstonedCount++
		} else if tombstonedOrExpired[i] {
			expiredCount++
		}
	}

	var pruned int
	if s.cfg.PruneExpired {
		for i, e := range live {
			if tombstonedOrExpired[i] {
				s.live.delete(e.Hash)
				s.deindexEntry(e)
				pruned++
			}
		}
	}

	// Step 3: remove tombstoned entries that are also named in some
	// non-tombstoned successor's Supersedes list — they're logically dead
	// either way, but explicit supersession lets us clean them up even
	// under PruneExpired=false.
	supersededTargets := make(map[Hash]bool)
	for _, e := range live {
		if e.Tombstoned {
			continue
		}
		for _, h := range e.Supersedes {
			supersededTargets[h] = true
		}
	}

	supersededRemoved := 0
	if !s.cfg.PruneExpired {
		for _, e := range live {
			if e.Tombstoned && supersededTargets[e.Hash] {
				if _, ok := s.live.get(e.Hash); ok {
					s.live.delete(e.Hash)
					s.deindexEntry(e)
					supersededRemoved++
				}
			}
		}
	} else {
		// Already removed by the prune pass above if also expired/tombstoned;
		// count any tombstoned-but-not-yet-pruned survivors that are targets.
		for i, e := range live {
			if e.Tombstoned && supersededTargets[e.Hash] && !tombstonedOrExpired[i] {
				if _, ok := s.live.get(e.Hash); ok {
					s.live.delete(e.Hash)
					s.deindexEntry(e)
					supersededRemoved++
				}
			}
		}
	}

	// Step 4: filter canonical order to hashes still in live.
	s.order.retain(func(h Hash) bool {
		return s.live.has(h)
	})

	// Step 5: enforce capacity by evicting oldest entries first.
	overflow := s.live.len() - s.cfg.MaxEntries
	if overflow > 0 {
		evicted := s.order.evictFront(overflow)
		for _, h := range evicted {
			if e, ok := s.live.get(h); ok {
				s.live.delete(h)
				s.deindexEntry(e)
			}
		}
	}

	s.invalidateSnapshot()

	stats := CompactionStats{
		EntriesBefore:     before,
		EntriesAfter:      s.live.len(),
		Tombstoned:        tombstonedCount,
		Expired:           expiredCount,
		Pruned:            pruned,
		SupersededRemoved: supersededRemoved,
	}
	s.emit(EventCompacted, "", "", s.Epoch(),
		fmt.Sprintf("pruned=%d superseded_removed=%d", stats.Pruned, stats.SupersededRemoved))
	return stats, nil
}
