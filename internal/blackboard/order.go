package blackboard

import (
	"bytes"
	"sort"
	"sync"
)

// canonicalOrder is the append-only sequence of hashes that defines
// snapshot order. It is guarded by a single readers-writer mutex per
// spec §5: readers hold a read lock for the duration of iteration,
// writers (epoch advance, compaction) take the write lock briefly.
type canonicalOrder struct {
	mu   sync.RWMutex
	seq  []Hash
}

// appendSorted appends hashes to the sequence in ascending byte order.
// This is the documented tie-break for batched pending promotion
// (spec §4.4): promotion order within an epoch is deterministic regardless
// of map iteration order, which makes canonical order — and therefore the
// thumbprint — reproducible across processes.
func (c *canonicalOrder) appendSorted(hashes []Hash) {
	if len(hashes) == 0 {
		return
	}
	sorted := make([]Hash, len(hashes))
	copy(sorted, hashes)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	c.mu.Lock()
	c.seq = append(c.seq, sorted...)
	c.mu.Unlock()
}

// snapshot returns a copy of the current sequence.
func (c *canonicalOrder) snapshot() []Hash {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Hash, len(c.seq))
	copy(out, c.seq)
	return out
}

// retain filters the sequence in place, keeping only hashes for which keep
// returns true. Relative order is preserved.
func (c *canonicalOrder) retain(keep func(Hash) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := c.seq[:0:0]
	for _, h := range c.seq {
		if keep(h) {
			filtered = append(filtered, h)
		}
	}
	c.seq = filtered
}

// evictFront removes the first n hashes from the sequence, returning them.
func (c *canonicalOrder) evictFront(n int) []Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.seq) {
		n = len(c.seq)
	}
	evicted := make([]Hash, n)
	copy(evicted, c.seq[:n])
	c.seq = c.seq[n:]
	return evicted
}

// len returns the current sequence length.
func (c *canonicalOrder) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seq)
}

// clear empties the sequence.
func (c *canonicalOrder) clear() {
	c.mu.Lock()
	c.seq = nil
	c.mu.Unlock()
}
