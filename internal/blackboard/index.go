package blackboard

import "sync"

const indexShardCount = 16

// secondaryIndex is a multi-valued map from key to an ordered sequence of
// hashes, sharded by key to avoid a single global lock. It never holds
// entry bodies — only hashes — so index maintenance is decoupled from
// entry mutation (see the lifecycle notes on Entry in entry.go).
type secondaryIndex struct {
	shards [indexShardCount]indexShard
}

type indexShard struct {
	mu      sync.RWMutex
	buckets map[string][]Hash
}

func newSecondaryIndex() *secondaryIndex {
	idx := &secondaryIndex{}
	for i := range idx.shards {
		idx.shards[i].buckets = make(map[string][]Hash)
	}
	return idx
}

func (idx *secondaryIndex) shardFor(key string) *indexShard {
	return &idx.shards[fnvShard(key)]
}

// add appends h to key's bucket, preserving insertion order.
func (idx *secondaryIndex) add(key string, h Hash) {
	s := idx.shardFor(key)
	s.mu.Lock()
	s.buckets[key] = append(s.buckets[key], h)
	s.mu.Unlock()
}

// remove filters h out of key's bucket in place.
func (idx *secondaryIndex) remove(key string, h Hash) {
	s := idx.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.buckets[key]
	for i, hh := range bucket {
		if hh == h {
			s.buckets[key] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// get returns a copy of key's bucket in insertion order.
func (idx *secondaryIndex) get(key string) []Hash {
	s := idx.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.buckets[key]
	out := make([]Hash, len(bucket))
	copy(out, bucket)
	return out
}

// union returns the deduplicated, order-stable concatenation of the
// buckets for the given keys.
func (idx *secondaryIndex) union(keys []string) []Hash {
	seen := make(map[Hash]bool)
	var out []Hash
	for _, key := range keys {
		for _, h := range idx.get(key) {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}
	return out
}

func fnvShard(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h % indexShardCount
}
