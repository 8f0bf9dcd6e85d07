package blackboard

import "sync"

// EfficiencyCounter tracks cached-vs-fresh prompt token usage across a
// run (internal/promptcache feeds it via RecordCall), giving callers a
// cheap way to report prompt-cache effectiveness (spec §4.10).
type EfficiencyCounter struct {
	mu sync.Mutex

	TotalPromptTokens uint64
	CachedTokens      uint64
	FreshTokens       uint64
	Hits              uint64
	Misses            uint64
	ActiveThumbprint  Hash
}

// RecordCall records one LLM call's cache performance. fresh accumulates
// with a saturating subtraction: a cached count larger than total (a
// confused or lying provider response) never underflows FreshTokens.
func (c *EfficiencyCounter) RecordCall(total, cached uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.TotalPromptTokens += total
	c.CachedTokens += cached
	if cached >= total {
		// fresh contribution saturates at zero
	} else {
		c.FreshTokens += total - cached
	}

	if cached > 0 {
		c.Hits++
	} else {
		c.Misses++
	}
}

// SetActiveThumbprint records which snapshot thumbprint was live during
// the tracking period, for correlating efficiency with a specific epoch.
func (c *EfficiencyCounter) SetActiveThumbprint(h Hash) {
	c.mu.Lock()
	c.ActiveThumbprint = h
	c.mu.Unlock()
}

// HitRatio returns hits / (hits + misses), 0 on no calls recorded.
func (c *EfficiencyCounter) HitRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.Hits + c.Misses
	if total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(total)
}

// EstimatedSavingsRatio returns (cached * 0.9) / total, 0 on zero total —
// the 0.9 factor models Anthropic's ~90% discount on cache reads.
func (c *EfficiencyCounter) EstimatedSavingsRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.TotalPromptTokens == 0 {
		return 0
	}
	return (float64(c.CachedTokens) * 0.9) / float64(c.TotalPromptTokens)
}

// Snapshot returns a point-in-time copy of the counter's fields.
func (c *EfficiencyCounter) Snapshot() EfficiencyCounter {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c
	cp.mu = sync.Mutex{}
	return cp
}
