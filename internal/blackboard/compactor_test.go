package blackboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario 3: TTL expiry, with prune_expired both false and true.
func TestScenarioTTLExpiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StmTTL = 10 * time.Millisecond
	cfg.PruneExpired = false
	s := newTestStore(t, cfg).(*memStore)

	e := NewEntry("a", KindObservation, "ephemeral", Hash{}, false, WithTier(TierStm))
	_, _ = s.Post(e)
	s.AdvanceEpoch()

	time.Sleep(30 * time.Millisecond)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Zero(t, snap.Len(), "expired entry must be absent from snapshot")

	_, err = s.Compact()
	require.NoError(t, err)
	_, ok := s.Get(e.Hash)
	require.True(t, ok, "with prune_expired=false the entry remains in live")

	cfg.PruneExpired = true
	s2 := newTestStore(t, cfg).(*memStore)
	_, _ = s2.Post(e)
	s2.AdvanceEpoch()
	time.Sleep(30 * time.Millisecond)

	_, err = s2.Compact()
	require.NoError(t, err)
	_, ok = s2.Get(e.Hash)
	require.False(t, ok, "with prune_expired=true the entry is physically removed")
}

func TestCompactRemovesSupersededTombstones(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneExpired = false
	s := newTestStore(t, cfg).(*memStore)

	e1 := NewEntry("a", KindHypothesis, "maybe", Hash{}, false)
	_, _ = s.Post(e1)
	s.AdvanceEpoch()

	e2 := NewEntry("a", KindDecision, "yes", Hash{}, false, WithSupersedes(e1.Hash))
	_, _ = s.Post(e2)
	s.AdvanceEpoch()

	stats, err := s.Compact()
	require.NoError(t, err)
	require.Equal(t, 1, stats.SupersededRemoved)

	_, ok := s.Get(e1.Hash)
	require.False(t, ok)
	_, ok = s.Get(e2.Hash)
	require.True(t, ok)
}
