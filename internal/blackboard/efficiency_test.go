package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// P11: record_call with cached > total never underflows FreshTokens.
func TestEfficiencyCounterSaturation(t *testing.T) {
	var c EfficiencyCounter
	c.RecordCall(100, 150)

	snap := c.Snapshot()
	require.Equal(t, uint64(100), snap.TotalPromptTokens)
	require.Equal(t, uint64(150), snap.CachedTokens)
	require.Equal(t, uint64(0), snap.FreshTokens)
	require.Equal(t, uint64(1), snap.Hits)
}

func TestEfficiencyCounterRatios(t *testing.T) {
	var c EfficiencyCounter
	c.RecordCall(1000, 900)
	c.RecordCall(1000, 0)

	require.InDelta(t, 0.5, c.HitRatio(), 0.001)
	require.InDelta(t, (900.0*0.9)/2000.0, c.EstimatedSavingsRatio(), 0.001)
}

func TestEfficiencyCounterEmpty(t *testing.T) {
	var c EfficiencyCounter
	require.Equal(t, 0.0, c.HitRatio())
	require.Equal(t, 0.0, c.EstimatedSavingsRatio())
}
