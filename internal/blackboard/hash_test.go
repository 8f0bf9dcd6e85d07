package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	e1 := NewEntry("agent-a", KindFact, "the sky is blue", Hash{}, false)
	e2 := NewEntry("agent-a", KindFact, "the sky is blue", Hash{}, false)
	assert.Equal(t, e1.Hash, e2.Hash, "same author/content/parent must hash equal")

	e3 := NewEntry("agent-b", KindFact, "the sky is blue", Hash{}, false)
	assert.NotEqual(t, e1.Hash, e3.Hash, "different author must hash differently")

	e4 := NewEntry("agent-a", KindFact, "the sky is green", Hash{}, false)
	assert.NotEqual(t, e1.Hash, e4.Hash, "different content must hash differently")
}

func TestHashFieldBoundaryUnambiguous(t *testing.T) {
	e1 := NewEntry("a", KindFact, "\x00\x01z", Hash{}, false)
	e2 := NewEntry("a\x00\x01", KindFact, "z", Hash{}, false)
	assert.NotEqual(t, e1.Hash, e2.Hash,
		"author/content boundary must not be shiftable without changing the hash")
}

func TestHashParentPresenceDistinctFromZeroParent(t *testing.T) {
	noParent := NewEntry("agent-a", KindFact, "x", Hash{}, false)
	zeroParent := NewEntry("agent-a", KindFact, "x", Hash{}, true)
	assert.NotEqual(t, noParent.Hash, zeroParent.Hash,
		"absent parent must hash differently from a parent that happens to be the zero hash")
}

func TestThumbprintDeterministic(t *testing.T) {
	a := Hash{1}
	b := Hash{2}
	t1 := computeThumbprint([]Hash{a, b})
	t2 := computeThumbprint([]Hash{a, b})
	assert.Equal(t, t1, t2)

	t3 := computeThumbprint([]Hash{b, a})
	assert.NotEqual(t, t1, t3, "order must affect the thumbprint")
}

func TestShortHex(t *testing.T) {
	h := Hash{0xab, 0xcd, 0xef}
	require.Equal(t, "abcdef", h.Short(6))
}

func TestHashTextMarshalRoundtrip(t *testing.T) {
	h := Hash{0xde, 0xad, 0xbe, 0xef}
	text, err := h.MarshalText()
	require.NoError(t, err)

	var got Hash
	require.NoError(t, got.UnmarshalText(text))
	require.Equal(t, h, got)
}

func TestHashTextUnmarshalRejectsBadLength(t *testing.T) {
	var h Hash
	require.Error(t, h.UnmarshalText([]byte("ab")))
}
