package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptAssemblerWithSnapshot(t *testing.T) {
	var a PromptAssembler
	history := []Message{{Role: "assistant", Content: "prior turn"}}

	msgs := a.Build("you are an agent", "[Blackboard — 1 entries, thumbprint aaaaaaaa]", "do the task", history)

	require.Len(t, msgs, 3)
	require.Equal(t, "system", msgs[0].Role)

	blocks, ok := msgs[0].Content.([]Block)
	require.True(t, ok)
	require.Len(t, blocks, 2)
	require.False(t, blocks[0].CacheBoundary)
	require.True(t, blocks[1].CacheBoundary)

	require.Equal(t, "user", msgs[1].Role)
	require.Equal(t, "do the task", msgs[1].Content)

	require.Equal(t, "assistant", msgs[2].Role)
}

func TestPromptAssemblerWithoutSnapshot(t *testing.T) {
	var a PromptAssembler
	msgs := a.Build("you are an agent", "", "do the task", nil)

	blocks, ok := msgs[0].Content.([]Block)
	require.True(t, ok)
	require.Len(t, blocks, 1)
	require.False(t, blocks[0].CacheBoundary)
}
