package promptcache

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/blackboard/internal/blackboard"
)

func testClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient("test-key", opts...)
	require.NoError(t, err)
	return c
}

func TestRenderTaskDefaultTemplate(t *testing.T) {
	c := testClient(t)
	out, err := c.renderTask("investigate the failing build")
	require.NoError(t, err)
	require.Equal(t, "investigate the failing build", out)
}

func TestRenderTaskCustomTemplate(t *testing.T) {
	tmpl := template.Must(template.New("task").Parse("TASK: {{.TaskContext}}"))
	c := testClient(t, WithTaskTemplate(tmpl))

	out, err := c.renderTask("ship the fix")
	require.NoError(t, err)
	require.Equal(t, "TASK: ship the fix", out)
}

func TestIsRetryable(t *testing.T) {
	require.True(t, isRetryable(429))
	require.True(t, isRetryable(500))
	require.True(t, isRetryable(503))
	require.False(t, isRetryable(400))
	require.False(t, isRetryable(404))
}

func TestBuildRequestMarksCacheBoundary(t *testing.T) {
	c := testClient(t)
	var assembler blackboard.PromptAssembler
	messages := assembler.Build("you are an agent", "[Blackboard — 1 entries, thumbprint aaaaaaaa]", "do the task", nil)

	req, err := c.buildRequest(messages)
	require.NoError(t, err)
	require.Len(t, req.System, 2)
	require.Zero(t, req.System[0].CacheControl)
	require.NotZero(t, req.System[1].CacheControl)
	require.Len(t, req.Messages, 1)
}

func TestNewClientRejectsEmptyKey(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
}
