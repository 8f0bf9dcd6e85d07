// Package promptcache is a small demo client that sends an assembled
// blackboard prompt to Anthropic's Messages API, marks the snapshot
// block with a cache_control boundary, and feeds the response's usage
// block back into a blackboard.EfficiencyCounter so the cache-alignment
// payoff is visible across calls that share a thumbprint.
package promptcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"

	"github.com/anthropics/blackboard/internal/audit"
	"github.com/anthropics/blackboard/internal/blackboard"
	"github.com/anthropics/blackboard/internal/telemetry"
)

const defaultTaskTemplate = `{{.TaskContext}}`

// Client wraps an Anthropic Messages client configured for blackboard
// cache-alignment demos.
type Client struct {
	api            anthropic.Client
	model          anthropic.Model
	taskTemplate   *template.Template
	maxRetries     uint64
	initialBackoff time.Duration
	auditDir       string
	auditActor     string
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the default model (anthropic.ModelClaude3_5HaikuLatest).
func WithModel(model anthropic.Model) Option {
	return func(c *Client) { c.model = model }
}

// WithMaxRetries overrides the default retry count (3).
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithInitialBackoff overrides the default initial backoff (500ms).
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) { c.initialBackoff = d }
}

// WithAudit enables JSONL audit logging of each call to dir/audit.jsonl,
// attributed to actor.
func WithAudit(dir, actor string) Option {
	return func(c *Client) { c.auditDir, c.auditActor = dir, actor }
}

// WithTaskTemplate overrides the task-rendering template (default: the
// task context verbatim). Useful for wrapping the task in fixed
// instructions without touching caller code.
func WithTaskTemplate(tmpl *template.Template) Option {
	return func(c *Client) { c.taskTemplate = tmpl }
}

// NewClient builds a Client from an API key (typically read from
// ANTHROPIC_API_KEY by the caller) and options.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("promptcache: empty API key")
	}

	tmpl, err := template.New("task").Parse(defaultTaskTemplate)
	if err != nil {
		return nil, fmt.Errorf("promptcache: parsing task template: %w", err)
	}

	c := &Client{
		api:            anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          anthropic.ModelClaude3_5HaikuLatest,
		taskTemplate:   tmpl,
		maxRetries:     3,
		initialBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Usage mirrors the subset of anthropic.Usage the efficiency counter
// cares about.
type Usage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// CallResult is the outcome of a single Call.
type CallResult struct {
	Response   string
	Usage      Usage
	Thumbprint blackboard.Hash
}

// Call assembles a prompt from the store's current snapshot plus
// taskContext, sends it to the model with a cache_control boundary on
// the snapshot block, and records usage into counter.
func (c *Client) Call(ctx context.Context, store blackboard.Store, systemRole, author, taskContext string, counter *blackboard.EfficiencyCounter) (*CallResult, error) {
	snap, err := store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("promptcache: snapshot: %w", err)
	}

	renderedTask, err := c.renderTask(taskContext)
	if err != nil {
		return nil, err
	}

	var assembler blackboard.PromptAssembler
	messages := assembler.Build(systemRole, snap.Rendered, renderedTask, nil)

	req, err := c.buildRequest(messages)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer("").Start(ctx, "promptcache.Call")
	defer span.End()

	msg, err := c.callWithRetry(ctx, req)
	if err != nil {
		c.auditDenied(author, err)
		return nil, err
	}

	usage := Usage{
		InputTokens:              msg.Usage.InputTokens,
		OutputTokens:             msg.Usage.OutputTokens,
		CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
	}
	if counter != nil {
		counter.SetActiveThumbprint(snap.Thumbprint)
		total := usage.InputTokens + usage.CacheCreationInputTokens + usage.CacheReadInputTokens
		counter.RecordCall(uint64(total), uint64(usage.CacheReadInputTokens))
	}

	text := responseText(msg)
	c.auditCall(taskContext, text)

	return &CallResult{Response: text, Usage: usage, Thumbprint: snap.Thumbprint}, nil
}

func (c *Client) renderTask(taskContext string) (string, error) {
	var buf strings.Builder
	if err := c.taskTemplate.Execute(&buf, struct{ TaskContext string }{taskContext}); err != nil {
		return "", fmt.Errorf("promptcache: rendering task template: %w", err)
	}
	return buf.String(), nil
}

func (c *Client) buildRequest(messages []blackboard.Message) (anthropic.MessageNewParams, error) {
	var system []anthropic.TextBlockParam
	var userMsgs []anthropic.MessageParam

	for _, m := range messages {
		switch m.Role {
		case "system":
			blocks, ok := m.Content.([]blackboard.Block)
			if !ok {
				return anthropic.MessageNewParams{}, fmt.Errorf("promptcache: system message content is not []blackboard.Block")
			}
			for _, b := range blocks {
				block := anthropic.TextBlockParam{Text: b.Text}
				if b.CacheBoundary {
					block.CacheControl = anthropic.NewCacheControlEphemeralParam()
				}
				system = append(system, block)
			}
		case "user":
			text, _ := m.Content.(string)
			userMsgs = append(userMsgs, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		case "assistant":
			text, _ := m.Content.(string)
			userMsgs = append(userMsgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		}
	}

	return anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System:    system,
		Messages:  userMsgs,
	}, nil
}

// callWithRetry sends req, retrying transient failures (429s and 5xxs)
// with exponential backoff.
func (c *Client) callWithRetry(ctx context.Context, req anthropic.MessageNewParams) (*anthropic.Message, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialBackoff
	boCtx := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	var msg *anthropic.Message
	op := func() error {
		var err error
		msg, err = c.api.Messages.New(ctx, req)
		if err == nil {
			return nil
		}

		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && isRetryable(apiErr.StatusCode) {
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, boCtx); err != nil {
		return nil, fmt.Errorf("promptcache: calling model: %w", err)
	}
	return msg, nil
}

func isRetryable(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}

func responseText(msg *anthropic.Message) string {
	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

func (c *Client) auditCall(prompt, response string) {
	if c.auditDir == "" {
		return
	}
	_, _ = audit.Append(c.auditDir, &audit.Entry{
		Kind:     "llm_call",
		Model:    string(c.model),
		Prompt:   prompt,
		Response: response,
		Reason:   "actor=" + c.auditActor,
	})
}

func (c *Client) auditDenied(author string, err error) {
	if c.auditDir == "" {
		return
	}
	_, _ = audit.Append(c.auditDir, &audit.Entry{
		Kind:   "llm_call_error",
		Model:  string(c.model),
		Reason: fmt.Sprintf("author=%s err=%v", author, err),
	})
}
