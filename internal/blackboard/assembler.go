package blackboard

// Message is a provider-agnostic chat message. Content holds either a
// plain string (history entries, passed through verbatim) or a []Block
// for the system message's multi-part cacheable layout.
type Message struct {
	Role    string
	Content any
}

// Block is one part of a multi-part message content array.
type Block struct {
	Text string

	// CacheBoundary marks this block as "cache everything through this
	// inclusive position" for providers with explicit cache-control
	// markers (e.g. Anthropic's ephemeral cache_control). Providers that
	// use implicit prefix caching ignore it; byte-identity of the message
	// array up to and including this block is what actually matters for
	// them.
	CacheBoundary bool
}

// PromptAssembler places a blackboard snapshot's rendered text as a
// stable, cacheable prefix in the LLM request message array (spec §4.11).
type PromptAssembler struct{}

// Build constructs the message array:
//
//	[0] system: [ {text: systemRoleText}, {text: renderedSnapshot, cache_boundary} ]
//	[1] user:   taskContext
//	[2..]       history, verbatim
//
// If renderedSnapshot is empty, message 0's content reduces to a single
// block with no cache boundary. For N agents reading the same snapshot
// epoch, messages 0 and 1 are byte-identical across all of them, which is
// what lets a provider's prefix cache recognize the shared prefix.
func (PromptAssembler) Build(systemRoleText, renderedSnapshot, taskContext string, history []Message) []Message {
	var systemContent []Block
	if renderedSnapshot == "" {
		systemContent = []Block{{Text: systemRoleText}}
	} else {
		systemContent = []Block{
			{Text: systemRoleText},
			{Text: renderedSnapshot, CacheBoundary: true},
		}
	}

	messages := make([]Message, 0, 2+len(history))
	messages = append(messages, Message{Role: "system", Content: systemContent})
	messages = append(messages, Message{Role: "user", Content: taskContext})
	messages = append(messages, history...)
	return messages
}
