package chat

import "context"

// Provider is a strategy pattern interface for LLM completion endpoints.
// Implementations make exactly one outbound call per method invocation and
// report failures as errors, preferably *ProviderError.
type Provider interface {
	// Complete returns the whole assistant reply.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream returns the assistant reply as incremental fragments.
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Request carries the conversation and generation parameters of one call.
type Request struct {
	Model       string
	Messages    []Turn
	MaxTokens   int // 0 = provider default
	Temperature float64
}

// NewRequest builds a Request from a transcript and the session config.
func NewRequest(t *Transcript, cfg GenerationConfig) Request {
	return Request{
		Model:       cfg.Model,
		Messages:    t.Turns(),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// SplitSystem returns the system prompt and the remaining turns. Providers
// whose APIs carry the system prompt out of band use it.
func (r Request) SplitSystem() (string, []Turn) {
	if len(r.Messages) > 0 && r.Messages[0].Role == RoleSystem {
		return r.Messages[0].Content, r.Messages[1:]
	}
	return "", r.Messages
}
