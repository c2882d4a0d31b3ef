// Package openai implements [chat.Provider] for the OpenAI Chat Completions
// API using the go-openai client.
package openai

import (
	"context"
	"net/http"

	"github.com/fwojciec/chat"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Interface compliance check.
var _ chat.Provider = (*Client)(nil)

// Client implements [chat.Provider] for OpenAI.
type Client struct {
	api    *goopenai.Client
	logger *zap.Logger
}

type options struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a [Client].
type Option func(*options)

// WithBaseURL sets the API base URL, including the /v1 suffix. Useful for
// testing with httptest and for OpenAI-compatible gateways.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a new OpenAI [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}
	return &Client{
		api:    goopenai.NewClientWithConfig(cfg),
		logger: o.logger,
	}
}

// Complete sends a non-streaming chat completion request and returns the
// content of the first choice.
func (c *Client) Complete(ctx context.Context, req chat.Request) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, buildRequest(req, false))
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", chat.NewProviderError(chat.ErrCodeServerError, "openai: response has no choices", nil)
	}
	c.logger.Debug("openai completion",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// Stream sends a streaming chat completion request and returns a
// [chat.Stream] of content fragments.
func (c *Client) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	s, err := c.api.CreateChatCompletionStream(ctx, buildRequest(req, true))
	if err != nil {
		return nil, mapError(err)
	}
	return newStream(s), nil
}

func buildRequest(req chat.Request, stream bool) goopenai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	return goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    convertMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Stream:      stream,
	}
}

func convertMessages(turns []chat.Turn) []goopenai.ChatCompletionMessage {
	result := make([]goopenai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		result[i] = goopenai.ChatCompletionMessage{
			Role:    convertRole(t.Role),
			Content: t.Content,
		}
	}
	return result
}

func convertRole(r chat.Role) string {
	switch r {
	case chat.RoleSystem:
		return goopenai.ChatMessageRoleSystem
	case chat.RoleAssistant:
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}

const defaultModel = goopenai.GPT4o
