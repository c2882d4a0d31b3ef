package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/chat"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ chat.Provider = (*Client)(nil)

// Client implements [chat.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

type options struct {
	model   string
	baseURL string
}

// Option configures a [Client].
type Option func(*options)

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithBaseURL overrides the API endpoint. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	o := options{model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, model: o.model}, nil
}

// Complete sends a non-streaming request and returns the reply text.
func (c *Client) Complete(ctx context.Context, req chat.Request) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelFor(req), ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		return "", mapError(err)
	}
	return responseText(resp), nil
}

// Stream sends a streaming request to the Gemini API and returns a
// [chat.Stream] of text fragments.
func (c *Client) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	it := c.client.Models.GenerateContentStream(ctx, c.modelFor(req), ConvertMessages(req.Messages), buildConfig(req))
	return NewStreamFromIter(ctx, it), nil
}

func (c *Client) modelFor(req chat.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func buildConfig(req chat.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	temp := float32(req.Temperature)

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     &temp,
	}

	if system, _ := req.SplitSystem(); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return config
}

// ConvertMessages converts turns to genai Contents. The system turn is sent
// as a system instruction and is skipped here.
// Exported for testing.
func ConvertMessages(turns []chat.Turn) []*genai.Content {
	var result []*genai.Content
	for _, t := range turns {
		switch t.Role {
		case chat.RoleUser:
			result = append(result, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: t.Content}},
			})
		case chat.RoleAssistant:
			result = append(result, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: t.Content}},
			})
		}
	}
	return result
}

// responseText returns the non-thought text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// mapError translates genai and network errors into typed chat.ProviderError
// values.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return chat.NewProviderError(chat.ErrCodeCancelled, "gemini: request cancelled", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return chat.NewProviderError(codeForStatus(apiErr.Code), "gemini: "+apiErr.Message, nil)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return chat.NewProviderError(codeForStatus(apiErrPtr.Code), "gemini: "+apiErrPtr.Message, nil)
	}
	return chat.NewProviderError(chat.ErrCodeTransport, "gemini", err)
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return chat.ErrCodeAuthentication
	case status == http.StatusTooManyRequests:
		return chat.ErrCodeRateLimit
	case status >= 500:
		return chat.ErrCodeServerError
	case status >= 400:
		return chat.ErrCodeInvalidRequest
	default:
		return chat.ErrCodeServerError
	}
}
