package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Provider = (*Client)(nil)

// Client implements [chat.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends a non-streaming request and returns the concatenated text
// blocks of the reply.
func (c *Client) Complete(ctx context.Context, req chat.Request) (string, error) {
	resp, err := c.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", chat.NewProviderError(chat.ErrCodeServerError, "anthropic: decode response", err)
	}
	var sb strings.Builder
	for _, b := range apiResp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// Stream sends a streaming request to the Anthropic Messages API and returns
// a [chat.Stream] of text fragments.
func (c *Client) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return newStream(ctx, resp.Body), nil
}

func (c *Client) post(ctx context.Context, req chat.Request, stream bool) (*http.Response, error) {
	body, err := json.Marshal(buildRequest(req, stream))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, chat.NewProviderError(chat.ErrCodeCancelled, "anthropic: request cancelled", err)
		}
		return nil, chat.NewProviderError(chat.ErrCodeTransport, "anthropic: request failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp, nil
}

func buildRequest(req chat.Request, stream bool) apiRequest {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	system, turns := req.SplitSystem()
	temp := req.Temperature

	return apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      stream,
		System:      system,
		Messages:    convertMessages(turns),
		Temperature: &temp,
	}
}

// convertMessages maps turns to API messages. The Messages API has no system
// role inside the message list, so stray system turns are skipped.
func convertMessages(turns []chat.Turn) []apiMessage {
	result := make([]apiMessage, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case chat.RoleUser:
			result = append(result, apiMessage{Role: "user", Content: t.Content})
		case chat.RoleAssistant:
			result = append(result, apiMessage{Role: "assistant", Content: t.Content})
		}
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	code := codeForStatus(resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.NewProviderError(code, fmt.Sprintf("anthropic: HTTP %d", resp.StatusCode), err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return chat.NewProviderError(code, fmt.Sprintf("anthropic: HTTP %d: %s", resp.StatusCode, string(body)), nil)
	}
	return chat.NewProviderError(code, fmt.Sprintf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message), nil)
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return chat.ErrCodeAuthentication
	case status == http.StatusTooManyRequests:
		return chat.ErrCodeRateLimit
	case status >= 500:
		return chat.ErrCodeServerError
	default:
		return chat.ErrCodeInvalidRequest
	}
}
