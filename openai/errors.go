package openai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/fwojciec/chat"
	goopenai "github.com/sashabaranov/go-openai"
)

// mapError translates go-openai and network errors into typed
// chat.ProviderError values.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return chat.NewProviderError(chat.ErrCodeCancelled, "openai: request cancelled", err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return chat.NewProviderError(codeForStatus(apiErr.HTTPStatusCode), "openai: "+apiErr.Message, nil)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return chat.NewProviderError(codeForStatus(reqErr.HTTPStatusCode), "openai: request failed", reqErr.Err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return chat.NewProviderError(chat.ErrCodeTransport, "openai: server unreachable", err)
	}

	return chat.NewProviderError(chat.ErrCodeTransport, "openai", err)
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
