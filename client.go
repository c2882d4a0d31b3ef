package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Client turns provider calls into Results. It never returns an error: every
// transport, authentication or remote failure becomes an ErrorResult so the
// session loop keeps running.
type Client struct {
	provider Provider
	logger   *zap.Logger
}

// NewClient creates a Client. A nil logger disables logging.
func NewClient(provider Provider, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, logger: logger}
}

// Complete sends the full transcript to the provider. cfg.Streaming decides
// whether the result is a StreamResult or a TextResult.
func (c *Client) Complete(ctx context.Context, t *Transcript, cfg GenerationConfig) Result {
	req := NewRequest(t, cfg)
	c.logger.Debug("completion request",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("streaming", cfg.Streaming),
	)

	if cfg.Streaming {
		s, err := c.provider.Stream(ctx, req)
		if err != nil {
			return c.failure(ctx, err)
		}
		return StreamResult{Stream: s}
	}

	text, err := c.provider.Complete(ctx, req)
	if err != nil {
		return c.failure(ctx, err)
	}
	return TextResult{Text: text}
}

func (c *Client) failure(ctx context.Context, err error) ErrorResult {
	kind := ClassifyError(ctx, err)
	c.logger.Warn("completion failed", zap.String("kind", string(kind)), zap.Error(err))
	return ErrorResult{Kind: kind, Message: err.Error()}
}

// ClassifyError maps an error returned by a provider to an ErrorKind.
func ClassifyError(ctx context.Context, err error) ErrorKind {
	if errors.Is(err, context.Canceled) || (ctx != nil && ctx.Err() != nil) {
		return ErrorCancelled
	}
	switch ProviderErrorCode(err) {
	case ErrCodeAuthentication:
		return ErrorAuthentication
	case ErrCodeRateLimit:
		return ErrorRateLimit
	case ErrCodeInvalidRequest:
		return ErrorInvalidRequest
	case ErrCodeServerError:
		return ErrorServer
	case ErrCodeTransport:
		return ErrorTransport
	case ErrCodeCancelled:
		return ErrorCancelled
	default:
		return ErrorUnknown
	}
}
