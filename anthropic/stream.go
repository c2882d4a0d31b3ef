package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/chat"
)

// stream implements [chat.Stream] by parsing SSE events from an HTTP response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   chat.StreamState
	err     error // terminal error, if any
}

// Interface compliance check.
var _ chat.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		state:   chat.StreamStateNew,
	}
}

// Next reads SSE events until the next text fragment.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (string, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return "", io.EOF
	case chat.StreamStateError:
		return "", s.err
	case chat.StreamStateClosed:
		return "", fmt.Errorf("anthropic: %w", chat.ErrStreamClosed)
	}

	for {
		eventType, data, err := s.readSSEEvent()
		if err != nil {
			s.terminate(err)
			return "", s.err
		}

		s.state = chat.StreamStateStreaming

		text, err := s.processEvent(eventType, data)
		if err != nil {
			s.terminate(err)
			return "", s.err
		}

		// processEvent may set a terminal state (message_stop).
		if s.state == chat.StreamStateComplete {
			return "", io.EOF
		}

		if text != "" {
			return text, nil
		}
		// Non-text event (ping, message_start, etc.) - keep reading.
	}
}

// State returns the current stream state.
func (s *stream) State() chat.StreamState {
	return s.state
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error and sets the error state.
func (s *stream) terminate(err error) {
	s.state = chat.StreamStateError
	switch {
	case err == io.EOF:
		// Normal completion via message_stop sets StreamStateComplete
		// before we reach here. Raw EOF means the stream was cut short.
		s.err = chat.NewProviderError(chat.ErrCodeTransport, "anthropic: unexpected end of stream", nil)
	case s.ctx.Err() != nil:
		s.err = chat.NewProviderError(chat.ErrCodeCancelled, "anthropic: stream cancelled", s.ctx.Err())
	default:
		s.err = err
	}
}

// readSSEEvent reads lines until a complete SSE event is assembled.
// Returns the event type and the data payload.
func (s *stream) readSSEEvent() (string, string, error) {
	var eventType string
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if dataBuf.Len() > 0 {
				return eventType, dataBuf.String(), nil
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and unknown fields.
	}

	if err := s.scanner.Err(); err != nil {
		return "", "", chat.NewProviderError(chat.ErrCodeTransport, "anthropic: read stream", err)
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return eventType, dataBuf.String(), nil
	}
	return "", "", io.EOF
}

// processEvent returns the text carried by an SSE event, if any.
func (s *stream) processEvent(eventType, data string) (string, error) {
	switch eventType {
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", chat.NewProviderError(chat.ErrCodeServerError, "anthropic: failed to parse content_block_delta", err)
		}
		if evt.Delta.Type == "text_delta" {
			return evt.Delta.Text, nil
		}
		return "", nil
	case "message_stop":
		s.state = chat.StreamStateComplete
		return "", nil
	case "error":
		var evt sseError
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return "", chat.NewProviderError(chat.ErrCodeServerError, "anthropic: failed to parse error event", err)
		}
		return "", chat.NewProviderError(streamErrorCode(evt.Error.Type), fmt.Sprintf("anthropic: %s: %s", evt.Error.Type, evt.Error.Message), nil)
	default:
		// message_start, content_block_start/stop, message_delta, ping and
		// unknown event types carry no text.
		return "", nil
	}
}

func streamErrorCode(errType string) string {
	switch errType {
	case "rate_limit_error":
		return chat.ErrCodeRateLimit
	case "authentication_error", "permission_error":
		return chat.ErrCodeAuthentication
	case "invalid_request_error":
		return chat.ErrCodeInvalidRequest
	default:
		return chat.ErrCodeServerError
	}
}
