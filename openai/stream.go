package openai

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/chat"
	goopenai "github.com/sashabaranov/go-openai"
)

// stream implements [chat.Stream] on top of a go-openai chat completion
// stream. Chunks without content (role announcements, finish markers) are
// skipped.
type stream struct {
	src   *goopenai.ChatCompletionStream
	state chat.StreamState
	err   error
}

// Interface compliance check.
var _ chat.Stream = (*stream)(nil)

func newStream(src *goopenai.ChatCompletionStream) *stream {
	return &stream{src: src, state: chat.StreamStateNew}
}

// Next returns the next non-empty content fragment, or io.EOF when the
// server signals the end of the stream.
func (s *stream) Next() (string, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return "", io.EOF
	case chat.StreamStateError:
		return "", s.err
	case chat.StreamStateClosed:
		return "", fmt.Errorf("openai: %w", chat.ErrStreamClosed)
	}

	for {
		chunk, err := s.src.Recv()
		if errors.Is(err, io.EOF) {
			s.state = chat.StreamStateComplete
			return "", io.EOF
		}
		if err != nil {
			s.state = chat.StreamStateError
			s.err = mapError(err)
			return "", s.err
		}
		s.state = chat.StreamStateStreaming
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

// State returns the current stream state.
func (s *stream) State() chat.StreamState {
	return s.state
}

// Close releases the underlying HTTP response.
func (s *stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	return s.src.Close()
}
