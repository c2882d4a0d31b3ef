package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/fwojciec/chat"
	"google.golang.org/genai"
)

// stream implements [chat.Stream] by wrapping the genai SDK's streaming
// iterator. Thought parts are not part of the reply and are skipped.
type stream struct {
	ctx     context.Context
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	state   chat.StreamState
	err     error
	pending []string
}

// Interface compliance check.
var _ chat.Stream = (*stream)(nil)

// NewStreamFromIter wraps a genai response iterator into a [chat.Stream].
// Exported for testing.
func NewStreamFromIter(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) chat.Stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		ctx:   ctx,
		pull:  next,
		stop:  stop,
		state: chat.StreamStateNew,
	}
}

// Next returns the next text fragment. A chunk carrying several text parts
// yields them one by one.
func (s *stream) Next() (string, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return "", io.EOF
	case chat.StreamStateError:
		return "", s.err
	case chat.StreamStateClosed:
		return "", fmt.Errorf("gemini: %w", chat.ErrStreamClosed)
	}

	for len(s.pending) == 0 {
		resp, err, ok := s.pull()
		if !ok {
			s.state = chat.StreamStateComplete
			return "", io.EOF
		}
		if err != nil {
			s.state = chat.StreamStateError
			if s.ctx.Err() != nil {
				s.err = chat.NewProviderError(chat.ErrCodeCancelled, "gemini: stream cancelled", err)
			} else {
				s.err = mapError(err)
			}
			return "", s.err
		}
		s.state = chat.StreamStateStreaming
		s.pending = textParts(resp)
	}

	f := s.pending[0]
	s.pending = s.pending[1:]
	return f, nil
}

func textParts(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var parts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		parts = append(parts, p.Text)
	}
	return parts
}

// State returns the current stream state.
func (s *stream) State() chat.StreamState {
	return s.state
}

// Close stops the underlying iterator.
func (s *stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	s.stop()
	return nil
}
