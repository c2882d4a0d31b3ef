package mock

import (
	"io"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Stream = (*Stream)(nil)

// Stream is a test double for chat.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn and StateFn are nil-safe (no-op and zero
// value) because consumers commonly call defer stream.Close() and these
// methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (string, error)
	StateFn func() chat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (string, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() chat.StreamState {
	if s.StateFn == nil {
		return chat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Fragments returns a Stream that yields the given fragments in order and
// then io.EOF.
func Fragments(fragments ...string) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (string, error) {
			if i >= len(fragments) {
				return "", io.EOF
			}
			f := fragments[i]
			i++
			return f, nil
		},
	}
}
