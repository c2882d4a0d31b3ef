package chat

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving fragments.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream is a lazy, finite, non-restartable sequence of reply fragments. It
// uses a pull-based iterator pattern: Next returns the next fragment, or
// io.EOF once the reply is complete. Cancellation flows through the context
// passed to Provider.Stream().
//
// Fragments concatenate in emission order to form the full reply. After a
// terminal state Next keeps returning the terminal result. After Close,
// Next returns an error wrapping ErrStreamClosed.
type Stream interface {
	Next() (string, error)
	State() StreamState
	Close() error
}
