package chat

import (
	"context"
	"errors"
	"io"
)

// Completer produces a Result for the current transcript.
type Completer interface {
	Complete(ctx context.Context, t *Transcript, cfg GenerationConfig) Result
}

// Console is the interactive surface of a session: it reads user lines and
// displays results.
type Console interface {
	// ReadLine prompts for and returns one line of user input. It returns
	// io.EOF when input is exhausted.
	ReadLine() (string, error)
	// Render displays r and returns the full reply text.
	Render(r Result) string
}

// Interface compliance check.
var _ Completer = (*Client)(nil)

// Loop drives a conversation between a Console and a Completer.
type Loop struct {
	completer Completer
	console   Console
	cfg       GenerationConfig
}

// NewLoop creates a new Loop.
func NewLoop(completer Completer, console Console, cfg GenerationConfig) *Loop {
	return &Loop{completer: completer, console: console, cfg: cfg}
}

// Run reads user input until the exit command, end of input or context
// cancellation. Each non-exit line appends a user turn and the rendered
// reply as an assistant turn, so a failed call still yields one assistant
// turn. A line read after ctx is cancelled is discarded. Run returns an
// error only when reading input fails.
func (l *Loop) Run(ctx context.Context, t *Transcript) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := l.read(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ParseCommand(input) == CommandExit {
			return nil
		}
		l.turn(ctx, t, input)
	}
}

// read waits for the next line or for ctx to be cancelled, whichever comes
// first. A read abandoned on cancellation finishes in the background.
func (l *Loop) read(ctx context.Context) (string, error) {
	type line struct {
		text string
		err  error
	}
	ch := make(chan line, 1)
	go func() {
		text, err := l.console.ReadLine()
		ch <- line{text, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}

func (l *Loop) turn(ctx context.Context, t *Transcript, input string) {
	t.AppendUser(input)
	res := l.completer.Complete(ctx, t, l.cfg)
	t.AppendAssistant(l.console.Render(res))
}
