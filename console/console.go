// Package console implements the line-oriented chat surface: it reads user
// input, prints assistant replies as they arrive and reports session events.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/goldmark"
)

// Markers printed before each side of the conversation.
const (
	UserMarker      = "[User]"
	AssistantMarker = "[AI]"
)

// LineReader reads one line of user input.
type LineReader interface {
	ReadLine() (string, error)
}

// Interface compliance check.
var _ chat.Console = (*Console)(nil)

// Console reads user lines from an input and renders results to an output.
type Console struct {
	out      io.Writer
	in       *bufio.Reader
	prompt   LineReader
	styles   Styles
	markdown *goldmark.Renderer
	width    int
}

type options struct {
	theme    chat.Theme
	prompt   LineReader
	markdown bool
	width    int
}

// Option configures a [Console].
type Option func(*options)

// WithTheme sets the color theme.
func WithTheme(t chat.Theme) Option {
	return func(o *options) { o.theme = t }
}

// WithLineReader replaces the plain line reader, e.g. with an interactive
// line editor.
func WithLineReader(lr LineReader) Option {
	return func(o *options) { o.prompt = lr }
}

// WithMarkdown displays non-streamed replies as rendered markdown wrapped to
// width. The recorded reply is always the raw text.
func WithMarkdown(width int) Option {
	return func(o *options) {
		o.markdown = true
		o.width = width
	}
}

// New creates a Console reading from in and writing to out. Styles are bound
// to out, so a writer that is not a terminal receives plain text.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	o := options{theme: chat.DefaultTheme()}
	for _, opt := range opts {
		opt(&o)
	}
	lr := lipgloss.NewRenderer(out)
	c := &Console{
		out:    out,
		in:     bufio.NewReader(in),
		prompt: o.prompt,
		styles: NewStyles(lr, o.theme),
		width:  o.width,
	}
	if o.markdown {
		c.markdown = goldmark.New(lr, o.theme)
	}
	return c
}

// ReadLine prints the user marker and returns one line of input without its
// line terminator. It returns io.EOF once input is exhausted.
func (c *Console) ReadLine() (string, error) {
	fmt.Fprintln(c.out, c.styles.User.Render(UserMarker))
	if c.prompt != nil {
		return c.prompt.ReadLine()
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Render prints the assistant marker followed by r and returns the reply
// text to record in the transcript. Only the displayed copy is sanitized.
func (c *Console) Render(r chat.Result) string {
	fmt.Fprintf(c.out, "\n%s\n", c.styles.Assistant.Render(AssistantMarker))

	switch r := r.(type) {
	case chat.ErrorResult:
		text := r.Text()
		fmt.Fprintf(c.out, "%s\n\n", c.styles.Error.Render(Sanitize(text)))
		return text
	case chat.StreamResult:
		return c.drain(r.Stream)
	case chat.TextResult:
		display := Sanitize(r.Text)
		if c.markdown != nil {
			display = c.markdown.Render(display, c.width)
		}
		fmt.Fprintf(c.out, "%s\n\n", display)
		return r.Text
	default:
		return ""
	}
}

// drain writes fragments as they arrive. A failure part way through ends the
// reply with an error marker after the partial text.
func (c *Console) drain(s chat.Stream) string {
	defer s.Close()

	var sb strings.Builder
	var ss streamSanitizer
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			fmt.Fprint(c.out, "\n\n")
			return sb.String()
		}
		if err != nil {
			failure := chat.ErrorResult{Kind: chat.ClassifyError(nil, err), Message: err.Error()}.Text()
			fmt.Fprintf(c.out, "\n%s\n\n", c.styles.Error.Render(Sanitize(failure)))
			if sb.Len() == 0 {
				return failure
			}
			return sb.String() + "\n" + failure
		}
		io.WriteString(c.out, ss.Write(f))
		sb.WriteString(f)
	}
}

// Banner prints the generation settings at startup.
func (c *Console) Banner(cfg chat.GenerationConfig) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.Accent.Render("Language Model:"))
	for _, s := range cfg.Settings() {
		label := fmt.Sprintf("%-18s", s.Label+":")
		fmt.Fprintf(c.out, "- %s %s\n", c.styles.Muted.Render(label), s.Value)
	}
	fmt.Fprintln(c.out)
}

// Saved reports where the conversation log was written.
func (c *Console) Saved(path string) {
	fmt.Fprintf(c.out, "\nConversation history saved to \"%s\".\n", path)
}
