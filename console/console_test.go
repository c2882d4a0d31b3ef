package console_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/console"
	"github.com/fwojciec/chat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineReaderFunc func() (string, error)

func (f lineReaderFunc) ReadLine() (string, error) { return f() }

func TestConsole_ReadLine(t *testing.T) {
	t.Parallel()

	t.Run("prints user marker and strips terminators", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader("hello\r\nsecond\n"), &out)

		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "hello", line)

		line, err = c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "second", line)

		assert.Equal(t, "[User]\n[User]\n", out.String())
	})

	t.Run("last line without newline", func(t *testing.T) {
		t.Parallel()
		c := console.New(strings.NewReader("exit"), io.Discard)

		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "exit", line)

		_, err = c.ReadLine()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("empty input returns EOF", func(t *testing.T) {
		t.Parallel()
		c := console.New(strings.NewReader(""), io.Discard)

		_, err := c.ReadLine()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("empty line is returned as is", func(t *testing.T) {
		t.Parallel()
		c := console.New(strings.NewReader("\n"), io.Discard)

		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "", line)
	})

	t.Run("line reader replaces plain input", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader("ignored\n"), &out,
			console.WithLineReader(lineReaderFunc(func() (string, error) {
				return "from editor", nil
			})),
		)

		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "from editor", line)
		assert.Equal(t, "[User]\n", out.String())
	})
}

func TestConsole_Render(t *testing.T) {
	t.Parallel()

	t.Run("text reply framed by assistant marker", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out)

		got := c.Render(chat.TextResult{Text: "42"})

		assert.Equal(t, "42", got)
		assert.Equal(t, "\n[AI]\n42\n\n", out.String())
	})

	t.Run("stream fragments printed as they arrive", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out)
		s := mock.Fragments("Hel", "lo", ", world")
		closed := false
		s.CloseFn = func() error {
			closed = true
			return nil
		}

		got := c.Render(chat.StreamResult{Stream: s})

		assert.Equal(t, "Hello, world", got)
		assert.Equal(t, "\n[AI]\nHello, world\n\n", out.String())
		assert.True(t, closed)
	})

	t.Run("empty stream", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out)

		got := c.Render(chat.StreamResult{Stream: mock.Fragments()})

		assert.Equal(t, "", got)
		assert.Equal(t, "\n[AI]\n\n\n", out.String())
	})

	t.Run("stream failure keeps partial text and appends marker", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out)
		calls := 0
		s := &mock.Stream{NextFn: func() (string, error) {
			calls++
			if calls == 1 {
				return "partial", nil
			}
			return "", errors.New("connection reset")
		}}

		got := c.Render(chat.StreamResult{Stream: s})

		want := "partial\n[EXCEPTION] An error occurred: connection reset"
		assert.Equal(t, want, got)
		assert.Equal(t, "\n[AI]\n"+want+"\n\n", out.String())
	})

	t.Run("stream failure before any text", func(t *testing.T) {
		t.Parallel()
		c := console.New(strings.NewReader(""), io.Discard)
		s := &mock.Stream{NextFn: func() (string, error) {
			return "", errors.New("boom")
		}}

		got := c.Render(chat.StreamResult{Stream: s})

		assert.Equal(t, "[EXCEPTION] An error occurred: boom", got)
	})

	t.Run("error result printed verbatim", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out)
		res := chat.ErrorResult{Kind: chat.ErrorAuthentication, Message: "invalid api key"}

		got := c.Render(res)

		assert.Equal(t, res.Text(), got)
		assert.Equal(t, "\n[AI]\n"+res.Text()+"\n\n", out.String())
	})

	t.Run("markdown display keeps raw reply", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := console.New(strings.NewReader(""), &out, console.WithMarkdown(80))

		got := c.Render(chat.TextResult{Text: "**bold** reply"})

		assert.Equal(t, "**bold** reply", got)
		assert.Contains(t, out.String(), "bold reply")
		assert.NotContains(t, out.String(), "**")
	})
}

func TestConsole_Banner(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)

	c.Banner(chat.DefaultGenerationConfig())

	want := "\nLanguage Model:\n" +
		"- Model:             gpt-4o\n" +
		"- Max Tokens:        1024\n" +
		"- Temperature:       0.7\n" +
		"- Streaming Enabled: True\n\n"
	assert.Equal(t, want, out.String())
}

func TestConsole_Saved(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)

	c.Saved("chat_log/chat_log_0.txt")

	assert.Equal(t, "\nConversation history saved to \"chat_log/chat_log_0.txt\".\n", out.String())
}
