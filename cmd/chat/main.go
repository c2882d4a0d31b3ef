// Command chat is an interactive command-line chat with a large language
// model. Every conversation is saved as a numbered log when the session
// ends.
//
// Usage:
//
//	OPENAI_API_KEY=sk-...    chat [flags]
//	ANTHROPIC_API_KEY=sk-... chat --provider anthropic
//	GEMINI_API_KEY=...       chat --provider gemini
//	chat logs
//	chat show chat_log_0.txt
//
// Type "exit" (any case) to end a session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// A second interrupt terminates the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	s := streams{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
		width:       terminalWidth(os.Stdout),
		getenv:      os.Getenv,
	}
	if err := newRootCmd(s).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

// streams carries the process environment into commands.
type streams struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	width       int
	getenv      func(string) string
}

func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
