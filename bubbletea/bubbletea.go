// Package bubbletea provides an interactive line editor for the chat
// console, built on Bubble Tea and the bubbles text input.
package bubbletea

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
)

// Prompt reads lines by running a short-lived Bubble Tea program per line.
type Prompt struct {
	in     io.Reader
	out    io.Writer
	styles Styles
}

// NewPrompt creates a Prompt reading key presses from in and drawing to out.
func NewPrompt(in io.Reader, out io.Writer, theme chat.Theme) *Prompt {
	return &Prompt{in: in, out: out, styles: NewStyles(theme)}
}

// ReadLine runs the line editor until the user submits a line. Ending input
// with Ctrl+C, Ctrl+D on an empty line or Esc returns io.EOF.
func (p *Prompt) ReadLine() (string, error) {
	prog := tea.NewProgram(NewModel(p.styles),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("bubbletea: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.Submitted() {
		return "", io.EOF
	}
	return m.Value(), nil
}
