package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
)

// Styles maps a Theme to lipgloss styles for the line editor.
type Styles struct {
	Prompt      lipgloss.Style
	Text        lipgloss.Style
	Placeholder lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t chat.Theme) Styles {
	return Styles{
		Prompt:      lipgloss.NewStyle().Foreground(ansiColor(t.UserPrompt)).Bold(true),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
