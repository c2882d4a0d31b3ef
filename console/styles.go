package console

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
)

// Styles maps a Theme to lipgloss styles for console output.
type Styles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
}

// NewStyles creates Styles from a Theme, bound to lr.
func NewStyles(lr *lipgloss.Renderer, t chat.Theme) Styles {
	return Styles{
		User:      lr.NewStyle().Foreground(ansiColor(t.UserPrompt)).Bold(true),
		Assistant: lr.NewStyle().Foreground(ansiColor(t.AssistantPrompt)).Bold(true),
		Error:     lr.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:     lr.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:    lr.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
