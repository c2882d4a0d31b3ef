package bubbletea

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"
)

const (
	promptSymbol = "› "
	placeholder  = `Type a message, or "exit" to quit`
)

var _ tea.Model = Model{}

// Model is a single-line editor that finishes when the user submits a line
// or ends input.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model

	submitted bool
	ended     bool
}

// NewModel creates a focused line editor styled with s.
func NewModel(s Styles) Model {
	ti := textinput.New()
	ti.Prompt = promptSymbol
	ti.Placeholder = placeholder
	ti.PromptStyle = s.Prompt
	ti.TextStyle = s.Text
	ti.PlaceholderStyle = s.Placeholder
	ti.CharLimit = 0
	ti.Focus()
	return Model{Input: ti}
}

// Value returns the submitted line.
func (m Model) Value() string { return m.Input.Value() }

// Submitted reports whether the user pressed Enter.
func (m Model) Submitted() bool { return m.submitted }

// Ended reports whether the user ended input instead of submitting a line.
func (m Model) Ended() bool { return m.ended }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Input.Width = max(msg.Width-uniseg.StringWidth(promptSymbol)-1, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.ended = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.Input.Value() == "" {
				m.ended = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// View implements tea.Model. Once finished, the submitted line stays on
// screen as plain text and an ended prompt leaves nothing behind.
func (m Model) View() string {
	switch {
	case m.submitted:
		return m.Input.Value() + "\n"
	case m.ended:
		return ""
	default:
		return m.Input.View()
	}
}
