// Package goldmark renders assistant replies written in markdown to
// terminal output, using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
)

const defaultWidth = 80

// Renderer renders markdown with styles bound to a lipgloss renderer, so
// output written to a non-terminal stays free of escape codes.
type Renderer struct {
	styles *styles
}

// New returns a Renderer whose styles come from theme and are bound to lr.
// A nil lr uses the lipgloss default renderer.
func New(lr *lipgloss.Renderer, theme chat.Theme) *Renderer {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	return &Renderer{styles: newStyles(lr, theme)}
}

// Render parses markdown source and returns styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func (r *Renderer) Render(source string, width int) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return r.styles.render([]byte(source), width)
}

// Render renders source with the default lipgloss renderer.
func Render(source string, width int, theme chat.Theme) string {
	return New(nil, theme).Render(source, width)
}
