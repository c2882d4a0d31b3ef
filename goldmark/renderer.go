package goldmark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const minItemWidth = 10

type styles struct {
	lr        *lipgloss.Renderer
	bold      lipgloss.Style
	italic    lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newStyles(lr *lipgloss.Renderer, theme chat.Theme) *styles {
	return &styles{
		lr:        lr,
		bold:      lr.NewStyle().Bold(true),
		italic:    lr.NewStyle().Italic(true),
		accent:    lr.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lr.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lr.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (s *styles) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var sb strings.Builder
	s.walkBlock(doc, source, width, &sb)
	return strings.TrimRight(sb.String(), "\n")
}

func (s *styles) wrap(content string, width int) string {
	return s.lr.NewStyle().Width(width).Render(content)
}

func (s *styles) walkBlock(node ast.Node, source []byte, width int, sb *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		s.renderBlock(c, source, width, sb)
	}
}

func (s *styles) renderBlock(node ast.Node, source []byte, width int, sb *strings.Builder) {
	switch n := node.(type) {
	case *ast.Paragraph:
		sb.WriteString(s.wrap(s.collectInline(n, source), width))
		sb.WriteString("\n")

	case *ast.Heading:
		sb.WriteString(s.wrap(s.accent.Render(s.collectInline(n, source)), width))
		sb.WriteString("\n")

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			sb.WriteString(s.muted.Render(lang))
			sb.WriteString("\n")
		}
		s.writeCode(n.Lines(), source, sb)

	case *ast.CodeBlock:
		s.writeCode(n.Lines(), source, sb)

	case *ast.List:
		s.renderList(n, source, width, sb, 0)

	case *ast.Blockquote:
		var inner strings.Builder
		s.walkBlock(n, source, width-2, &inner)
		bar := s.muted.Render("│") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			sb.WriteString(bar + line + "\n")
		}

	case *ast.ThematicBreak:
		sb.WriteString(s.muted.Render(strings.Repeat("─", min(width, defaultWidth))))
		sb.WriteString("\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}

	default:
		s.walkBlock(node, source, width, sb)
		return
	}
	if node.NextSibling() != nil {
		sb.WriteString("\n")
	}
}

func (s *styles) writeCode(lines *text.Segments, source []byte, sb *strings.Builder) {
	gutter := s.muted.Render("│") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.WriteString(gutter + strings.TrimRight(string(seg.Value(source)), "\n"))
		sb.WriteString("\n")
	}
}

func (s *styles) renderList(node *ast.List, source []byte, width int, sb *strings.Builder, depth int) {
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", depth)
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}

		var content strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(s.collectInline(in, source))
			case *ast.List:
				if content.Len() > 0 {
					s.writeListItem(sb, indent, marker, content.String(), width)
					content.Reset()
				}
				s.renderList(in, source, width, sb, depth+1)
				marker = strings.Repeat(" ", runewidth.StringWidth(marker))
			default:
				s.renderBlock(ic, source, width, &content)
			}
		}
		if content.Len() > 0 {
			s.writeListItem(sb, indent, marker, content.String(), width)
		}
	}
}

// writeListItem writes a list item with continuation lines aligned under
// the first character after the marker.
func (s *styles) writeListItem(sb *strings.Builder, indent, marker, content string, width int) {
	prefix := indent + marker
	prefixWidth := runewidth.StringWidth(prefix)
	wrapped := s.wrap(content, max(width-prefixWidth, minItemWidth))
	continuation := strings.Repeat(" ", prefixWidth)
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			sb.WriteString(prefix + line + "\n")
		} else {
			sb.WriteString(continuation + line + "\n")
		}
	}
}

func (s *styles) collectInline(node ast.Node, source []byte) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		s.renderInline(c, source, &sb)
	}
	return sb.String()
}

func (s *styles) renderInline(node ast.Node, source []byte, sb *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		sb.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			sb.WriteByte('\n')
		case n.SoftLineBreak():
			sb.WriteByte(' ')
		}

	case *ast.String:
		sb.Write(n.Value)

	case *ast.Emphasis:
		inner := s.collectInline(n, source)
		if n.Level == 1 {
			sb.WriteString(s.italic.Render(inner))
		} else {
			sb.WriteString(s.bold.Render(inner))
		}

	case *ast.CodeSpan:
		sb.WriteString(s.accent.UnsetBold().Render(s.collectInline(n, source)))

	case *ast.Link:
		sb.WriteString(s.underline.Render(s.collectInline(n, source)))
		sb.WriteString(" " + s.muted.Render("("+string(n.Destination)+")"))

	case *ast.AutoLink:
		sb.WriteString(s.underline.Render(string(n.URL(source))))

	case *ast.Image:
		sb.WriteString(s.underline.Render(s.collectInline(n, source)))
		sb.WriteString(" " + s.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			s.renderInline(c, source, sb)
		}
	}
}
