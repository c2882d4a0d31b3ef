package console

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize removes terminal escape sequences and control characters from
// model output before it is displayed. Tabs and newlines are kept and CRLF
// becomes LF. A lone CR is dropped so replies cannot overwrite what is
// already on screen.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// streamSanitizer sanitizes a reply that arrives in fragments. An escape
// sequence cut off at the end of a fragment is held back until a later
// fragment completes it; one still open when the stream ends is dropped.
type streamSanitizer struct {
	pending string
}

// Write returns the displayable part of f.
func (s *streamSanitizer) Write(f string) string {
	buf := s.pending + f
	s.pending = ""
	for i := 0; i < len(buf); {
		_, _, n, state := ansi.DecodeSequence(buf[i:], ansi.NormalState, nil)
		if state != ansi.NormalState {
			s.pending = buf[i:]
			return Sanitize(buf[:i])
		}
		i += max(n, 1)
	}
	return Sanitize(buf)
}
