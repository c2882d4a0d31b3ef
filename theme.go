package chat

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means no color.
type Theme struct {
	UserPrompt      int // [User] marker
	AssistantPrompt int // [AI] marker
	Error           int // Error marker text
	Muted           int // Banner labels, code gutters
	Accent          int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserPrompt:      4,
		AssistantPrompt: 2,
		Error:           1,
		Muted:           8,
		Accent:          5,
	}
}

// PlainTheme returns a theme without colors.
func PlainTheme() Theme {
	return Theme{
		UserPrompt:      -1,
		AssistantPrompt: -1,
		Error:           -1,
		Muted:           -1,
		Accent:          -1,
	}
}
