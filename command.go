package chat

import "strings"

// SessionCommand is derived from each line of user input.
type SessionCommand int

const (
	CommandContinue SessionCommand = iota
	CommandExit
)

// exitKeyword ends the session when entered on its own, in any letter case.
const exitKeyword = "exit"

// ParseCommand classifies a line of raw user input.
func ParseCommand(input string) SessionCommand {
	if strings.EqualFold(strings.TrimSpace(input), exitKeyword) {
		return CommandExit
	}
	return CommandContinue
}
