package chat

import "fmt"

// Turn is one message in the conversation, tagged with its speaker role.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is the ordered conversation history sent to the model on every
// call. The first turn is always the system turn; turns are only ever
// appended.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates a Transcript holding exactly one system turn.
func NewTranscript(systemPrompt string) *Transcript {
	return &Transcript{
		turns: []Turn{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// NewTranscriptFromTurns rebuilds a Transcript from persisted turns. The
// first turn must be the only system turn.
func NewTranscriptFromTurns(turns []Turn) (*Transcript, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("transcript is empty: %w", ErrValidation)
	}
	if turns[0].Role != RoleSystem {
		return nil, fmt.Errorf("first turn has role %q, want %q: %w", turns[0].Role, RoleSystem, ErrValidation)
	}
	for i, t := range turns[1:] {
		if !t.Role.Valid() {
			return nil, fmt.Errorf("turn %d: unknown role %q: %w", i+1, t.Role, ErrValidation)
		}
		if t.Role == RoleSystem {
			return nil, fmt.Errorf("turn %d: unexpected system turn: %w", i+1, ErrValidation)
		}
	}
	return &Transcript{turns: append([]Turn(nil), turns...)}, nil
}

// AppendUser appends a user turn.
func (t *Transcript) AppendUser(content string) {
	t.turns = append(t.turns, Turn{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant turn.
func (t *Transcript) AppendAssistant(content string) {
	t.turns = append(t.turns, Turn{Role: RoleAssistant, Content: content})
}

// Turns returns a copy of the turns in conversational order.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Len returns the number of turns, including the system turn.
func (t *Transcript) Len() int { return len(t.turns) }

// SystemPrompt returns the content of the leading system turn.
func (t *Transcript) SystemPrompt() string { return t.turns[0].Content }
