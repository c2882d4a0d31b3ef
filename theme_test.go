package chat_test

import (
	"testing"

	"github.com/fwojciec/chat"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := chat.DefaultTheme()

	assert.Equal(t, 4, theme.UserPrompt)
	assert.Equal(t, 2, theme.AssistantPrompt)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
}

func TestPlainTheme(t *testing.T) {
	t.Parallel()

	theme := chat.PlainTheme()

	assert.Equal(t, -1, theme.UserPrompt)
	assert.Equal(t, -1, theme.AssistantPrompt)
	assert.Equal(t, -1, theme.Error)
	assert.Equal(t, -1, theme.Muted)
	assert.Equal(t, -1, theme.Accent)
}
