package chat

import (
	"fmt"
	"strconv"
)

// Provider names understood by the command-line wiring.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DefaultSystemPrompt is the system turn used when none is configured.
const DefaultSystemPrompt = "You are an intelligent assistant. You always provide well-reasoned answers that are both correct and helpful."

// GenerationConfig is the fixed set of parameters controlling every
// completion request of a session. It is built once at startup and passed
// by value.
type GenerationConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	// Streaming is the only switch that selects between a streamed and a
	// whole-text completion.
	Streaming bool
}

// DefaultGenerationConfig returns the out-of-the-box settings.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o",
		MaxTokens:   1024,
		Temperature: 0.7,
		Streaming:   true,
	}
}

// Validate checks universal constraints on GenerationConfig. Providers may
// still reject values outside their own accepted ranges.
func (c GenerationConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty: %w", ErrValidation)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g: %w", c.Temperature, ErrValidation)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", c.MaxTokens, ErrValidation)
	}
	return nil
}

// Setting is one labelled generation parameter as shown to the user.
type Setting struct {
	Label string
	Value string
}

// Settings returns the parameters reported in the startup banner and in
// saved log headers, in display order.
func (c GenerationConfig) Settings() []Setting {
	streaming := "False"
	if c.Streaming {
		streaming = "True"
	}
	return []Setting{
		{Label: "Model", Value: c.Model},
		{Label: "Max Tokens", Value: strconv.Itoa(c.MaxTokens)},
		{Label: "Temperature", Value: strconv.FormatFloat(c.Temperature, 'g', -1, 64)},
		{Label: "Streaming Enabled", Value: streaming},
	}
}
