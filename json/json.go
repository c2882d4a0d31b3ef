// Package json exports conversations as versioned JSON documents and reads
// them back to resume a session.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/chat"
	"github.com/google/uuid"
)

const version = 1

// Export is a conversation together with the settings that produced it.
type Export struct {
	ID        string
	CreatedAt time.Time
	Config    chat.GenerationConfig
	Turns     []chat.Turn
}

// NewExport snapshots t and cfg under a fresh ID.
func NewExport(t *chat.Transcript, cfg chat.GenerationConfig) Export {
	return Export{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Turns:     t.Turns(),
	}
}

// Transcript rebuilds a Transcript from the exported turns.
func (e Export) Transcript() (*chat.Transcript, error) {
	return chat.NewTranscriptFromTurns(e.Turns)
}

// envelope is the v1 wire format for an exported conversation.
type envelope struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Config    configDTO `json:"config"`
	Turns     []turnDTO `json:"turns"`
}

type configDTO struct {
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Streaming   bool    `json:"streaming"`
}

type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalTranscript serializes an Export in v1 envelope format.
func MarshalTranscript(e Export) ([]byte, error) {
	env := envelope{
		Version:   version,
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Config: configDTO{
			Provider:    e.Config.Provider,
			Model:       e.Config.Model,
			MaxTokens:   e.Config.MaxTokens,
			Temperature: e.Config.Temperature,
			Streaming:   e.Config.Streaming,
		},
		Turns: make([]turnDTO, len(e.Turns)),
	}
	for i, t := range e.Turns {
		env.Turns[i] = turnDTO{Role: string(t.Role), Content: t.Content}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes an Export from v1 envelope format. The
// turns must form a valid transcript.
func UnmarshalTranscript(data []byte) (Export, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Export{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return Export{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	turns := make([]chat.Turn, len(env.Turns))
	for i, dto := range env.Turns {
		turns[i] = chat.Turn{Role: chat.Role(dto.Role), Content: dto.Content}
	}
	if _, err := chat.NewTranscriptFromTurns(turns); err != nil {
		return Export{}, fmt.Errorf("turns: %w", err)
	}
	return Export{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		Config: chat.GenerationConfig{
			Provider:    env.Config.Provider,
			Model:       env.Config.Model,
			MaxTokens:   env.Config.MaxTokens,
			Temperature: env.Config.Temperature,
			Streaming:   env.Config.Streaming,
		},
		Turns: turns,
	}, nil
}

// Save writes an Export to a JSON file, creating parent directories as
// needed. The file is replaced atomically.
func Save(path string, e Export) error {
	data, err := MarshalTranscript(e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads an Export from a JSON file.
func Load(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Export{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}
