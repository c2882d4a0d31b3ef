package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/chat"
	chatjson "github.com/fwojciec/chat/json"
	"github.com/fwojciec/chat/textlog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func noEnv(string) string { return "" }

// runCmd executes the root command with the given stdin and arguments.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(streams{
		in:     strings.NewReader(stdin),
		out:    &out,
		width:  80,
		getenv: noEnv,
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// openAIServer replies to every chat completion with reply, streamed or not
// depending on the request.
func openAIServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		if strings.Contains(body.String(), `"stream":true`) {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, word := range strings.SplitAfter(reply, " ") {
				fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", word)
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunChat(t *testing.T) {
	t.Parallel()

	t.Run("non-streamed conversation is saved", func(t *testing.T) {
		t.Parallel()
		srv := openAIServer(t, "42")
		dir := t.TempDir()

		out, err := runCmd(t, "What is 6*7?\nexit\n",
			"--api-key", "sk-test", "--base-url", srv.URL+"/v1",
			"--log-dir", dir, "--stream=false", "--color=false")
		require.NoError(t, err)

		assert.Contains(t, out, "- Streaming Enabled: False\n")
		assert.Contains(t, out, "[User]\n")
		assert.Contains(t, out, "\n[AI]\n42\n\n")
		path := filepath.Join(dir, "chat_log_0.txt")
		assert.Contains(t, out, "Conversation history saved to \""+path+"\".")

		h, turns, err := textlog.Load(path)
		require.NoError(t, err)
		assert.False(t, h.Streaming)
		assert.Equal(t, []chat.Turn{
			{Role: chat.RoleSystem, Content: chat.DefaultSystemPrompt},
			{Role: chat.RoleUser, Content: "What is 6*7?"},
			{Role: chat.RoleAssistant, Content: "42"},
		}, turns)
	})

	t.Run("streamed reply is recorded whole", func(t *testing.T) {
		t.Parallel()
		srv := openAIServer(t, "The answer is 42")
		dir := t.TempDir()

		out, err := runCmd(t, "question\n",
			"--api-key", "sk-test", "--base-url", srv.URL+"/v1", "--log-dir", dir)
		require.NoError(t, err)

		assert.Contains(t, out, "\n[AI]\nThe answer is 42\n\n")
		_, turns, err := textlog.Load(filepath.Join(dir, "chat_log_0.txt"))
		require.NoError(t, err)
		require.Len(t, turns, 3)
		assert.Equal(t, "The answer is 42", turns[2].Content)
	})

	t.Run("exit first saves system turn only", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		_, err := runCmd(t, "EXIT\n", "--api-key", "sk-test", "--log-dir", dir, "--system-prompt", "be brief")
		require.NoError(t, err)

		_, turns, err := textlog.Load(filepath.Join(dir, "chat_log_0.txt"))
		require.NoError(t, err)
		assert.Equal(t, []chat.Turn{{Role: chat.RoleSystem, Content: "be brief"}}, turns)
	})

	t.Run("provider failure is recorded as assistant turn", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
		}))
		t.Cleanup(srv.Close)
		dir := t.TempDir()

		_, err := runCmd(t, "hi\nexit\n",
			"--api-key", "sk-bad", "--base-url", srv.URL+"/v1", "--log-dir", dir, "--stream=false")
		require.NoError(t, err)

		_, turns, err := textlog.Load(filepath.Join(dir, "chat_log_0.txt"))
		require.NoError(t, err)
		require.Len(t, turns, 3)
		assert.True(t, strings.HasPrefix(turns[2].Content, chat.ErrorMarker))
		assert.Contains(t, turns[2].Content, "Incorrect API key provided")
	})

	t.Run("json export and resume", func(t *testing.T) {
		t.Parallel()
		srv := openAIServer(t, "42")
		dir := t.TempDir()

		_, err := runCmd(t, "first\n",
			"--api-key", "sk-test", "--base-url", srv.URL+"/v1", "--log-dir", dir, "--json")
		require.NoError(t, err)

		exportPath := filepath.Join(dir, "chat_log_0.json")
		e, err := chatjson.Load(exportPath)
		require.NoError(t, err)
		assert.Len(t, e.Turns, 3)

		_, err = runCmd(t, "second\n",
			"--api-key", "sk-test", "--base-url", srv.URL+"/v1", "--log-dir", dir, "--resume", exportPath)
		require.NoError(t, err)

		_, turns, err := textlog.Load(filepath.Join(dir, "chat_log_1.txt"))
		require.NoError(t, err)
		require.Len(t, turns, 5)
		assert.Equal(t, "first", turns[1].Content)
		assert.Equal(t, "second", turns[3].Content)
	})

	t.Run("missing credential fails before any log", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "logs")

		_, err := runCmd(t, "hi\n", "--log-dir", dir)
		require.ErrorIs(t, err, chat.ErrMissingCredential)
		assert.EqualError(t, err, "missing credential: OPENAI_API_KEY not set")

		_, statErr := os.Stat(dir)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("invalid temperature", func(t *testing.T) {
		t.Parallel()
		_, err := runCmd(t, "", "--api-key", "k", "--temperature", "3", "--log-dir", t.TempDir())
		assert.ErrorIs(t, err, chat.ErrValidation)
	})
}

func TestLogsCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists saved logs", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		w := textlog.Writer{Dir: dir}
		tr := chat.NewTranscript("sys")
		_, err := w.Save(tr, chat.DefaultGenerationConfig())
		require.NoError(t, err)
		tr.AppendUser("hi")
		tr.AppendAssistant("hello")
		_, err = w.Save(tr, chat.DefaultGenerationConfig())
		require.NoError(t, err)

		out, err := runCmd(t, "", "logs", "--log-dir", dir)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "chat_log_0.txt")
		assert.Contains(t, lines[0], "1 turns")
		assert.Contains(t, lines[1], "chat_log_1.txt")
		assert.Contains(t, lines[1], "3 turns")
	})

	t.Run("empty dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		out, err := runCmd(t, "", "logs", "--log-dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "No saved conversations")
	})
}

func TestShowCmd(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tr := chat.NewTranscript("sys")
	tr.AppendUser("hi")
	tr.AppendAssistant("hello")
	path, err := textlog.Writer{Dir: dir}.Save(tr, chat.DefaultGenerationConfig())
	require.NoError(t, err)

	out, err := runCmd(t, "", "show", "--log-dir", dir, filepath.Base(path))
	require.NoError(t, err)
	assert.Equal(t, "[System]\nsys\n\n[User]\nhi\n\n[AI]\nhello\n\n", out)

	_, err = runCmd(t, "", "show", "--log-dir", dir, "chat_log_9.txt")
	assert.ErrorContains(t, err, "not found")
}

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	t.Run("env key per provider", func(t *testing.T) {
		t.Parallel()
		vars := map[string]string{"OPENAI_API_KEY": "o", "ANTHROPIC_API_KEY": "a", "GEMINI_API_KEY": "g"}
		for provider, want := range map[string]string{"openai": "o", "anthropic": "a", "gemini": "g"} {
			pc, err := resolveConfig(provider, "", "", env(vars))
			require.NoError(t, err)
			assert.Equal(t, want, pc.key)
		}
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Parallel()
		pc, err := resolveConfig("openai", "sk-flag", "", env(map[string]string{"OPENAI_API_KEY": "sk-env"}))
		require.NoError(t, err)
		assert.Equal(t, "sk-flag", pc.key)
	})

	t.Run("missing key names variable", func(t *testing.T) {
		t.Parallel()
		_, err := resolveConfig("anthropic", "", "", noEnv)
		require.ErrorIs(t, err, chat.ErrMissingCredential)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY not set")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := resolveConfig("mistral", "k", "", noEnv)
		assert.ErrorContains(t, err, "unknown provider")
	})
}

func TestResolveProvider(t *testing.T) {
	t.Parallel()
	for _, name := range []string{chat.ProviderOpenAI, chat.ProviderAnthropic, chat.ProviderGemini} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p, err := resolveProvider(context.Background(), providerConfig{name: name, key: "k"}, zap.NewNop())
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestGenerationConfig(t *testing.T) {
	t.Parallel()

	newViper := func(overrides map[string]any) *viper.Viper {
		v := viper.New()
		setDefaults(v)
		for k, val := range overrides {
			v.Set(k, val)
		}
		return v
	}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := generationConfig(newViper(nil))
		require.NoError(t, err)
		assert.Equal(t, chat.DefaultGenerationConfig(), cfg)
	})

	t.Run("provider default model", func(t *testing.T) {
		t.Parallel()
		cfg, err := generationConfig(newViper(map[string]any{keyProvider: "Anthropic"}))
		require.NoError(t, err)
		assert.Equal(t, chat.ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
	})

	t.Run("explicit model", func(t *testing.T) {
		t.Parallel()
		cfg, err := generationConfig(newViper(map[string]any{keyModel: "gpt-4o-mini", keyStream: false}))
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.False(t, cfg.Streaming)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := generationConfig(newViper(map[string]any{keyProvider: "mistral"}))
		assert.ErrorIs(t, err, chat.ErrValidation)
	})
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o-mini\nmax_tokens: 256\nlog:\n  dir: custom\n"), 0o644))

	v := viper.New()
	setDefaults(v)
	require.NoError(t, loadConfig(v, path))

	cfg, err := generationConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.Equal(t, "custom", v.GetString(keyLogDir))
}
