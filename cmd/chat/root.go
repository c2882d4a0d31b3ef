package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"github.com/fwojciec/chat/console"
	chatjson "github.com/fwojciec/chat/json"
	"github.com/fwojciec/chat/textlog"
	chatzap "github.com/fwojciec/chat/zap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRootCmd(s streams) *cobra.Command {
	v := viper.New()
	setDefaults(v)
	var configPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a large language model from the terminal",
		Long: `Chat with a large language model from the terminal.

Each line you enter is sent with the whole conversation so far. Type "exit"
to end the session; the conversation is then saved to the log directory.

Settings come from flags, then CHAT_* environment variables, then the
optional --config YAML file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, configPath)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), v, s)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML config file")
	pf.String("log-dir", "", "Directory for conversation logs (default chat_log)")
	pf.String("log-level", "", "Diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "", "Diagnostic log format: console, json")

	f := cmd.Flags()
	f.String("provider", "", "Provider: openai, anthropic, gemini (default openai)")
	f.String("model", "", "Model ID (default: provider default)")
	f.Int("max-tokens", 0, "Maximum tokens per reply (default 1024)")
	f.Float64("temperature", 0, "Sampling temperature (default 0.7)")
	f.Bool("stream", true, "Stream replies as they are generated")
	f.String("system-prompt", "", "System prompt for new conversations")
	f.String("api-key", "", "API key (overrides the provider's environment variable)")
	f.String("base-url", "", "Override the provider API endpoint")
	f.String("resume", "", "Resume a conversation from a JSON export")
	f.Bool("json", false, "Also save the conversation as JSON")
	f.Bool("markdown", false, "Render non-streamed replies as markdown")
	f.Bool("color", true, "Color console output")

	err := errors.Join(
		bindFlags(v, pf, map[string]string{
			"log-dir":    keyLogDir,
			"log-level":  keyLogLevel,
			"log-format": keyLogFormat,
		}),
		bindFlags(v, f, map[string]string{
			"provider":      keyProvider,
			"model":         keyModel,
			"max-tokens":    keyMaxTokens,
			"temperature":   keyTemperature,
			"stream":        keyStream,
			"system-prompt": keySystemPrompt,
			"api-key":       keyAPIKey,
			"base-url":      keyBaseURL,
			"resume":        keyResume,
			"json":          keyLogJSON,
			"markdown":      keyMarkdown,
			"color":         keyColor,
		}),
	)
	if err != nil {
		panic(err)
	}

	cmd.AddCommand(newLogsCmd(v, s), newShowCmd(v, s))
	return cmd
}

// runChat runs one interactive session and saves its log. The log is saved
// even when reading input fails.
func runChat(ctx context.Context, v *viper.Viper, s streams) error {
	logger, err := chatzap.NewLogger(v)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := generationConfig(v)
	if err != nil {
		return err
	}
	pc, err := resolveConfig(cfg.Provider, v.GetString(keyAPIKey), v.GetString(keyBaseURL), s.getenv)
	if err != nil {
		return err
	}
	provider, err := resolveProvider(ctx, pc, logger)
	if err != nil {
		return err
	}
	transcript, err := initialTranscript(v)
	if err != nil {
		return err
	}

	con := newConsole(v, s)
	con.Banner(cfg)
	logger.Info("session started",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("max_tokens", cfg.MaxTokens),
		zap.Float64("temperature", cfg.Temperature),
		zap.Bool("streaming", cfg.Streaming),
		zap.Int("turns", transcript.Len()),
	)

	loop := chat.NewLoop(chat.NewClient(provider, logger), con, cfg)
	runErr := loop.Run(ctx, transcript)

	path, err := textlog.Writer{Dir: v.GetString(keyLogDir)}.Save(transcript, cfg)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("save log: %w", err))
	}
	con.Saved(path)
	logger.Info("log saved", zap.String("path", path), zap.Int("turns", transcript.Len()))

	if v.GetBool(keyLogJSON) {
		jsonPath := strings.TrimSuffix(path, ".txt") + ".json"
		if err := chatjson.Save(jsonPath, chatjson.NewExport(transcript, cfg)); err != nil {
			return errors.Join(runErr, fmt.Errorf("save json export: %w", err))
		}
		logger.Info("json export saved", zap.String("path", jsonPath))
	}
	return runErr
}

// initialTranscript starts a new conversation or resumes an exported one.
func initialTranscript(v *viper.Viper) (*chat.Transcript, error) {
	path := v.GetString(keyResume)
	if path == "" {
		return chat.NewTranscript(v.GetString(keySystemPrompt)), nil
	}
	e, err := chatjson.Load(path)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	t, err := e.Transcript()
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	return t, nil
}

func newConsole(v *viper.Viper, s streams) *console.Console {
	theme := chat.DefaultTheme()
	if !v.GetBool(keyColor) {
		theme = chat.PlainTheme()
	}
	opts := []console.Option{console.WithTheme(theme)}
	if s.interactive {
		opts = append(opts, console.WithLineReader(bt.NewPrompt(s.in, s.out, theme)))
	}
	if v.GetBool(keyMarkdown) {
		opts = append(opts, console.WithMarkdown(s.width))
	}
	return console.New(s.in, s.out, opts...)
}
