package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/chat"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	keyProvider     = "provider"
	keyModel        = "model"
	keyMaxTokens    = "max_tokens"
	keyTemperature  = "temperature"
	keyStream       = "stream"
	keySystemPrompt = "system_prompt"
	keyAPIKey       = "api_key"
	keyBaseURL      = "base_url"
	keyResume       = "resume"
	keyLogDir       = "log.dir"
	keyLogJSON      = "log.json"
	keyLogLevel     = "log.level"
	keyLogFormat    = "log.format"
	keyMarkdown     = "display.markdown"
	keyColor        = "display.color"
)

// defaultModels is used when no model is configured.
var defaultModels = map[string]string{
	chat.ProviderOpenAI:    "gpt-4o",
	chat.ProviderAnthropic: "claude-sonnet-4-20250514",
	chat.ProviderGemini:    "gemini-2.5-flash",
}

func setDefaults(v *viper.Viper) {
	d := chat.DefaultGenerationConfig()
	v.SetDefault(keyProvider, d.Provider)
	v.SetDefault(keyMaxTokens, d.MaxTokens)
	v.SetDefault(keyTemperature, d.Temperature)
	v.SetDefault(keyStream, d.Streaming)
	v.SetDefault(keySystemPrompt, chat.DefaultSystemPrompt)
	v.SetDefault(keyLogDir, "chat_log")
	v.SetDefault(keyLogJSON, false)
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogFormat, "console")
	v.SetDefault(keyMarkdown, false)
	v.SetDefault(keyColor, true)
}

// bindFlags binds each flag to its configuration key. A flag only overrides
// the environment and config file when it is set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// loadConfig layers environment variables (CHAT_ prefix, e.g. CHAT_MODEL or
// CHAT_LOG_DIR) and the optional YAML config file under the flags.
func loadConfig(v *viper.Viper, configPath string) error {
	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// generationConfig builds the validated session settings.
func generationConfig(v *viper.Viper) (chat.GenerationConfig, error) {
	cfg := chat.GenerationConfig{
		Provider:    strings.ToLower(v.GetString(keyProvider)),
		Model:       v.GetString(keyModel),
		MaxTokens:   v.GetInt(keyMaxTokens),
		Temperature: v.GetFloat64(keyTemperature),
		Streaming:   v.GetBool(keyStream),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if _, ok := defaultModels[cfg.Provider]; !ok {
		return chat.GenerationConfig{}, fmt.Errorf("unknown provider %q: must be \"openai\", \"anthropic\" or \"gemini\": %w", cfg.Provider, chat.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return chat.GenerationConfig{}, err
	}
	return cfg, nil
}
