package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/anthropic"
	"github.com/fwojciec/chat/gemini"
	"github.com/fwojciec/chat/openai"
	"go.uber.org/zap"
)

// credentialEnv names the environment variable holding each provider's key.
var credentialEnv = map[string]string{
	chat.ProviderOpenAI:    "OPENAI_API_KEY",
	chat.ProviderAnthropic: "ANTHROPIC_API_KEY",
	chat.ProviderGemini:    "GEMINI_API_KEY",
}

type providerConfig struct {
	name    string
	key     string
	baseURL string
}

// resolveConfig picks the API key for provider: an explicit key overrides
// the vendor variable. getenv is only called here so tests can fake it.
func resolveConfig(provider, apiKey, baseURL string, getenv func(string) string) (providerConfig, error) {
	envName, ok := credentialEnv[provider]
	if !ok {
		return providerConfig{}, fmt.Errorf("unknown provider %q: must be \"openai\", \"anthropic\" or \"gemini\"", provider)
	}
	key := apiKey
	if key == "" {
		key = getenv(envName)
	}
	if key == "" {
		return providerConfig{}, fmt.Errorf("%w: %s not set", chat.ErrMissingCredential, envName)
	}
	return providerConfig{name: provider, key: key, baseURL: baseURL}, nil
}

// resolveProvider constructs the provider selected by pc.
func resolveProvider(ctx context.Context, pc providerConfig, logger *zap.Logger) (chat.Provider, error) {
	switch pc.name {
	case chat.ProviderOpenAI:
		opts := []openai.Option{openai.WithLogger(logger)}
		if pc.baseURL != "" {
			opts = append(opts, openai.WithBaseURL(pc.baseURL))
		}
		return openai.New(pc.key, opts...), nil
	case chat.ProviderAnthropic:
		var opts []anthropic.Option
		if pc.baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(pc.baseURL))
		}
		return anthropic.New(pc.key, opts...), nil
	case chat.ProviderGemini:
		var opts []gemini.Option
		if pc.baseURL != "" {
			opts = append(opts, gemini.WithBaseURL(pc.baseURL))
		}
		client, err := gemini.New(ctx, pc.key, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", pc.name)
	}
}
