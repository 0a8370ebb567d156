// Package llm wraps the generative-text collaborator behind a small client
// interface. Failures surface as DownstreamError and propagate as whole-turn
// failures; there is no retry or backoff here.
package llm

import (
	"context"
	"fmt"

	"booknerd/internal/config"
)

// Client defines the interface for generative-text providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DownstreamError wraps a failed collaborator call.
type DownstreamError struct {
	Provider string
	Err      error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// NewClient builds a client for the configured provider.
func NewClient(cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not configured (set BOOKNERD_API_KEY)")
	}

	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiClient(cfg.APIKey, cfg.Model)
	case "openai":
		timeout, err := (&config.Config{LLM: cfg}).LLMTimeout()
		if err != nil {
			return nil, err
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
