// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/clinsafe/guardian-cli/internal/adapters/driven/llm/anthropic"
	"github.com/clinsafe/guardian-cli/internal/adapters/driven/llm/ollama"
	"github.com/clinsafe/guardian-cli/internal/adapters/driven/llm/openai"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMService creates an LLM service from settings.
// Returns nil when the settings do not describe a configured provider.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderAnthropic:
		return anthropic.NewLLMService(anthropic.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	case domain.AIProviderOpenAI:
		return openai.NewLLMService(openai.LLMConfig{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	case domain.AIProviderOllama:
		return ollama.NewLLMService(ollama.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'guardian settings set-key' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'guardian settings set-key' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}
