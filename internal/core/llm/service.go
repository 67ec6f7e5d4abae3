package llm

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service is the configured chat-completions backend.
type Service struct {
	provider LLMProvider
}

// NewService creates LLM service with the configured provider
func NewService(cfg *ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("provider", provider.GetProviderName()).Str("model", cfg.Model).Msg("🤖 Using LLM provider")

	return &Service{provider: provider}, nil
}

// NewServiceWithProvider wraps an existing provider.
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

// Complete runs one chat completion over the given turns.
func (s *Service) Complete(ctx context.Context, messages []Message) (string, error) {
	return s.provider.Complete(ctx, messages)
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
