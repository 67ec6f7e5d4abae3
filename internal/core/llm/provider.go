package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Roles of a chat turn
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the completion carries no usable text.
var ErrEmptyResponse = errors.New("llm returned no content")

// Message is a single chat turn.
type Message struct {
	Role    string
	Content string
}

// LLMProvider is one chat-completions backend.
type LLMProvider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	GetProviderName() string
}

type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Type ProviderType

	// API Keys
	OpenAIKey   string
	GroqKey     string
	DeepSeekKey string

	// BaseURL overrides the provider's default chat-completions endpoint
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewProvider builds the provider named by cfg.Type. All supported providers speak
// the OpenAI chat-completions protocol and differ only in endpoint and key.
func NewProvider(cfg *ProviderConfig) (LLMProvider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider("OpenAI", cfg.OpenAIKey, orDefault(cfg.BaseURL, ""), orDefault(cfg.Model, "gpt-4o-mini"), cfg.MaxTokens, cfg.Timeout), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewOpenAIProvider("Groq", cfg.GroqKey, orDefault(cfg.BaseURL, "https://api.groq.com/openai/v1"), orDefault(cfg.Model, "llama-3.1-8b-instant"), cfg.MaxTokens, cfg.Timeout), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return NewOpenAIProvider("DeepSeek", cfg.DeepSeekKey, orDefault(cfg.BaseURL, "https://api.deepseek.com"), orDefault(cfg.Model, "deepseek-chat"), cfg.MaxTokens, cfg.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
