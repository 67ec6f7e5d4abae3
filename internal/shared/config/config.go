package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Env         string `envconfig:"ENV" default:"development"`
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required"`

	LLMProvider  string        `envconfig:"LLM_PROVIDER" default:"openai" validate:"oneof=openai groq deepseek"`
	OpenAIKey    string        `envconfig:"OPENAI_API_KEY"`
	GroqKey      string        `envconfig:"GROQ_API_KEY"`
	DeepSeekKey  string        `envconfig:"DEEPSEEK_API_KEY"`
	LLMModel     string        `envconfig:"LLM_MODEL"`
	LLMBaseURL   string        `envconfig:"LLM_BASE_URL"`
	LLMMaxTokens int           `envconfig:"LLM_MAX_TOKENS" default:"500" validate:"gt=0"`
	LLMTimeout   time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`

	WhatsAppAPIVersion string        `envconfig:"WHATSAPP_API_VERSION" default:"v18.0"`
	WhatsAppAPIBaseURL string        `envconfig:"WHATSAPP_API_BASE_URL" default:"https://graph.facebook.com" validate:"url"`
	WhatsAppTimeout    time.Duration `envconfig:"WHATSAPP_TIMEOUT" default:"30s"`

	DefaultTimezone    string        `envconfig:"DEFAULT_TIMEZONE" default:"America/Sao_Paulo"`
	BirthdayCron       string        `envconfig:"BIRTHDAY_CRON" default:"0 0 9 * * *"`
	SchedulerEnabled   bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	AuditRetentionDays int           `envconfig:"AUDIT_RETENTION_DAYS" default:"90" validate:"gte=1"`
	WebhookTimeout     time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"45s"`

	// JWTSecret signs operator tokens; empty disables operator auth.
	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// Load reads .env (if present) and the process environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// LoadConfig is Load for binaries that cannot start without configuration.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the default tenant timezone, falling back to UTC when the
// zone database does not know the configured name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.DefaultTimezone).Msg("unknown default timezone, using UTC")
		return time.UTC
	}
	return loc
}
