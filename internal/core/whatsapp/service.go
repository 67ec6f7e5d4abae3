// internal/core/whatsapp/service.go
package whatsapp

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Service builds per-tenant Cloud API senders that share one HTTP client.
type Service struct {
	cfg    ProviderConfig
	client *http.Client
}

func NewService(cfg ProviderConfig) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}

	log.Info().Str("api_version", cfg.APIVersion).Msg("✅ Using WhatsApp provider: Cloud API")
	return &Service{
		cfg:    cfg,
		client: cfg.httpClient(),
	}
}

// ForTenant returns a sender bound to the tenant's phone number id and token.
func (s *Service) ForTenant(creds Credentials) (Sender, error) {
	if !creds.Valid() {
		return nil, ErrMissingCredentials
	}
	return NewCloudAPIProvider(CloudAPIConfig{
		BaseURL:     s.cfg.BaseURL,
		APIVersion:  s.cfg.APIVersion,
		PhoneID:     creds.PhoneNumberID,
		AccessToken: creds.AccessToken,
	}, s.client)
}
