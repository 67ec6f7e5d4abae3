// internal/core/whatsapp/provider.go
package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrMissingCredentials is returned when a tenant has no usable Cloud API credentials.
var ErrMissingCredentials = errors.New("whatsapp: missing phone number id or access token")

// Sender delivers outbound text messages for one tenant.
type Sender interface {
	// SendText sends body to the phone number and returns the gateway message id.
	SendText(ctx context.Context, to, body string) (string, error)

	// GetProviderName names the provider in logs.
	GetProviderName() string
}

// Credentials are the per-tenant Cloud API settings stored on the tenant row.
type Credentials struct {
	PhoneNumberID string
	AccessToken   string
}

func (c Credentials) Valid() bool {
	return c.PhoneNumberID != "" && c.AccessToken != ""
}

// SenderFactory builds a Sender for a tenant's credentials.
type SenderFactory interface {
	ForTenant(creds Credentials) (Sender, error)
}

// ProviderConfig holds the process-wide Cloud API settings.
type ProviderConfig struct {
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

func (c *ProviderConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
