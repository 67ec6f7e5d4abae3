// internal/core/whatsapp/cloud_api.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL    = "https://graph.facebook.com"
	defaultAPIVersion = "v18.0"
)

// CloudAPIProvider implements WhatsApp Cloud API (Official Business API)
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api
type CloudAPIProvider struct {
	endpoint    string
	phoneID     string // WhatsApp Business Phone Number ID
	accessToken string // Meta Business Access Token
	client      *http.Client
}

// CloudAPIConfig holds configuration for WhatsApp Cloud API
type CloudAPIConfig struct {
	BaseURL     string
	APIVersion  string
	PhoneID     string
	AccessToken string
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NewCloudAPIProvider creates a new WhatsApp Cloud API provider
func NewCloudAPIProvider(config CloudAPIConfig, client *http.Client) (*CloudAPIProvider, error) {
	if config.PhoneID == "" || config.AccessToken == "" {
		return nil, ErrMissingCredentials
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CloudAPIProvider{
		endpoint:    fmt.Sprintf("%s/%s/%s/messages", strings.TrimRight(config.BaseURL, "/"), config.APIVersion, config.PhoneID),
		phoneID:     config.PhoneID,
		accessToken: config.AccessToken,
		client:      client,
	}, nil
}

// SendText sends a text message via Cloud API
func (p *CloudAPIProvider) SendText(ctx context.Context, to, body string) (string, error) {
	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               cleanPhoneNumber(to),
		Type:             "text",
		Text:             textBody{Body: body},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result sendTextResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var messageID string
	if len(result.Messages) > 0 {
		messageID = result.Messages[0].ID
	}

	log.Debug().Str("phone_id", p.phoneID).Str("message_id", messageID).Msg("✅ Cloud API message sent")
	return messageID, nil
}

// GetProviderName returns the provider name
func (p *CloudAPIProvider) GetProviderName() string {
	return "WhatsApp Cloud API (Official)"
}

// cleanPhoneNumber strips a JID suffix and a leading plus sign.
func cleanPhoneNumber(phone string) string {
	if i := strings.Index(phone, "@"); i >= 0 {
		phone = phone[:i]
	}
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}
