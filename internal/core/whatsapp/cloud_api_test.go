package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudAPIProvider_SendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody sendTextRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	svc := NewService(ProviderConfig{BaseURL: srv.URL, APIVersion: "v18.0", Timeout: time.Second})
	sender, err := svc.ForTenant(Credentials{PhoneNumberID: "12345", AccessToken: "token-1"})
	require.NoError(t, err)

	id, err := sender.SendText(context.Background(), "+5511999990000", "Olá!")
	require.NoError(t, err)

	assert.Equal(t, "wamid.ABC", id)
	assert.Equal(t, "/v18.0/12345/messages", gotPath)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "5511999990000", gotBody.To)
	assert.Equal(t, "text", gotBody.Type)
	assert.Equal(t, "Olá!", gotBody.Text.Body)
}

func TestCloudAPIProvider_SendTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer srv.Close()

	sender, err := NewCloudAPIProvider(CloudAPIConfig{BaseURL: srv.URL, PhoneID: "1", AccessToken: "bad"}, srv.Client())
	require.NoError(t, err)

	_, err = sender.SendText(context.Background(), "5511", "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestService_ForTenantRequiresCredentials(t *testing.T) {
	svc := NewService(ProviderConfig{})

	_, err := svc.ForTenant(Credentials{PhoneNumberID: "123"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.ForTenant(Credentials{AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestCleanPhoneNumber(t *testing.T) {
	tests := map[string]string{
		"5511999990000":      "5511999990000",
		"+5511999990000":     "5511999990000",
		"5511999990000@c.us": "5511999990000",
		" 5511999990000 ":    "5511999990000",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanPhoneNumber(in), in)
	}
}
