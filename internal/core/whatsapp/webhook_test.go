package whatsapp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textNotification = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "551130000000", "phone_number_id": "PNID-1"},
        "contacts": [{"wa_id": "5511999990000", "profile": {"name": "João"}}],
        "messages": [{"from": "5511999990000", "id": "wamid.1", "timestamp": "1700000000", "type": "text", "text": {"body": "Oi, quero cortar o cabelo"}}]
      }
    }]
  }]
}`

func TestWebhookPayload_FirstMessage(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(textNotification), &payload))

	msg, ok := payload.FirstMessage()
	require.True(t, ok)
	assert.Equal(t, "PNID-1", msg.PhoneNumberID)
	assert.Equal(t, "5511999990000", msg.From)
	assert.Equal(t, "wamid.1", msg.ExternalID)
	assert.Equal(t, "text", msg.Type)
	assert.Equal(t, "Oi, quero cortar o cabelo", msg.Text)
	assert.Equal(t, "João", msg.ProfileName)
	assert.Equal(t, "PNID-1", payload.PhoneNumberID())
}

func TestWebhookPayload_NoMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"no changes", `{"entry":[{"id":"x"}]}`},
		{"status callback", `{"entry":[{"changes":[{"value":{"metadata":{"phone_number_id":"P"},"statuses":[{"id":"wamid.1","status":"read"}]}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload WebhookPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &payload))
			msg, ok := payload.FirstMessage()
			assert.False(t, ok)
			assert.Nil(t, msg)
		})
	}

	var nilPayload *WebhookPayload
	_, ok := nilPayload.FirstMessage()
	assert.False(t, ok)
}

func TestWebhookPayload_NonTextMessage(t *testing.T) {
	body := `{"entry":[{"changes":[{"value":{"metadata":{"phone_number_id":"P"},"messages":[{"from":"55","id":"wamid.2","type":"image"}]}}]}]}`
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	msg, ok := payload.FirstMessage()
	require.True(t, ok)
	assert.Equal(t, "image", msg.Type)
	assert.Empty(t, msg.Text)
	assert.Empty(t, msg.ProfileName)
}
