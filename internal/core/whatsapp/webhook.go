// internal/core/whatsapp/webhook.go
package whatsapp

// WebhookPayload is the notification body the Cloud API posts to the webhook.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         WebhookMetadata   `json:"metadata"`
	Contacts         []WebhookContact  `json:"contacts"`
	Messages         []CloudAPIMessage `json:"messages"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WaID    string         `json:"wa_id"`
	Profile WebhookProfile `json:"profile"`
}

type WebhookProfile struct {
	Name string `json:"name"`
}

// CloudAPIMessage represents incoming message from webhook
type CloudAPIMessage struct {
	From      string               `json:"from"`
	ID        string               `json:"id"`
	Timestamp string               `json:"timestamp"`
	Type      string               `json:"type"` // text, image, document, etc.
	Text      *CloudAPITextMessage `json:"text,omitempty"`
}

type CloudAPITextMessage struct {
	Body string `json:"body"`
}

// InboundMessage is the first message of a notification, flattened.
type InboundMessage struct {
	PhoneNumberID string
	From          string
	ExternalID    string
	Type          string
	Text          string
	ProfileName   string
}

// FirstMessage extracts the first message of the first entry/change. The
// second return is false when the payload carries no message (status
// callbacks, empty bodies).
func (p *WebhookPayload) FirstMessage() (*InboundMessage, bool) {
	if p == nil || len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, false
	}

	msg := value.Messages[0]
	if msg.From == "" {
		return nil, false
	}

	in := &InboundMessage{
		PhoneNumberID: value.Metadata.PhoneNumberID,
		From:          msg.From,
		ExternalID:    msg.ID,
		Type:          msg.Type,
	}
	if in.Type == "" {
		in.Type = "text"
	}
	if msg.Text != nil {
		in.Text = msg.Text.Body
	}
	if len(value.Contacts) > 0 {
		in.ProfileName = value.Contacts[0].Profile.Name
	}
	return in, true
}

// PhoneNumberID returns the metadata phone number id of the first change, if any.
func (p *WebhookPayload) PhoneNumberID() string {
	if p == nil || len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return ""
	}
	return p.Entry[0].Changes[0].Value.Metadata.PhoneNumberID
}
