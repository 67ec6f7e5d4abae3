// internal/core/whatsapp/qr.go
package whatsapp

import (
	"fmt"
	"strings"
	"unicode"

	qrcode "github.com/skip2/go-qrcode"
)

// ChatLink returns the wa.me click-to-chat link for a phone number.
func ChatLink(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", fmt.Errorf("phone number has no digits: %q", phone)
	}
	return "https://wa.me/" + digits, nil
}

// GenerateChatQR renders the click-to-chat link as a PNG QR code.
func GenerateChatQR(phone string, size int) ([]byte, error) {
	link, err := ChatLink(phone)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	return png, nil
}
