package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

// SignatureHeader carries the HMAC Meta computes over the raw POST body.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// VerifyToken checks the GET handshake verify token in constant time.
func VerifyToken(got, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(configured)) == 1
}

// VerifySignature authenticates a webhook POST. The signature header holds
// "sha256=<hex>" over the raw body keyed with the app secret. A missing or
// malformed header is a malformed request; a mismatched MAC is unauthorized.
// The check runs before any payload parsing.
func VerifySignature(appSecret string, body []byte, signature string) error {
	if appSecret == "" {
		return fmt.Errorf("whatsapp: app secret not configured: %w", messaging.ErrUnauthorized)
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("whatsapp: missing %s header: %w", SignatureHeader, messaging.ErrMalformedRequest)
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return fmt.Errorf("whatsapp: malformed signature header: %w", messaging.ErrMalformedRequest)
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	got := strings.ToLower(signature[len(signaturePrefix):])
	if !hmac.Equal([]byte(expected), []byte(got)) {
		return fmt.Errorf("whatsapp: signature mismatch: %w", messaging.ErrUnauthorized)
	}
	return nil
}
