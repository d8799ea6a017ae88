package service

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// HMACSignatureService implements ports.SignatureService for x-spark-signature,
// which is the hex HMAC-SHA1 of the raw request body keyed by the webhook secret.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA1 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign returns the lowercase hex HMAC-SHA1 of body.
func (s *HMACSignatureService) Sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. Header casing is ignored.
func (s *HMACSignatureService) Verify(secret string, body []byte, signature string) bool {
	expected := s.Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
