package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// credentialService implements CredentialService with crypto/rand.
type credentialService struct{}

// NewCredentialService creates a new credential generator.
func NewCredentialService() CredentialService {
	return &credentialService{}
}

// GeneratePair creates a new API key identifier and secret. The key is a
// 16-byte random value, the secret a 32-byte one, both base64 URL-encoded.
func (s *credentialService) GeneratePair() (string, string, error) {
	keyBytes := make([]byte, 16)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api secret")
	}

	return base64.RawURLEncoding.EncodeToString(keyBytes),
		base64.RawURLEncoding.EncodeToString(secretBytes),
		nil
}
