package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// DeriveSigningKey derives the 32-byte HMAC key used to verify bearer token
// signatures from the configured signing secret, using HKDF-SHA256. The
// issuer acts as salt so two deployments sharing a secret still verify
// different tokens. Info is versioned for future algorithm changes.
func DeriveSigningKey(secret, issuer string) ([]byte, error) {
	info := []byte("bearer-token-signing-v1")
	reader := hkdf.New(sha256.New, []byte(secret), []byte(issuer), info)

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}
	return key, nil
}
