// Package service provides authentication-related services: API credential
// generation, secret encryption at rest, password hashing and OAuth signing
// key derivation.
package service

import (
	"context"
)

// SecretCipher encrypts API secrets for storage and decrypts them during
// credential resolution.
type SecretCipher interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// CredentialService generates API key/secret pairs.
type CredentialService interface {
	// GeneratePair returns a new key identifier and its secret. The secret
	// is only available in plaintext at generation time.
	GeneratePair() (apiKey string, apiSecret string, err error)
}

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
