package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a password service with the interactive policy,
// suited for login-time verification latency.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// Hash hashes a plain text password.
func (s *passwordService) Hash(password string) (string, error) {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Verify performs a constant-time comparison of a password against its hash.
func (s *passwordService) Verify(password, hash string) bool {
	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}
