// Package mocks provides mock implementations for testing auth use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// MockAPIKeyRepository is a mock implementation of APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

// GetByKey mocks the GetByKey method of APIKeyRepository.
func (m *MockAPIKeyRepository) GetByKey(ctx context.Context, doctype, key string) (*authDomain.APIKey, error) {
	args := m.Called(ctx, doctype, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIKey), args.Error(1)
}

// Create mocks the Create method of APIKeyRepository.
func (m *MockAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

// MockBearerTokenRepository is a mock implementation of BearerTokenRepository.
type MockBearerTokenRepository struct {
	mock.Mock
}

// GetByToken mocks the GetByToken method of BearerTokenRepository.
func (m *MockBearerTokenRepository) GetByToken(ctx context.Context, token string) (*authDomain.BearerToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.BearerToken), args.Error(1)
}

// Create mocks the Create method of BearerTokenRepository.
func (m *MockBearerTokenRepository) Create(ctx context.Context, token *authDomain.BearerToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of BearerTokenRepository.
func (m *MockBearerTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSecretCipher is a mock implementation of service.SecretCipher.
type MockSecretCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of SecretCipher.
func (m *MockSecretCipher) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method of SecretCipher.
func (m *MockSecretCipher) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method of SecretCipher.
func (m *MockSecretCipher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCredentialService is a mock implementation of service.CredentialService.
type MockCredentialService struct {
	mock.Mock
}

// GeneratePair mocks the GeneratePair method of CredentialService.
func (m *MockCredentialService) GeneratePair() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// MockPasswordService is a mock implementation of service.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

// Hash mocks the Hash method of PasswordService.
func (m *MockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Verify mocks the Verify method of PasswordService.
func (m *MockPasswordService) Verify(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

// MockUserReader is a mock implementation of UserReader.
type MockUserReader struct {
	mock.Mock
}

// Get mocks the Get method of UserReader.
func (m *MockUserReader) Get(ctx context.Context, doctype, name string) (*docDomain.Document, error) {
	args := m.Called(ctx, doctype, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Document), args.Error(1)
}
