// Package mocks provides mock implementations for testing the
// authentication chain.
package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	authHTTP "github.com/allisson/docrest/internal/auth/http"
	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
)

// MockBearerTokenUseCase is a mock implementation of BearerTokenUseCase.
type MockBearerTokenUseCase struct {
	mock.Mock
}

// Resolve mocks the Resolve method of BearerTokenUseCase.
func (m *MockBearerTokenUseCase) Resolve(ctx context.Context, token string) (*authDomain.BearerToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.BearerToken), args.Error(1)
}

// CleanExpired mocks the CleanExpired method of BearerTokenUseCase.
func (m *MockBearerTokenUseCase) CleanExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAPIKeyUseCase is a mock implementation of APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// ResolveCredentials mocks the ResolveCredentials method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) ResolveCredentials(
	ctx context.Context,
	doctype, key string,
) (*authDomain.CredentialCacheEntry, error) {
	args := m.Called(ctx, doctype, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CredentialCacheEntry), args.Error(1)
}

// Create mocks the Create method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Create(
	ctx context.Context,
	input authUseCase.CreateAPIKeyInput,
) (*authUseCase.CreateAPIKeyOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authUseCase.CreateAPIKeyOutput), args.Error(1)
}

// MockOAuthVerifier is a mock implementation of OAuthVerifier.
type MockOAuthVerifier struct {
	mock.Mock
}

// Verify mocks the Verify method of OAuthVerifier.
func (m *MockOAuthVerifier) Verify(ctx context.Context, req authHTTP.VerifyRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

// MockAuthExtension is a mock implementation of AuthExtension.
type MockAuthExtension struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of AuthExtension.
func (m *MockAuthExtension) Authenticate(
	ctx context.Context,
	r *http.Request,
) (authDomain.Identity, bool, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(authDomain.Identity), args.Bool(1), args.Error(2)
}
