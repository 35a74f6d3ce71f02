package usecase

import (
	"context"
	"errors"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/auth/service"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// sessionUseCase implements password login against user documents.
type sessionUseCase struct {
	users    UserReader
	password service.PasswordService
}

// NewSessionUseCase creates a new session use case.
func NewSessionUseCase(users UserReader, password service.PasswordService) SessionUseCase {
	return &sessionUseCase{users: users, password: password}
}

// Login verifies a user's password against the hash stored on the user
// document. An unknown user and a wrong password are indistinguishable to
// the caller.
func (u *sessionUseCase) Login(ctx context.Context, user, password string) (*LoginOutput, error) {
	if user == "" || password == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	userDoc, err := u.users.Get(ctx, docDomain.UserDoctype, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	hash, _ := userDoc.Get("password_hash").(string)
	if hash == "" || !u.password.Verify(password, hash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	fullName, _ := userDoc.Get("full_name").(string)
	return &LoginOutput{User: userDoc.Name, FullName: fullName}, nil
}

// Logout ends the session. Authentication is per-request, so there is no
// server-side state to clear.
func (u *sessionUseCase) Logout(_ context.Context) error {
	return nil
}
