// Package usecase implements authentication business logic: API key
// credential resolution with caching, bearer token lookup and password
// login.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	customValidation "github.com/allisson/docrest/internal/validation"
)

// APIKeyRepository defines the interface for API key persistence.
type APIKeyRepository interface {
	GetByKey(ctx context.Context, doctype, key string) (*authDomain.APIKey, error)
	Create(ctx context.Context, apiKey *authDomain.APIKey) error
}

// BearerTokenRepository defines the interface for bearer token persistence.
type BearerTokenRepository interface {
	GetByToken(ctx context.Context, token string) (*authDomain.BearerToken, error)
	Create(ctx context.Context, token *authDomain.BearerToken) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserReader loads user documents for login and role expansion.
type UserReader interface {
	Get(ctx context.Context, doctype, name string) (*docDomain.Document, error)
}

// CreateAPIKeyInput describes a new API key to provision.
type CreateAPIKeyInput struct {
	// Doctype of the record carrying the key. Defaults to User.
	Doctype string

	// RecordName is the record the key belongs to.
	RecordName string

	// LinkedUser is the session user for non-User records.
	LinkedUser string
}

// Validate checks the input. Non-User records must name the user they
// authenticate as.
func (i CreateAPIKeyInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Doctype, customValidation.DoctypeName),
		validation.Field(&i.RecordName, validation.Required),
		validation.Field(&i.LinkedUser,
			validation.Required.When(i.Doctype != "" && i.Doctype != "User").
				Error("linked user is required for non-user records"),
			customValidation.Email,
		),
	)
}

// CreateAPIKeyOutput returns the provisioned credential pair. The secret is
// shown once and stored only in encrypted form.
type CreateAPIKeyOutput struct {
	Key    string
	Secret string
}

// APIKeyUseCase defines the business logic for API key credentials.
type APIKeyUseCase interface {
	// ResolveCredentials returns the session user and decrypted secret for
	// an API key, consulting the credential cache first. Concurrent misses
	// for the same key share one lookup and one decryption.
	ResolveCredentials(ctx context.Context, doctype, key string) (*authDomain.CredentialCacheEntry, error)
	Create(ctx context.Context, input CreateAPIKeyInput) (*CreateAPIKeyOutput, error)
}

// BearerTokenUseCase defines the business logic for OAuth bearer tokens.
type BearerTokenUseCase interface {
	// Resolve returns the stored token record for an access token value.
	// Unknown tokens return ErrBearerTokenNotFound.
	Resolve(ctx context.Context, token string) (*authDomain.BearerToken, error)
	CleanExpired(ctx context.Context) (int64, error)
}

// LoginOutput carries the successful login response.
type LoginOutput struct {
	User     string
	FullName string
}

// SessionUseCase implements the password login and logout methods.
type SessionUseCase interface {
	Login(ctx context.Context, user, password string) (*LoginOutput, error)
	Logout(ctx context.Context) error
}
