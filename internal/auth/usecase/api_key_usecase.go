package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/auth/service"
	"github.com/allisson/docrest/internal/cache"
	customValidation "github.com/allisson/docrest/internal/validation"
)

// apiKeyUseCase implements the APIKeyUseCase interface.
type apiKeyUseCase struct {
	apiKeyRepo  APIKeyRepository
	cipher      service.SecretCipher
	credentials service.CredentialService
	cache       cache.Cache
	cacheTTL    time.Duration
	group       singleflight.Group
}

// NewAPIKeyUseCase creates a new API key use case.
func NewAPIKeyUseCase(
	apiKeyRepo APIKeyRepository,
	cipher service.SecretCipher,
	credentials service.CredentialService,
	credentialCache cache.Cache,
	cacheTTL time.Duration,
) APIKeyUseCase {
	return &apiKeyUseCase{
		apiKeyRepo:  apiKeyRepo,
		cipher:      cipher,
		credentials: credentials,
		cache:       credentialCache,
		cacheTTL:    cacheTTL,
	}
}

// ResolveCredentials returns the session user and decrypted secret for an
// API key. A cache hit answers without touching the store or the keeper;
// on a miss, concurrent callers for the same key share a single lookup.
func (u *apiKeyUseCase) ResolveCredentials(
	ctx context.Context,
	doctype, key string,
) (*authDomain.CredentialCacheEntry, error) {
	cacheKey := credentialCacheKey(doctype, key)

	if raw, found, err := u.cache.Get(ctx, cacheKey); err == nil && found {
		var entry authDomain.CredentialCacheEntry
		if json.Unmarshal(raw, &entry) == nil {
			return &entry, nil
		}
	}

	value, err, _ := u.group.Do(cacheKey, func() (any, error) {
		apiKey, err := u.apiKeyRepo.GetByKey(ctx, doctype, key)
		if err != nil {
			return nil, err
		}

		secret, err := u.cipher.Decrypt(ctx, apiKey.EncryptedSecret)
		if err != nil {
			return nil, err
		}

		entry := &authDomain.CredentialCacheEntry{
			User:   apiKey.ResolvedUser(),
			Secret: string(secret),
		}

		if raw, err := json.Marshal(entry); err == nil {
			// Cache failures are not fatal; the next request decrypts again.
			_ = u.cache.Set(ctx, cacheKey, raw, u.cacheTTL)
		}
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*authDomain.CredentialCacheEntry), nil
}

// Create provisions a new API key. The generated secret is returned in
// plaintext exactly once and persisted only in encrypted form.
func (u *apiKeyUseCase) Create(ctx context.Context, input CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	doctype := input.Doctype
	if doctype == "" {
		doctype = "User"
	}

	key, secret, err := u.credentials.GeneratePair()
	if err != nil {
		return nil, err
	}

	encrypted, err := u.cipher.Encrypt(ctx, []byte(secret))
	if err != nil {
		return nil, err
	}

	apiKey := &authDomain.APIKey{
		ID:              uuid.Must(uuid.NewV7()),
		Doctype:         doctype,
		RecordName:      input.RecordName,
		Key:             key,
		EncryptedSecret: encrypted,
		LinkedUser:      input.LinkedUser,
		CreatedAt:       time.Now().UTC(),
	}
	if err := u.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return &CreateAPIKeyOutput{Key: key, Secret: secret}, nil
}

func credentialCacheKey(doctype, key string) string {
	return "credentials:" + doctype + ":" + key
}
