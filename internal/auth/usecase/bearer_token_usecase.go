package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
)

// bearerTokenUseCase implements the BearerTokenUseCase interface.
type bearerTokenUseCase struct {
	tokenRepo BearerTokenRepository
}

// NewBearerTokenUseCase creates a new bearer token use case.
func NewBearerTokenUseCase(tokenRepo BearerTokenRepository) BearerTokenUseCase {
	return &bearerTokenUseCase{tokenRepo: tokenRepo}
}

// Resolve returns the stored token record for an access token value. The
// caller decides how to treat inactive tokens; the record is returned as
// stored so scope and status checks stay in one place.
func (u *bearerTokenUseCase) Resolve(ctx context.Context, token string) (*authDomain.BearerToken, error) {
	return u.tokenRepo.GetByToken(ctx, token)
}

// CleanExpired removes tokens whose expiry has passed.
func (u *bearerTokenUseCase) CleanExpired(ctx context.Context) (int64, error) {
	return u.tokenRepo.DeleteExpired(ctx, time.Now().UTC())
}
