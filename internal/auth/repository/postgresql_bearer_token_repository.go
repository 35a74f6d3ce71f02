package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// PostgreSQLBearerTokenRepository implements BearerToken persistence for
// PostgreSQL.
type PostgreSQLBearerTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLBearerTokenRepository creates a new PostgreSQL BearerToken
// repository.
func NewPostgreSQLBearerTokenRepository(db *sql.DB) *PostgreSQLBearerTokenRepository {
	return &PostgreSQLBearerTokenRepository{db: db}
}

// GetByToken retrieves a bearer token record by its token value.
func (p *PostgreSQLBearerTokenRepository) GetByToken(
	ctx context.Context,
	token string,
) (*authDomain.BearerToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT token, user_name, scopes, status, expires_at, created_at
			  FROM oauth_bearer_tokens WHERE token = $1`

	return scanBearerToken(querier.QueryRowContext(ctx, query, token))
}

// Create stores a new bearer token record.
func (p *PostgreSQLBearerTokenRepository) Create(ctx context.Context, token *authDomain.BearerToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO oauth_bearer_tokens (token, user_name, scopes, status, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.Token,
		token.User,
		token.Scopes,
		token.Status,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create bearer token")
	}
	return nil
}

// DeleteExpired removes tokens that expired before the cutoff and returns
// how many were deleted.
func (p *PostgreSQLBearerTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM oauth_bearer_tokens WHERE expires_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired bearer tokens")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired bearer tokens")
	}
	return deleted, nil
}

func scanBearerToken(row rowScanner) (*authDomain.BearerToken, error) {
	var token authDomain.BearerToken

	err := row.Scan(
		&token.Token,
		&token.User,
		&token.Scopes,
		&token.Status,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrBearerTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get bearer token")
	}
	return &token, nil
}
