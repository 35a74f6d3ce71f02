package repository

import (
	"context"
	"database/sql"
	"time"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// MySQLBearerTokenRepository implements BearerToken persistence for MySQL.
type MySQLBearerTokenRepository struct {
	db *sql.DB
}

// NewMySQLBearerTokenRepository creates a new MySQL BearerToken repository.
func NewMySQLBearerTokenRepository(db *sql.DB) *MySQLBearerTokenRepository {
	return &MySQLBearerTokenRepository{db: db}
}

// GetByToken retrieves a bearer token record by its token value.
func (m *MySQLBearerTokenRepository) GetByToken(
	ctx context.Context,
	token string,
) (*authDomain.BearerToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token, user_name, scopes, status, expires_at, created_at
			  FROM oauth_bearer_tokens WHERE token = ?`

	return scanBearerToken(querier.QueryRowContext(ctx, query, token))
}

// Create stores a new bearer token record.
func (m *MySQLBearerTokenRepository) Create(ctx context.Context, token *authDomain.BearerToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO oauth_bearer_tokens (token, user_name, scopes, status, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

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
func (m *MySQLBearerTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM oauth_bearer_tokens WHERE expires_at < ?`,
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
