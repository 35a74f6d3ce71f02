// Package repository implements persistence for authentication credentials:
// API keys and OAuth bearer tokens, with PostgreSQL and MySQL backends.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

// GetByKey retrieves the credential record carrying the API key for the
// given source doctype.
func (p *PostgreSQLAPIKeyRepository) GetByKey(
	ctx context.Context,
	doctype, key string,
) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, doctype, record_name, api_key, encrypted_secret, linked_user, created_at
			  FROM api_keys WHERE doctype = $1 AND api_key = $2`

	return scanAPIKey(querier.QueryRowContext(ctx, query, doctype, key))
}

// Create stores a new API key record.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (id, doctype, record_name, api_key, encrypted_secret, linked_user, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.Doctype,
		apiKey.RecordName,
		apiKey.Key,
		apiKey.EncryptedSecret,
		apiKey.LinkedUser,
		apiKey.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// rowScanner abstracts *sql.Row for single-record scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAPIKey(row rowScanner) (*authDomain.APIKey, error) {
	var apiKey authDomain.APIKey
	var linkedUser sql.NullString

	err := row.Scan(
		&apiKey.ID,
		&apiKey.Doctype,
		&apiKey.RecordName,
		&apiKey.Key,
		&apiKey.EncryptedSecret,
		&linkedUser,
		&apiKey.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	apiKey.LinkedUser = linkedUser.String
	return &apiKey, nil
}
