package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

// GetByKey retrieves the credential record carrying the API key for the
// given source doctype.
func (m *MySQLAPIKeyRepository) GetByKey(
	ctx context.Context,
	doctype, key string,
) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, doctype, record_name, api_key, encrypted_secret, linked_user, created_at
			  FROM api_keys WHERE doctype = ? AND api_key = ?`

	return scanAPIKey(querier.QueryRowContext(ctx, query, doctype, key))
}

// Create stores a new API key record.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO api_keys (id, doctype, record_name, api_key, encrypted_secret, linked_user, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return apperrors.Wrap(apperrors.ErrConflict, "api key already exists")
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}
