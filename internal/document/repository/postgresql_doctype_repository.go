package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// PostgreSQLDoctypeRepository implements Doctype metadata persistence for PostgreSQL.
type PostgreSQLDoctypeRepository struct {
	db *sql.DB
}

// NewPostgreSQLDoctypeRepository creates a new PostgreSQL Doctype repository.
func NewPostgreSQLDoctypeRepository(db *sql.DB) *PostgreSQLDoctypeRepository {
	return &PostgreSQLDoctypeRepository{db: db}
}

// Get retrieves doctype metadata by name. Returns ErrDoctypeNotFound if not registered.
func (p *PostgreSQLDoctypeRepository) Get(ctx context.Context, name string) (*docDomain.Doctype, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT name, module, is_child, permissions, whitelisted_methods
			  FROM doctypes WHERE name = $1`

	return scanDoctype(querier.QueryRowContext(ctx, query, name))
}

// Create registers a new doctype.
func (p *PostgreSQLDoctypeRepository) Create(ctx context.Context, doctype *docDomain.Doctype) error {
	querier := database.GetTx(ctx, p.db)

	permissions, err := json.Marshal(doctype.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode doctype permissions")
	}
	methods, err := json.Marshal(doctype.WhitelistedMethods)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode whitelisted methods")
	}

	query := `INSERT INTO doctypes (name, module, is_child, permissions, whitelisted_methods)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(ctx, query, doctype.Name, doctype.Module, doctype.IsChild, permissions, methods)
	if err != nil {
		return apperrors.Wrap(err, "failed to create doctype")
	}
	return nil
}

func scanDoctype(row rowScanner) (*docDomain.Doctype, error) {
	var doctype docDomain.Doctype
	var permissions, methods []byte

	err := row.Scan(
		&doctype.Name,
		&doctype.Module,
		&doctype.IsChild,
		&permissions,
		&methods,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docDomain.ErrDoctypeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get doctype")
	}

	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &doctype.Permissions); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode doctype permissions")
		}
	}
	if len(methods) > 0 {
		if err := json.Unmarshal(methods, &doctype.WhitelistedMethods); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode whitelisted methods")
		}
	}
	return &doctype, nil
}
