package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// MySQLDoctypeRepository implements Doctype metadata persistence for MySQL.
type MySQLDoctypeRepository struct {
	db *sql.DB
}

// NewMySQLDoctypeRepository creates a new MySQL Doctype repository.
func NewMySQLDoctypeRepository(db *sql.DB) *MySQLDoctypeRepository {
	return &MySQLDoctypeRepository{db: db}
}

// Get retrieves doctype metadata by name. Returns ErrDoctypeNotFound if not registered.
func (m *MySQLDoctypeRepository) Get(ctx context.Context, name string) (*docDomain.Doctype, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT name, module, is_child, permissions, whitelisted_methods
			  FROM doctypes WHERE name = ?`

	return scanDoctype(querier.QueryRowContext(ctx, query, name))
}

// Create registers a new doctype.
func (m *MySQLDoctypeRepository) Create(ctx context.Context, doctype *docDomain.Doctype) error {
	querier := database.GetTx(ctx, m.db)

	permissions, err := json.Marshal(doctype.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode doctype permissions")
	}
	methods, err := json.Marshal(doctype.WhitelistedMethods)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode whitelisted methods")
	}

	query := `INSERT INTO doctypes (name, module, is_child, permissions, whitelisted_methods)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, doctype.Name, doctype.Module, doctype.IsChild, permissions, methods)
	if err != nil {
		return apperrors.Wrap(err, "failed to create doctype")
	}
	return nil
}
