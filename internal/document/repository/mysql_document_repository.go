package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// MySQLDocumentRepository implements Document persistence for MySQL.
type MySQLDocumentRepository struct {
	db *sql.DB
}

// NewMySQLDocumentRepository creates a new MySQL Document repository.
func NewMySQLDocumentRepository(db *sql.DB) *MySQLDocumentRepository {
	return &MySQLDocumentRepository{db: db}
}

// Get retrieves a document by doctype and name.
func (m *MySQLDocumentRepository) Get(
	ctx context.Context,
	doctype, name string,
) (*docDomain.Document, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT doctype, name, parent, parenttype, owner, data, created_at, updated_at
			  FROM documents WHERE doctype = ? AND name = ?`

	return scanDocument(querier.QueryRowContext(ctx, query, doctype, name))
}

// List retrieves documents of a doctype matching the query filters.
func (m *MySQLDocumentRepository) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]*docDomain.Document, error) {
	querier := database.GetTx(ctx, m.db)

	args := []any{doctype}
	where, err := buildWhere("mysql", listQuery.Filters, &args)
	if err != nil {
		return nil, err
	}

	args = append(args, listQuery.LimitPageLength, listQuery.LimitStart)
	query := fmt.Sprintf(
		`SELECT doctype, name, parent, parenttype, owner, data, created_at, updated_at
		 FROM documents WHERE doctype = ?%s ORDER BY %s LIMIT ? OFFSET ?`,
		where, orderClause(listQuery.OrderBy),
	)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// Insert stores a new document. A primary key collision maps to
// ErrDocumentExists.
func (m *MySQLDocumentRepository) Insert(ctx context.Context, doc *docDomain.Document) error {
	querier := database.GetTx(ctx, m.db)

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode document data")
	}

	query := `INSERT INTO documents (doctype, name, parent, parenttype, owner, data, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		doc.Doctype,
		doc.Name,
		doc.Parent,
		doc.ParentType,
		doc.Owner,
		data,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return docDomain.ErrDocumentExists
		}
		return apperrors.Wrap(err, "failed to insert document")
	}
	return nil
}

// Update modifies an existing document. Returns ErrDocumentNotFound when the
// document does not exist.
func (m *MySQLDocumentRepository) Update(ctx context.Context, doc *docDomain.Document) error {
	querier := database.GetTx(ctx, m.db)

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode document data")
	}

	query := `UPDATE documents
			  SET parent = ?,
				  parenttype = ?,
				  owner = ?,
				  data = ?,
				  updated_at = ?
			  WHERE doctype = ? AND name = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		doc.Parent,
		doc.ParentType,
		doc.Owner,
		data,
		doc.UpdatedAt,
		doc.Doctype,
		doc.Name,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update document")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update document")
	}
	if affected == 0 {
		return docDomain.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document. A missing document is a hard error, never a
// silent success.
func (m *MySQLDocumentRepository) Delete(ctx context.Context, doctype, name string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM documents WHERE doctype = ? AND name = ?`

	result, err := querier.ExecContext(ctx, query, doctype, name)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete document")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete document")
	}
	if affected == 0 {
		return docDomain.ErrDocumentNotFound
	}
	return nil
}
