package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// PostgreSQLDocumentRepository implements Document persistence for PostgreSQL.
type PostgreSQLDocumentRepository struct {
	db *sql.DB
}

// NewPostgreSQLDocumentRepository creates a new PostgreSQL Document repository.
func NewPostgreSQLDocumentRepository(db *sql.DB) *PostgreSQLDocumentRepository {
	return &PostgreSQLDocumentRepository{db: db}
}

// Get retrieves a document by doctype and name.
func (p *PostgreSQLDocumentRepository) Get(
	ctx context.Context,
	doctype, name string,
) (*docDomain.Document, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT doctype, name, parent, parenttype, owner, data, created_at, updated_at
			  FROM documents WHERE doctype = $1 AND name = $2`

	return scanDocument(querier.QueryRowContext(ctx, query, doctype, name))
}

// List retrieves documents of a doctype matching the query filters, ordered
// and paginated. Field projection happens in the use case layer; the
// repository returns full documents.
func (p *PostgreSQLDocumentRepository) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]*docDomain.Document, error) {
	querier := database.GetTx(ctx, p.db)

	args := []any{doctype}
	where, err := buildWhere("postgres", listQuery.Filters, &args)
	if err != nil {
		return nil, err
	}

	args = append(args, listQuery.LimitPageLength, listQuery.LimitStart)
	query := fmt.Sprintf(
		`SELECT doctype, name, parent, parenttype, owner, data, created_at, updated_at
		 FROM documents WHERE doctype = $1%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderClause(listQuery.OrderBy), len(args)-1, len(args),
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
func (p *PostgreSQLDocumentRepository) Insert(ctx context.Context, doc *docDomain.Document) error {
	querier := database.GetTx(ctx, p.db)

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode document data")
	}

	query := `INSERT INTO documents (doctype, name, parent, parenttype, owner, data, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

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
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return docDomain.ErrDocumentExists
		}
		return apperrors.Wrap(err, "failed to insert document")
	}
	return nil
}

// Update modifies an existing document. Returns ErrDocumentNotFound when the
// document does not exist.
func (p *PostgreSQLDocumentRepository) Update(ctx context.Context, doc *docDomain.Document) error {
	querier := database.GetTx(ctx, p.db)

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode document data")
	}

	query := `UPDATE documents
			  SET parent = $1,
				  parenttype = $2,
				  owner = $3,
				  data = $4,
				  updated_at = $5
			  WHERE doctype = $6 AND name = $7`

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
func (p *PostgreSQLDocumentRepository) Delete(ctx context.Context, doctype, name string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM documents WHERE doctype = $1 AND name = $2`

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

// rowScanner abstracts *sql.Row for single-document scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*docDomain.Document, error) {
	var doc docDomain.Document
	var parent, parenttype sql.NullString
	var data []byte

	err := row.Scan(
		&doc.Doctype,
		&doc.Name,
		&parent,
		&parenttype,
		&doc.Owner,
		&data,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docDomain.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get document")
	}

	doc.Parent = parent.String
	doc.ParentType = parenttype.String

	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode document data")
		}
	}
	if doc.Data == nil {
		doc.Data = make(map[string]any)
	}
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]*docDomain.Document, error) {
	docs := []*docDomain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate documents")
	}
	return docs, nil
}
