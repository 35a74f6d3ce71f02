// Package usecase implements business logic for document storage: permission
// enforcement, write transactions, child-row cascades and whitelisted
// document method execution.
package usecase

import (
	"context"

	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// DocumentRepository defines the interface for document persistence.
type DocumentRepository interface {
	Get(ctx context.Context, doctype, name string) (*docDomain.Document, error)
	List(ctx context.Context, doctype string, listQuery docDomain.ListQuery) ([]*docDomain.Document, error)
	Insert(ctx context.Context, doc *docDomain.Document) error
	Update(ctx context.Context, doc *docDomain.Document) error
	Delete(ctx context.Context, doctype, name string) error
}

// DoctypeRepository defines the interface for doctype metadata persistence.
type DoctypeRepository interface {
	Get(ctx context.Context, name string) (*docDomain.Doctype, error)
	Create(ctx context.Context, doctype *docDomain.Doctype) error
}

// RunDocMethodInput identifies a whitelisted document method invocation.
type RunDocMethodInput struct {
	Doctype string
	Name    string
	Method  string
	Args    map[string]any

	// AllowWrite is set for write verbs: the handler runs inside a
	// transaction and document mutations are persisted. Read verbs run the
	// handler without saving.
	AllowWrite bool
}

// RunDocMethodOutput carries the document state after the method ran plus
// the handler's return value.
type RunDocMethodOutput struct {
	Doc     *docDomain.Document
	Message any
}

// DocumentUseCase defines the business logic for document operations. All
// operations enforce role-based doctype permissions against the identity
// stored in the request context.
type DocumentUseCase interface {
	Get(ctx context.Context, doctype, name string) (*docDomain.Document, error)
	// List returns projected field mappings. The primary key is exposed
	// under "id"; the internal "name" key does not survive projection.
	List(ctx context.Context, doctype string, listQuery docDomain.ListQuery) ([]map[string]any, error)
	Create(ctx context.Context, doctype string, data map[string]any) (*docDomain.Document, error)
	Update(ctx context.Context, doctype, name string, data map[string]any) (*docDomain.Document, error)
	Delete(ctx context.Context, doctype, name string) error
	RunDocMethod(ctx context.Context, input RunDocMethodInput) (*RunDocMethodOutput, error)
	// ResolveDoctype loads doctype metadata, unscrubbing the REST path
	// segment form when needed.
	ResolveDoctype(ctx context.Context, name string) (*docDomain.Doctype, error)
}
