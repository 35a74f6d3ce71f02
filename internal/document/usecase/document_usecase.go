package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
	"github.com/allisson/docrest/internal/method"
)

// documentUseCase implements the DocumentUseCase interface.
type documentUseCase struct {
	txManager   database.TxManager
	docRepo     DocumentRepository
	doctypeRepo DoctypeRepository
	docMethods  *method.DocRegistry
}

// NewDocumentUseCase creates a new document use case.
func NewDocumentUseCase(
	txManager database.TxManager,
	docRepo DocumentRepository,
	doctypeRepo DoctypeRepository,
	docMethods *method.DocRegistry,
) DocumentUseCase {
	return &documentUseCase{
		txManager:   txManager,
		docRepo:     docRepo,
		doctypeRepo: doctypeRepo,
		docMethods:  docMethods,
	}
}

// ResolveDoctype loads doctype metadata by canonical name, unscrubbing the
// lower-cased path segment form first when needed.
func (u *documentUseCase) ResolveDoctype(ctx context.Context, name string) (*docDomain.Doctype, error) {
	if docDomain.IsScrubbed(name) {
		name = docDomain.Unscrub(name)
	}
	return u.doctypeRepo.Get(ctx, name)
}

// Get retrieves a single document after a read permission check.
func (u *documentUseCase) Get(ctx context.Context, doctype, name string) (*docDomain.Document, error) {
	meta, err := u.doctypeRepo.Get(ctx, doctype)
	if err != nil {
		return nil, err
	}
	if err := u.requirePermission(ctx, meta, docDomain.ReadCapability); err != nil {
		return nil, err
	}
	return u.docRepo.Get(ctx, meta.Name, name)
}

// List retrieves documents and projects them onto the requested fields.
// Rows expose the primary key as "id"; the internal "name" key is renamed
// away. A non-positive page length falls back to the default page size.
func (u *documentUseCase) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]map[string]any, error) {
	meta, err := u.doctypeRepo.Get(ctx, doctype)
	if err != nil {
		return nil, err
	}
	if err := u.requirePermission(ctx, meta, docDomain.ReadCapability); err != nil {
		return nil, err
	}

	if listQuery.LimitPageLength <= 0 {
		listQuery.LimitPageLength = docDomain.DefaultPageLength
	}
	if len(listQuery.Fields) == 0 {
		listQuery.Fields = []string{"name"}
	}

	docs, err := u.docRepo.List(ctx, meta.Name, listQuery)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		row := make(map[string]any, len(listQuery.Fields))
		for _, field := range listQuery.Fields {
			row[field] = doc.Get(field)
		}
		// The primary key leaves the API as "id"; the internal key name
		// does not survive list projection.
		row["id"] = row["name"]
		delete(row, "name")
		rows = append(rows, row)
	}
	return rows, nil
}

// Create inserts a new document. The acting user becomes the owner, create
// hooks run before the insert, and the whole write is one transaction.
func (u *documentUseCase) Create(
	ctx context.Context,
	doctype string,
	data map[string]any,
) (*docDomain.Document, error) {
	meta, err := u.doctypeRepo.Get(ctx, doctype)
	if err != nil {
		return nil, err
	}
	if err := u.requirePermission(ctx, meta, docDomain.CreateCapability); err != nil {
		return nil, err
	}

	doc := docDomain.NewDocument(meta.Name, data)
	if doc.Name == "" {
		doc.Name = uuid.Must(uuid.NewV7()).String()
	}

	identity := authDomain.IdentityFromContext(ctx)
	doc.Owner = identity.User

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.docMethods.RunCreateHooks(txCtx, doc); err != nil {
			return err
		}
		return u.docRepo.Insert(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	doc.IsNew = false
	return doc, nil
}

// Update merges request data into an existing document and saves it. When
// the target is a child-table row, the parent document is re-saved in the
// same transaction so its modification time reflects the change.
func (u *documentUseCase) Update(
	ctx context.Context,
	doctype, name string,
	data map[string]any,
) (*docDomain.Document, error) {
	meta, err := u.doctypeRepo.Get(ctx, doctype)
	if err != nil {
		return nil, err
	}
	if err := u.requirePermission(ctx, meta, docDomain.WriteCapability); err != nil {
		return nil, err
	}

	var doc *docDomain.Document
	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		doc, err = u.docRepo.Get(txCtx, meta.Name, name)
		if err != nil {
			return err
		}

		doc.ApplyUpdate(data)
		doc.UpdatedAt = time.Now().UTC()
		if err := u.docRepo.Update(txCtx, doc); err != nil {
			return err
		}

		if !doc.IsChildRow() {
			return nil
		}

		parent, err := u.docRepo.Get(txCtx, doc.ParentType, doc.Parent)
		if err != nil {
			return err
		}
		parent.UpdatedAt = time.Now().UTC()
		return u.docRepo.Update(txCtx, parent)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document. Deleting a missing document is an error, never
// a silent success.
func (u *documentUseCase) Delete(ctx context.Context, doctype, name string) error {
	meta, err := u.doctypeRepo.Get(ctx, doctype)
	if err != nil {
		return err
	}
	if err := u.requirePermission(ctx, meta, docDomain.DeleteCapability); err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return u.docRepo.Delete(txCtx, meta.Name, name)
	})
}

// RunDocMethod executes a whitelisted document method. Read verbs run the
// handler against the loaded document without saving; write verbs persist
// the document inside a transaction after the handler returns.
func (u *documentUseCase) RunDocMethod(
	ctx context.Context,
	input RunDocMethodInput,
) (*RunDocMethodOutput, error) {
	meta, err := u.doctypeRepo.Get(ctx, input.Doctype)
	if err != nil {
		return nil, err
	}
	if err := meta.IsWhitelisted(input.Method); err != nil {
		return nil, err
	}

	capability := docDomain.ReadCapability
	if input.AllowWrite {
		capability = docDomain.WriteCapability
	}
	if err := u.requirePermission(ctx, meta, capability); err != nil {
		return nil, err
	}

	handler, err := u.docMethods.Get(meta.Name, input.Method)
	if err != nil {
		return nil, err
	}

	req := &method.Request{Args: input.Args}

	if !input.AllowWrite {
		doc, err := u.docRepo.Get(ctx, meta.Name, input.Name)
		if err != nil {
			return nil, err
		}
		message, err := handler(ctx, doc, req)
		if err != nil {
			return nil, err
		}
		return &RunDocMethodOutput{Doc: doc, Message: message}, nil
	}

	var out RunDocMethodOutput
	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		doc, err := u.docRepo.Get(txCtx, meta.Name, input.Name)
		if err != nil {
			return err
		}

		message, err := handler(txCtx, doc, req)
		if err != nil {
			return err
		}

		doc.UpdatedAt = time.Now().UTC()
		if err := u.docRepo.Update(txCtx, doc); err != nil {
			return err
		}

		out = RunDocMethodOutput{Doc: doc, Message: message}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// requirePermission checks the acting identity's roles against the doctype
// permission rules. Administrator bypasses role checks entirely.
func (u *documentUseCase) requirePermission(
	ctx context.Context,
	meta *docDomain.Doctype,
	capability docDomain.Capability,
) error {
	identity := authDomain.IdentityFromContext(ctx)
	if identity.User == docDomain.AdministratorUser {
		return nil
	}

	roles, err := u.userRoles(ctx, identity)
	if err != nil {
		return err
	}
	if !meta.HasPermission(roles, capability) {
		return apperrors.Wrapf(
			apperrors.ErrPermissionDenied,
			"user %s has no %s permission on %s", identity.User, capability, meta.Name,
		)
	}
	return nil
}

// userRoles expands the identity's roles from its user document. A missing
// user document yields only the implicit roles.
func (u *documentUseCase) userRoles(ctx context.Context, identity authDomain.Identity) ([]string, error) {
	if identity.IsGuest() {
		return docDomain.RolesFor(identity.User, nil), nil
	}

	userDoc, err := u.docRepo.Get(ctx, docDomain.UserDoctype, identity.User)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return docDomain.RolesFor(identity.User, nil), nil
		}
		return nil, err
	}

	var stored []string
	if raw, ok := userDoc.Get("roles").([]any); ok {
		for _, role := range raw {
			if s, ok := role.(string); ok {
				stored = append(stored, s)
			}
		}
	}
	return docDomain.RolesFor(identity.User, stored), nil
}
