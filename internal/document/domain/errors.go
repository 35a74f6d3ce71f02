package domain

import (
	"github.com/allisson/docrest/internal/errors"
)

// Document store errors.
var (
	// ErrDocumentNotFound indicates a document with the specified doctype and name was not found.
	ErrDocumentNotFound = errors.Wrap(errors.ErrNotFound, "document not found")

	// ErrDoctypeNotFound indicates the doctype itself is not registered in the store.
	ErrDoctypeNotFound = errors.Wrap(errors.ErrNotFound, "doctype not found")

	// ErrDocumentExists indicates an insert collided with an existing document name.
	ErrDocumentExists = errors.Wrap(errors.ErrConflict, "document already exists")

	// ErrMethodNotWhitelisted indicates a document method that is not marked
	// as safely invocable from an external request.
	ErrMethodNotWhitelisted = errors.Wrap(errors.ErrNotFound, "method not whitelisted")
)
