package method

import (
	"context"
	"sync"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// DocHandlerFunc implements a method attached to a document. Handlers
// receive the loaded document and the invocation arguments.
type DocHandlerFunc func(ctx context.Context, doc *docDomain.Document, req *Request) (any, error)

// CreateHook runs before a document is inserted. It can veto the insert
// by returning an error, typically a conflict when a matching document
// already exists.
type CreateHook func(ctx context.Context, doc *docDomain.Document) error

// DocRegistry maps doctype method names to handlers, and holds the
// per-doctype hooks that run around document writes.
type DocRegistry struct {
	mu          sync.RWMutex
	handlers    map[string]map[string]DocHandlerFunc
	createHooks map[string][]CreateHook
}

// NewDocRegistry creates an empty document method registry.
func NewDocRegistry() *DocRegistry {
	return &DocRegistry{
		handlers:    make(map[string]map[string]DocHandlerFunc),
		createHooks: make(map[string][]CreateHook),
	}
}

// Register adds a document method handler for a doctype.
func (r *DocRegistry) Register(doctype, name string, fn DocHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers[doctype] == nil {
		r.handlers[doctype] = make(map[string]DocHandlerFunc)
	}
	r.handlers[doctype][name] = fn
}

// Get resolves a document method handler. Missing handlers return
// ErrMethodNotFound even when the doctype metadata whitelists the name.
func (r *DocRegistry) Get(doctype, name string) (DocHandlerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.handlers[doctype][name]
	if !ok {
		return nil, apperrors.Wrapf(ErrMethodNotFound, "%s.%s", doctype, name)
	}
	return fn, nil
}

// RegisterCreateHook adds a hook that runs before documents of the given
// doctype are inserted.
func (r *DocRegistry) RegisterCreateHook(doctype string, hook CreateHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createHooks[doctype] = append(r.createHooks[doctype], hook)
}

// RunCreateHooks executes the registered create hooks for the document's
// doctype, stopping at the first error.
func (r *DocRegistry) RunCreateHooks(ctx context.Context, doc *docDomain.Document) error {
	r.mu.RLock()
	hooks := r.createHooks[doc.Doctype]
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}
