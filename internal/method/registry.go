// Package method implements the whitelisted method registry.
//
// Remote procedure endpoints are resolved through explicit registration
// instead of reflection: a dotted path maps to a handler only when the
// handler was registered at startup, and unknown paths fail closed with
// a not-found error.
package method

import (
	"context"
	"sync"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// ErrMethodNotFound is returned when a dotted method path has no
// registered handler.
var ErrMethodNotFound = apperrors.Wrap(apperrors.ErrNotFound, "method not found")

// Request carries the inputs of a method invocation: the merged query
// string and form arguments plus the HTTP verb used to call it.
type Request struct {
	HTTPMethod string
	Args       map[string]any
}

// Arg returns a string argument or "" when absent.
func (r *Request) Arg(name string) string {
	if v, ok := r.Args[name].(string); ok {
		return v
	}
	return ""
}

// HandlerFunc is a remote method implementation.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Method is a registered remote method. AllowGuest permits unauthenticated
// calls; IsWrite requires a write verb and runs the handler inside a
// transaction that commits on success.
type Method struct {
	Name       string
	Handler    HandlerFunc
	AllowGuest bool
	IsWrite    bool
}

// Registry maps dotted method paths to registered methods. It is safe for
// concurrent use; registration normally happens once during startup.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*Method
}

// NewRegistry creates an empty method registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]*Method)}
}

// Register adds a method under its dotted path. Registering the same path
// twice replaces the previous handler.
func (r *Registry) Register(m *Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Name] = m
}

// Get resolves a dotted method path. Unregistered paths return
// ErrMethodNotFound.
func (r *Registry) Get(path string) (*Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[path]
	if !ok {
		return nil, apperrors.Wrapf(ErrMethodNotFound, "%s", path)
	}
	return m, nil
}
