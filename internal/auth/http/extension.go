// Package http implements the request authentication chain: OAuth bearer
// tokens, API key credentials and pluggable extensions, resolved in that
// order into a session identity.
package http

import (
	"context"
	"net/http"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
)

// AuthExtension is a pluggable authentication scheme. Extensions run after
// the built-in stages on every request; a match only takes effect while the
// session is still anonymous, so an extension can never downgrade an
// identity established earlier in the chain.
type AuthExtension interface {
	// Authenticate inspects the request and reports whether it established
	// an identity. Errors abort the request.
	Authenticate(ctx context.Context, r *http.Request) (authDomain.Identity, bool, error)
}
