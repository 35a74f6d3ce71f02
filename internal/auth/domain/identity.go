// Package domain defines authentication domain models for the request
// authentication chain: session identities, API key credentials and OAuth
// bearer tokens.
package domain

import (
	"context"

	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// AuthType records which scheme established the session identity.
type AuthType string

const (
	// AuthTypeNone marks an anonymous (Guest) session.
	AuthTypeNone AuthType = ""

	// AuthTypeOAuth marks a session established by a verified bearer token.
	AuthTypeOAuth AuthType = "oauth"

	// AuthTypeAPIKey marks a session established by an API key/secret pair.
	AuthTypeAPIKey AuthType = "api_key"

	// AuthTypeExtension marks a session established by a registered auth extension.
	AuthTypeExtension AuthType = "extension"
)

// Identity is the authenticated principal attached to a request. The zero
// value is not valid; use Guest() for the anonymous identity.
type Identity struct {
	User     string
	AuthType AuthType
}

// Guest returns the anonymous session identity.
func Guest() Identity {
	return Identity{User: docDomain.GuestUser, AuthType: AuthTypeNone}
}

// IsGuest reports whether the identity is anonymous. An identity that was
// never set behaves as Guest.
func (i Identity) IsGuest() bool {
	return i.User == "" || i.User == docDomain.GuestUser
}

// identityKey is a context key type for storing the session identity.
type identityKey struct{}

// WithIdentity stores the session identity in the context. Callers must not
// use this to downgrade a named user back to Guest; use the resolver's
// escalation rules instead.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext retrieves the session identity from the context,
// defaulting to Guest when none was set.
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityKey{}).(Identity); ok {
		return identity
	}
	return Guest()
}
