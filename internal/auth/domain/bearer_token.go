package domain

import (
	"strings"
	"time"
)

// ScopeDelimiter separates scopes in the stored scope string.
const ScopeDelimiter = ";"

// BearerToken is a stored OAuth bearer token with its granted scopes.
type BearerToken struct {
	Token     string
	User      string
	Scopes    string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ScopeList splits the stored scope string into individual scopes.
func (b *BearerToken) ScopeList() []string {
	if b.Scopes == "" {
		return nil
	}
	return strings.Split(b.Scopes, ScopeDelimiter)
}

// IsActive reports whether the token may still authenticate requests.
func (b *BearerToken) IsActive(now time.Time) bool {
	return b.Status == "Active" && now.Before(b.ExpiresAt)
}
