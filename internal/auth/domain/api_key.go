package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is the persisted credential record for API key authentication.
// The secret is stored encrypted; the plaintext only exists at creation time
// and inside the credential cache after a successful resolve.
type APIKey struct {
	ID uuid.UUID

	// Doctype is the record type carrying the key. Usually "User"; the
	// authorization-source header can select another doctype whose records
	// link to a user.
	Doctype string

	// RecordName is the name of the document carrying the key.
	RecordName string

	// Key is the public half of the credential pair.
	Key string

	// EncryptedSecret is the keeper-encrypted secret.
	EncryptedSecret []byte

	// LinkedUser is the user a non-User record resolves to. Empty for
	// User-doctype keys, where RecordName is the user itself.
	LinkedUser string

	CreatedAt time.Time
}

// ResolvedUser returns the session user this key authenticates as.
func (k *APIKey) ResolvedUser() string {
	if k.Doctype == "" || k.Doctype == "User" {
		return k.RecordName
	}
	return k.LinkedUser
}

// CredentialCacheEntry is the cached outcome of resolving an API key:
// the user identity plus the decrypted secret. The cache is authoritative
// until evicted, so secret rotation requires an explicit invalidation.
type CredentialCacheEntry struct {
	User   string `json:"user"`
	Secret string `json:"api_secret"`
}
