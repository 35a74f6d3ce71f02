// Package domain defines document store domain models.
// Documents are schemaless records grouped under doctypes, each identified
// by a primary key field called "name".
package domain

// Capability defines the types of operations that can be performed on documents.
// Doctype permissions grant capabilities to roles.
type Capability string

const (
	// ReadCapability allows reading document data.
	ReadCapability Capability = "read"

	// WriteCapability allows updating document data.
	WriteCapability Capability = "write"

	// CreateCapability allows inserting new documents.
	CreateCapability Capability = "create"

	// DeleteCapability allows removing documents.
	DeleteCapability Capability = "delete"
)

// GuestUser is the anonymous session identity.
const GuestUser = "Guest"

// AdministratorUser bypasses doctype permission checks.
const AdministratorUser = "Administrator"

// GuestRole is implicitly held by every session, authenticated or not.
const GuestRole = "Guest"

// AllRole is implicitly held by every authenticated (non-Guest) session.
const AllRole = "All"

// UserDoctype is the built-in doctype holding user accounts. It is the
// default acting doctype for API key resolution.
const UserDoctype = "User"
