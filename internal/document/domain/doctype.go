package domain

import (
	"slices"
)

// Permission grants capabilities on a doctype to a role.
type Permission struct {
	Role         string       `json:"role"`
	Capabilities []Capability `json:"capabilities"`
}

// Doctype is the metadata record for a named document type: its owning
// module, parent-child nature, role-based permission rules and the set of
// document methods that may be invoked from an external request.
type Doctype struct {
	Name               string
	Module             string
	IsChild            bool
	Permissions        []Permission
	WhitelistedMethods []string
}

// HasPermission reports whether any of the given roles grants the capability.
func (d *Doctype) HasPermission(roles []string, capability Capability) bool {
	for _, perm := range d.Permissions {
		if !slices.Contains(roles, perm.Role) {
			continue
		}
		if slices.Contains(perm.Capabilities, capability) {
			return true
		}
	}
	return false
}

// IsWhitelisted fails with ErrMethodNotWhitelisted unless the method is
// explicitly marked as safely invocable from an external request.
func (d *Doctype) IsWhitelisted(method string) error {
	if slices.Contains(d.WhitelistedMethods, method) {
		return nil
	}
	return ErrMethodNotWhitelisted
}

// RolesFor expands the implicit roles of a session identity: every session
// holds Guest, and every named user additionally holds All plus the roles
// stored on their user document.
func RolesFor(user string, userRoles []string) []string {
	roles := []string{GuestRole}
	if user == "" || user == GuestUser {
		return roles
	}
	roles = append(roles, AllRole)
	for _, role := range userRoles {
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles
}
