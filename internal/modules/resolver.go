// Package modules resolves which application owns a doctype's module and
// builds the dotted paths for document method dispatch.
package modules

import (
	"fmt"

	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// DefaultApp owns every module that has no explicit mapping.
const DefaultApp = "docrest"

// Resolver maps module names to owning applications.
type Resolver struct {
	moduleApps map[string]string
}

// NewResolver creates a resolver from a module-to-app mapping, usually
// loaded from configuration.
func NewResolver(moduleApps map[string]string) *Resolver {
	if moduleApps == nil {
		moduleApps = make(map[string]string)
	}
	return &Resolver{moduleApps: moduleApps}
}

// OwningApp returns the application that provides the given module,
// falling back to the default application.
func (r *Resolver) OwningApp(module string) string {
	if app, ok := r.moduleApps[module]; ok {
		return app
	}
	return DefaultApp
}

// QualifiedName builds the dotted path of a document method:
// app.module.scrubbed_doctype.sub_method.
func (r *Resolver) QualifiedName(doctype *docDomain.Doctype, subMethod string) string {
	return fmt.Sprintf(
		"%s.%s.%s.%s",
		r.OwningApp(doctype.Module),
		docDomain.Scrub(doctype.Module),
		docDomain.Scrub(doctype.Name),
		subMethod,
	)
}
