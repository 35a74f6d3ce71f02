// Package rest implements the resource router: it maps URL path shapes onto
// document store operations and whitelisted method invocations, and
// normalizes response shapes (field projection, identifier renaming).
package rest

import (
	"strings"

	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// RouteKind classifies the call a request path resolves to.
type RouteKind string

const (
	// RouteNone marks an unrecognized path shape; dispatch fails with
	// not-found.
	RouteNone RouteKind = ""

	// RouteMethod invokes a whitelisted method by dotted path.
	RouteMethod RouteKind = "method"

	// RouteResource operates on a doctype or a single document.
	RouteResource RouteKind = "resource"
)

// Route is the parsed form of a request path. It is derived per request and
// never persisted.
type Route struct {
	Kind RouteKind

	// Doctype is the doctype name for resource calls, or the dotted method
	// path for method calls.
	Doctype string

	// Name is the document identifier, when the path carries one.
	Name string

	// SubMethod is the document-scoped method segment of a 5-segment path.
	// When set, the call is forced to method kind and Name must be injected
	// into the request form so the handler can locate the document.
	SubMethod string
}

// ParseRoute parses a request path left to right:
//
//	/api/method/{dotted.path}
//	/api/resource/{doctype}
//	/api/resource/{doctype}/{name}
//	/api/resource/{doctype}/{name}/{sub-method}
//
// Lower-cased doctype segments on resource calls are unscrubbed to the
// canonical doctype name, so "sales-order" addresses "Sales Order". A fifth
// segment forces method kind; the caller resolves the qualified method path
// through the module resolver.
func ParseRoute(path string) Route {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	route := Route{Kind: RouteNone}
	if len(parts) > 1 {
		switch parts[1] {
		case "method":
			route.Kind = RouteMethod
		case "resource":
			route.Kind = RouteResource
		}
	}

	if len(parts) > 2 {
		route.Doctype = parts[2]
		if route.Kind == RouteResource && docDomain.IsScrubbed(route.Doctype) {
			route.Doctype = docDomain.Unscrub(route.Doctype)
		}
	}

	if len(parts) > 3 {
		route.Name = parts[3]
	}

	if len(parts) > 4 {
		route.SubMethod = strings.ReplaceAll(parts[4], "-", "_")
		route.Kind = RouteMethod
	}

	return route
}
