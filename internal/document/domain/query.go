package domain

// Filter is a single list-query condition on a document field.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// ListQuery carries filters, projection and pagination for a list operation.
type ListQuery struct {
	Filters         []Filter
	Fields          []string
	LimitStart      int
	LimitPageLength int
	OrderBy         string

	// AsDict and Debug are boolean-looking request parameters coerced from
	// strings before reaching the store.
	AsDict bool
	Debug  bool
}

// DefaultPageLength bounds list queries when the caller supplies no
// pagination parameters.
const DefaultPageLength = 20
