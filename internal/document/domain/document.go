package domain

import (
	"time"
)

// ControlFields are request-body keys that carry routing or control state
// rather than document data. They are never merged into Data.
var ControlFields = map[string]struct{}{
	"doctype": {},
	"name":    {},
	"flags":   {},
	"cmd":     {},
}

// Document represents a single record of a doctype. The primary key field is
// called "name" in the store's internal representation; REST responses expose
// it as "id" as well.
type Document struct {
	Doctype    string
	Name       string
	Owner      string
	Parent     string
	ParentType string
	Data       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// IsNew marks a document built from request data that has not been
	// persisted yet.
	IsNew bool
}

// Get returns a data field value, or nil when absent.
func (d *Document) Get(field string) any {
	switch field {
	case "name":
		return d.Name
	case "owner":
		return d.Owner
	case "parent":
		return d.Parent
	case "parenttype":
		return d.ParentType
	}
	if d.Data == nil {
		return nil
	}
	return d.Data[field]
}

// Set stores a data field value.
func (d *Document) Set(field string, value any) {
	if d.Data == nil {
		d.Data = make(map[string]any)
	}
	d.Data[field] = value
}

// IsChildRow reports whether the document is a child-table row owned by a
// parent document. Updates to child rows require the parent to be re-saved.
func (d *Document) IsChildRow() bool {
	return d.ParentType != "" && d.Parent != ""
}

// ApplyUpdate merges request data into the document, skipping control fields.
func (d *Document) ApplyUpdate(data map[string]any) {
	for field, value := range data {
		if _, control := ControlFields[field]; control {
			continue
		}
		d.Set(field, value)
	}
}

// AsMapOptions controls the shape produced by AsMap.
type AsMapOptions struct {
	// NoDefaultFields suppresses system fields (owner, timestamps).
	NoDefaultFields bool
}

// AsMap flattens the document into a field mapping. The "name" key is always
// present; parent linkage keys appear only on child rows. Timestamps are
// rendered as RFC 3339 strings.
func (d *Document) AsMap(opts AsMapOptions) map[string]any {
	out := make(map[string]any, len(d.Data)+4)
	for field, value := range d.Data {
		out[field] = value
	}
	out["name"] = d.Name
	if d.IsChildRow() {
		out["parent"] = d.Parent
		out["parenttype"] = d.ParentType
	}
	if !opts.NoDefaultFields {
		out["owner"] = d.Owner
		out["creation"] = d.CreatedAt.UTC().Format(time.RFC3339)
		out["modified"] = d.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// NewDocument builds an unsaved document of the given doctype from request
// data. Control fields are kept out of Data; parent linkage fields are
// promoted to their dedicated attributes.
func NewDocument(doctype string, data map[string]any) *Document {
	doc := &Document{
		Doctype: doctype,
		Data:    make(map[string]any, len(data)),
		IsNew:   true,
	}
	for field, value := range data {
		switch field {
		case "name":
			if s, ok := value.(string); ok {
				doc.Name = s
			}
		case "parent":
			if s, ok := value.(string); ok {
				doc.Parent = s
			}
		case "parenttype":
			if s, ok := value.(string); ok {
				doc.ParentType = s
			}
		case "doctype", "flags", "cmd":
			// control fields, dropped
		default:
			doc.Data[field] = value
		}
	}
	return doc
}
