package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// RequestForm is the request-scoped form state: query parameters merged with
// the parsed request body. It is threaded through dispatch as an explicit
// value; nothing in the router mutates ambient request state.
type RequestForm struct {
	query map[string]any
	body  map[string]any
}

// ParseRequestForm builds the form state for a request. The body is parsed
// as JSON when it decodes to an object; otherwise url-encoded form fields
// are used. The raw body is restored so later readers see it unconsumed.
func ParseRequestForm(c *gin.Context) *RequestForm {
	form := &RequestForm{
		query: make(map[string]any),
		body:  make(map[string]any),
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			form.query[key] = values[0]
		}
	}

	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(32 << 20); err == nil {
			for key, values := range c.Request.PostForm {
				if len(values) > 0 {
					form.body[key] = values[0]
				}
			}
		}
		return form
	}

	if c.Request.Body == nil {
		return form
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return form
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var parsed map[string]any
	if json.Unmarshal(raw, &parsed) == nil {
		form.body = parsed
		return form
	}

	// Not JSON: fall back to url-encoded form fields.
	if len(raw) > 0 {
		values, parseErr := parseURLEncoded(string(raw))
		if parseErr == nil {
			form.body = values
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	}
	return form
}

func parseURLEncoded(raw string) (map[string]any, error) {
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(parsed))
	for key, fieldValues := range parsed {
		if len(fieldValues) > 0 {
			values[key] = fieldValues[0]
		}
	}
	return values, nil
}

// Get returns a parameter as a string, body fields taking precedence over
// query parameters.
func (f *RequestForm) Get(key string) string {
	if value, ok := f.body[key]; ok {
		return stringValue(value)
	}
	if value, ok := f.query[key]; ok {
		return stringValue(value)
	}
	return ""
}

// Has reports whether the parameter was supplied at all.
func (f *RequestForm) Has(key string) bool {
	if _, ok := f.body[key]; ok {
		return true
	}
	_, ok := f.query[key]
	return ok
}

// Set stores a value in the form state. Used by dispatch to inject the
// document identifier for document-scoped method calls.
func (f *RequestForm) Set(key string, value any) {
	f.query[key] = value
}

// Pop removes a parameter and returns its string form, so control
// parameters like run_method do not leak into method arguments.
func (f *RequestForm) Pop(key string) string {
	value := f.Get(key)
	delete(f.body, key)
	delete(f.query, key)
	return value
}

// Args returns the merged invocation arguments for a method call: query
// parameters overlaid with body fields.
func (f *RequestForm) Args() map[string]any {
	merged := make(map[string]any, len(f.query)+len(f.body))
	for key, value := range f.query {
		merged[key] = value
	}
	for key, value := range f.body {
		merged[key] = value
	}
	return merged
}

// Body returns the document data carried by the request body.
func (f *RequestForm) Body() map[string]any {
	return f.body
}

// Bool coerces a boolean-looking parameter. Absent or unrecognized values
// return the fallback.
func (f *RequestForm) Bool(key string, fallback bool) bool {
	if !f.Has(key) {
		return fallback
	}
	switch strings.ToLower(f.Get(key)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	case "0", "f", "false", "n", "no", "off", "":
		return false
	}
	return fallback
}

// Int parses an integer parameter, returning the fallback when absent or
// malformed.
func (f *RequestForm) Int(key string, fallback int) int {
	raw := f.Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// ParseFields parses the fields parameter: a JSON array when it contains a
// bracket, else a comma-separated list. A literal "id" token is dropped and
// "name" is appended so identifier renaming always has its source field.
func ParseFields(raw string) ([]string, error) {
	var fields []string
	if strings.Contains(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid fields parameter: %s", raw)
		}
	} else {
		for _, field := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				fields = append(fields, trimmed)
			}
		}
	}

	filtered := fields[:0]
	hasName := false
	for _, field := range fields {
		if field == "id" {
			continue
		}
		if field == "name" {
			hasName = true
		}
		filtered = append(filtered, field)
	}
	if !hasName {
		filtered = append(filtered, "name")
	}
	return filtered, nil
}

// ParseFilters parses the filters parameter. Two forms are accepted: a JSON
// object of field → value equality conditions, and a JSON array of
// [field, operator, value] triples (a leading doctype element is tolerated
// and ignored).
func ParseFilters(raw string) ([]docDomain.Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "{") {
		var conditions map[string]any
		if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid filters parameter: %s", raw)
		}
		filters := make([]docDomain.Filter, 0, len(conditions))
		for field, value := range conditions {
			filters = append(filters, docDomain.Filter{Field: field, Operator: "=", Value: value})
		}
		return filters, nil
	}

	var rows [][]any
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid filters parameter: %s", raw)
	}

	filters := make([]docDomain.Filter, 0, len(rows))
	for _, row := range rows {
		if len(row) == 4 {
			// [doctype, field, operator, value]
			row = row[1:]
		}
		if len(row) != 3 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "filter conditions need [field, operator, value]")
		}
		field, fieldOK := row[0].(string)
		operator, operatorOK := row[1].(string)
		if !fieldOK || !operatorOK {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "filter field and operator must be strings")
		}
		filters = append(filters, docDomain.Filter{Field: field, Operator: operator, Value: row[2]})
	}
	return filters, nil
}

// ListQuery assembles the list-query parameters. The page length defaults
// to the limit parameter when limit_page_length is absent, else 20.
func (f *RequestForm) ListQuery() (docDomain.ListQuery, error) {
	listQuery := docDomain.ListQuery{
		LimitStart: f.Int("limit_start", 0),
		OrderBy:    f.Get("order_by"),
		AsDict:     f.Bool("as_dict", true),
		Debug:      f.Bool("debug", false),
	}

	listQuery.LimitPageLength = f.Int("limit_page_length", f.Int("limit", docDomain.DefaultPageLength))

	if f.Has("fields") {
		fields, err := ParseFields(f.Get("fields"))
		if err != nil {
			return listQuery, err
		}
		listQuery.Fields = fields
	}

	filters, err := ParseFilters(f.Get("filters"))
	if err != nil {
		return listQuery, err
	}
	listQuery.Filters = filters

	return listQuery, nil
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return ""
}
