// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/docrest/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern.
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// doctypeNameRegex matches canonical doctype names: title-cased words
	// separated by single spaces ("Task", "Sales Order").
	doctypeNameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*( [A-Z][A-Za-z0-9]*)*$`)

	// fieldNameRegex matches store field identifiers.
	fieldNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates that a string looks like an email address.
var Email = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_email_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !emailRegex.MatchString(s) {
		return validation.NewError("validation_email", "must be a valid email address")
	}
	return nil
})

// DoctypeName validates canonical doctype names.
var DoctypeName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_doctype_name_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if !doctypeNameRegex.MatchString(s) {
		return validation.NewError(
			"validation_doctype_name",
			"must be title-cased words separated by single spaces",
		)
	}
	return nil
})

// FieldName validates store field identifiers.
var FieldName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_field_name_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if !fieldNameRegex.MatchString(s) {
		return validation.NewError(
			"validation_field_name",
			"must be a lowercase identifier",
		)
	}
	return nil
})
