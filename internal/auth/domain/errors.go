package domain

import (
	"github.com/allisson/docrest/internal/errors"
)

// Authentication errors.
var (
	// ErrAPIKeyNotFound indicates no record carries the presented API key.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrBearerTokenNotFound indicates the presented bearer token is unknown
	// to the token store. The OAuth stage treats this as a silent skip.
	ErrBearerTokenNotFound = errors.Wrap(errors.ErrNotFound, "bearer token not found")

	// ErrInvalidCredentials indicates a presented secret did not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
