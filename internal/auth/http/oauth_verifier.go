package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// VerifyRequest carries everything the verifier may inspect: the request
// line rebuilt with the access token as a query parameter, the raw body
// (nil for multipart uploads) and the scopes granted to the stored token.
type VerifyRequest struct {
	URI         string
	Method      string
	Body        []byte
	Headers     http.Header
	AccessToken string
	Scopes      []string
}

// OAuthVerifier validates a bearer token presentation against the request.
type OAuthVerifier interface {
	// Verify reports whether the token authorizes the request. A false
	// return without error means the presentation was invalid; the caller
	// treats that as an anonymous fall-through, not a request failure.
	Verify(ctx context.Context, req VerifyRequest) (bool, error)
}

// tokenClaims are the JWT claims the verifier understands. Scopes use the
// space-delimited form of RFC 6749.
type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// jwtVerifier implements OAuthVerifier for HMAC-signed JWT access tokens.
type jwtVerifier struct {
	key    []byte
	issuer string
}

// NewJWTVerifier creates a verifier for HS256 tokens signed with the given
// key and issued by the given issuer.
func NewJWTVerifier(key []byte, issuer string) OAuthVerifier {
	return &jwtVerifier{key: key, issuer: issuer}
}

// Verify checks the token signature, expiry and issuer, then requires the
// token's scope claim to cover every scope granted to the stored token.
func (v *jwtVerifier) Verify(_ context.Context, req VerifyRequest) (bool, error) {
	if req.AccessToken == "" {
		return false, nil
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(
		req.AccessToken,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "unexpected signing method %s", t.Method.Alg())
			}
			return v.key, nil
		},
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return false, nil
	}

	granted := strings.Fields(claims.Scope)
	for _, required := range req.Scopes {
		if !slices.Contains(granted, required) {
			return false, nil
		}
	}
	return true, nil
}
