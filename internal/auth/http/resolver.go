package http

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
	apperrors "github.com/allisson/docrest/internal/errors"
	"github.com/allisson/docrest/internal/httputil"
)

// AuthorizationSourceHeader selects which doctype carries the presented API
// key. Absent, keys resolve against user records.
const AuthorizationSourceHeader = "X-Docrest-Authorization-Source"

// accessTokenParam is the query/form parameter carrying a bearer token when
// it is not sent in the Authorization header.
const accessTokenParam = "access_token"

// stageStatus is the outcome of one authentication stage.
type stageStatus int

const (
	// stageSkip means the stage did not apply; the chain continues with the
	// session unchanged.
	stageSkip stageStatus = iota

	// stageOK means the stage established an identity.
	stageOK

	// stageFatal means the stage saw a malformed or invalid credential; the
	// request fails instead of falling through to the next stage.
	stageFatal
)

// stageResult carries a stage outcome. identity is set for stageOK, err for
// stageFatal.
type stageResult struct {
	status   stageStatus
	identity authDomain.Identity
	err      error
}

func skip() stageResult { return stageResult{status: stageSkip} }

func ok(identity authDomain.Identity) stageResult {
	return stageResult{status: stageOK, identity: identity}
}

func fatal(err error) stageResult { return stageResult{status: stageFatal, err: err} }

// Resolver runs the authentication chain: OAuth bearer tokens first, API
// key credentials second, registered extensions last. Later stages never
// replace an identity established by an earlier one.
type Resolver struct {
	bearerTokens authUseCase.BearerTokenUseCase
	apiKeys      authUseCase.APIKeyUseCase
	verifier     OAuthVerifier
	extensions   []AuthExtension
	logger       *slog.Logger
}

// NewResolver creates a new authentication resolver.
func NewResolver(
	bearerTokens authUseCase.BearerTokenUseCase,
	apiKeys authUseCase.APIKeyUseCase,
	verifier OAuthVerifier,
	extensions []AuthExtension,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		bearerTokens: bearerTokens,
		apiKeys:      apiKeys,
		verifier:     verifier,
		extensions:   extensions,
		logger:       logger,
	}
}

// Middleware resolves the session identity for every request and stores it
// in the request context. Requests without credentials proceed as Guest;
// endpoint-level permission checks decide what Guest may do.
func (r *Resolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := authDomain.Guest()

		if res := r.resolveOAuth(c); !r.applyStage(c, res, &identity) {
			return
		}
		if res := r.resolveAPIKey(c); !r.applyStage(c, res, &identity) {
			return
		}
		for _, extension := range r.extensions {
			extIdentity, matched, err := extension.Authenticate(c.Request.Context(), c.Request)
			res := skip()
			if err != nil {
				res = fatal(err)
			} else if matched {
				res = ok(extIdentity)
			}
			if !r.applyStage(c, res, &identity) {
				return
			}
		}

		ctx := authDomain.WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// applyStage folds a stage result into the session identity. A stage only
// takes effect while the session is still anonymous. Returns false when the
// request was aborted.
func (r *Resolver) applyStage(c *gin.Context, res stageResult, identity *authDomain.Identity) bool {
	switch res.status {
	case stageFatal:
		httputil.HandleErrorGin(c, res.err, r.logger)
		c.Abort()
		return false
	case stageOK:
		if identity.IsGuest() {
			*identity = res.identity
		}
	}
	return true
}

// resolveOAuth validates a presented bearer token. Unknown or invalid
// tokens fall through silently so other schemes get their turn.
func (r *Resolver) resolveOAuth(c *gin.Context) stageResult {
	token := r.bearerTokenFromRequest(c)
	if token == "" {
		return skip()
	}

	stored, err := r.bearerTokens.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, authDomain.ErrBearerTokenNotFound) {
			return skip()
		}
		return fatal(err)
	}
	if !stored.IsActive(time.Now().UTC()) {
		return skip()
	}

	body, restore := r.readBody(c)
	defer restore()

	valid, err := r.verifier.Verify(c.Request.Context(), VerifyRequest{
		URI:         uriWithAccessToken(c.Request.URL, token),
		Method:      c.Request.Method,
		Body:        body,
		Headers:     c.Request.Header,
		AccessToken: token,
		Scopes:      stored.ScopeList(),
	})
	if err != nil {
		return fatal(err)
	}
	if !valid {
		return skip()
	}

	return ok(authDomain.Identity{User: stored.User, AuthType: authDomain.AuthTypeOAuth})
}

// resolveAPIKey validates Basic or token credentials from the Authorization
// header. Only a base64-decoding failure is authoritative; every other
// failure shape (no separator, unknown key, wrong secret) falls through
// silently so the request proceeds as Guest and later stages still run.
func (r *Resolver) resolveAPIKey(c *gin.Context) stageResult {
	header := c.GetHeader("Authorization")
	if header == "" {
		return skip()
	}

	scheme, rest, found := strings.Cut(header, " ")
	if !found {
		return skip()
	}

	var key, secret string
	switch strings.ToLower(scheme) {
	case "basic":
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rest))
		if err != nil {
			return fatal(apperrors.ErrInvalidTokenEncoding)
		}
		var split bool
		key, secret, split = strings.Cut(string(decoded), ":")
		if !split {
			return skip()
		}
	case "token":
		var split bool
		key, secret, split = strings.Cut(strings.TrimSpace(rest), ":")
		if !split {
			return skip()
		}
	default:
		// Bearer and anything else is not an API key presentation.
		return skip()
	}

	source := c.GetHeader(AuthorizationSourceHeader)
	if source == "" {
		source = "User"
	}

	entry, err := r.apiKeys.ResolveCredentials(c.Request.Context(), source, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return skip()
		}
		return fatal(err)
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(entry.Secret)) != 1 {
		return skip()
	}

	return ok(authDomain.Identity{User: entry.User, AuthType: authDomain.AuthTypeAPIKey})
}

// bearerTokenFromRequest extracts a bearer token from the Authorization
// header or from the access_token query/form parameter.
func (r *Resolver) bearerTokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	if token := c.Query(accessTokenParam); token != "" {
		return token
	}
	if token := c.PostForm(accessTokenParam); token != "" {
		return token
	}
	return ""
}

// readBody returns the raw request body for verification and a restore
// function that makes it readable again for the handler. Multipart bodies
// are not buffered; the verifier sees nil.
func (r *Resolver) readBody(c *gin.Context) ([]byte, func()) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") || c.Request.Body == nil {
		return nil, func() {}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, func() {}
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, func() {
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
}

// uriWithAccessToken rebuilds the request URI with the token appended as a
// query parameter, the canonical form verifiers expect.
func uriWithAccessToken(u *url.URL, token string) string {
	rebuilt := *u
	query := rebuilt.Query()
	query.Set(accessTokenParam, token)
	rebuilt.RawQuery = query.Encode()
	return rebuilt.String()
}
