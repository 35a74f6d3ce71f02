package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/docrest/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleDataGin(t *testing.T) {
	c, w := newTestContext(t)

	HandleDataGin(c, http.StatusCreated, map[string]any{"id": "TASK-0001"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TASK-0001", body["data"]["id"])
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{"invalid token encoding", apperrors.ErrInvalidTokenEncoding, http.StatusUnauthorized, "invalid_token_encoding"},
		{"wrapped not found", apperrors.Wrap(apperrors.ErrNotFound, "document Task/TASK-0001"), http.StatusNotFound, "not_found"},
		{"unknown error", apperrors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, w := newTestContext(t)

	HandleErrorGin(c, nil, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestHandleErrorGin_TokenEncodingMessageIsSurfaced(t *testing.T) {
	c, w := newTestContext(t)

	HandleErrorGin(c, apperrors.ErrInvalidTokenEncoding, nil)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "base64")
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext(t)

	HandleBadRequestGin(c, apperrors.New("unparseable body"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext(t)

	HandleValidationErrorGin(c, apperrors.New("subject: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error)
	assert.Contains(t, body.Message, "subject")
}
