// Package integration provides end-to-end tests for the REST dispatch
// surface against a real PostgreSQL database. Tests skip automatically when
// the test database is unreachable.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/docrest/internal/app"
	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
	"github.com/allisson/docrest/internal/config"
	"github.com/allisson/docrest/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	apiKey    string
	apiSecret string
}

// makeRequest performs an HTTP request and returns the response status and body.
func (tc *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	useAuth bool,
) (int, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, tc.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if useAuth {
		credentials := base64.StdEncoding.EncodeToString([]byte(tc.apiKey + ":" + tc.apiSecret))
		req.Header.Set("Authorization", "Basic "+credentials)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "request failed")
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	return resp.StatusCode, respBody
}

// decodeData unmarshals the "data" envelope of a response body.
func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope), "failed to decode response: %s", body)
	return envelope.Data
}

// setupIntegrationTest boots the full application against the test database
// and provisions an Administrator API key.
func setupIntegrationTest(t *testing.T) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := testutil.SetupPostgresDB(t)

	cfg := &config.Config{
		ServerHost:           "localhost",
		ServerPort:           0,
		DBDriver:             "postgres",
		DBConnectionString:   testutil.GetPostgresTestDSN(),
		DBMaxOpenConnections: 5,
		DBMaxIdleConnections: 2,
		DBConnMaxLifetime:    time.Minute,
		LogLevel:             "error",
		CacheDriver:          "memory",
		KeeperURI:            "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
		OAuthSigningKey:      "integration-signing-key",
		OAuthIssuer:          "docrest",
		ModuleApps:           "Core=docrest",
		MetricsEnabled:       false,
		MetricsNamespace:     "docrest",
	}

	container := app.NewContainer(cfg)
	container.SetVersion("integration")

	server, err := container.HTTPServer()
	require.NoError(t, err, "failed to initialize http server")

	testServer := httptest.NewServer(server.Router())

	t.Cleanup(func() {
		testServer.Close()
		testutil.CleanupPostgresDB(t, db)
		require.NoError(t, container.Shutdown(context.Background()))
		testutil.TeardownDB(t, db)
	})

	// Administrator bypasses role permission checks.
	apiKeyUseCase, err := container.APIKeyUseCase()
	require.NoError(t, err, "failed to initialize api key use case")

	keyOutput, err := apiKeyUseCase.Create(context.Background(), authUseCase.CreateAPIKeyInput{
		Doctype:    "User",
		RecordName: "Administrator",
	})
	require.NoError(t, err, "failed to provision api key")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		apiKey:    keyOutput.Key,
		apiSecret: keyOutput.Secret,
	}
}

func TestAPIIntegration(t *testing.T) {
	tc := setupIntegrationTest(t)

	testutil.CreateTestDoctype(t, tc.db, "postgres", "Task",
		`[{"role":"All","capabilities":["read","write","create","delete"]}]`)

	t.Run("ping without credentials", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodGet, "/api/method/ping", nil, false)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "pong", decodeData[string](t, body))
	})

	t.Run("version with credentials", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodGet, "/api/method/version", nil, true)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "integration", decodeData[string](t, body))
	})

	t.Run("guest cannot read documents", func(t *testing.T) {
		status, _ := tc.makeRequest(t, http.MethodGet, "/api/resource/Task", nil, false)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("malformed basic credentials are rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, tc.server.URL+"/api/resource/Task", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic not!base64")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, string(body), "invalid_token_encoding")
	})

	var taskID string

	t.Run("create document", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodPost, "/api/resource/Task",
			map[string]any{"subject": "Fix the bug", "status": "Open"}, true)
		require.Equal(t, http.StatusCreated, status, "body: %s", body)

		data := decodeData[map[string]any](t, body)
		taskID, _ = data["id"].(string)
		require.NotEmpty(t, taskID)
		assert.Equal(t, "Fix the bug", data["subject"])
	})

	t.Run("get document", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodGet, "/api/resource/Task/"+taskID, nil, true)
		require.Equal(t, http.StatusOK, status, "body: %s", body)

		data := decodeData[map[string]any](t, body)
		assert.Equal(t, taskID, data["id"])
		assert.Equal(t, taskID, data["name"])
		assert.Equal(t, "Fix the bug", data["subject"])
	})

	t.Run("update document", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodPut, "/api/resource/Task/"+taskID,
			map[string]any{"status": "Closed"}, true)
		require.Equal(t, http.StatusOK, status, "body: %s", body)

		data := decodeData[map[string]any](t, body)
		assert.Equal(t, "Closed", data["status"])
		assert.Equal(t, "Fix the bug", data["subject"])
	})

	t.Run("list documents with fields", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodGet,
			"/api/resource/Task?fields="+url.QueryEscape(`["name","status"]`), nil, true)
		require.Equal(t, http.StatusOK, status, "body: %s", body)

		rows := decodeData[[]map[string]any](t, body)
		require.Len(t, rows, 1)
		assert.Equal(t, taskID, rows[0]["id"])
		assert.Equal(t, "Closed", rows[0]["status"])
		_, hasName := rows[0]["name"]
		assert.False(t, hasName, "list rows expose the key as id, not name")
	})

	t.Run("list documents with filters", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodGet,
			"/api/resource/Task?filters="+url.QueryEscape(`[["status","=","Open"]]`), nil, true)
		require.Equal(t, http.StatusOK, status, "body: %s", body)

		rows := decodeData[[]map[string]any](t, body)
		assert.Empty(t, rows)
	})

	t.Run("delete document", func(t *testing.T) {
		status, body := tc.makeRequest(t, http.MethodDelete, "/api/resource/Task/"+taskID, nil, true)
		require.Equal(t, http.StatusAccepted, status, "body: %s", body)
		assert.Equal(t, "ok", decodeData[string](t, body))
	})

	t.Run("delete missing document", func(t *testing.T) {
		status, _ := tc.makeRequest(t, http.MethodDelete, "/api/resource/Task/"+taskID, nil, true)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("login with password", func(t *testing.T) {
		passwordService, err := tc.container.PasswordService()
		require.NoError(t, err)
		hash, err := passwordService.Hash("s3cret-pass")
		require.NoError(t, err)

		userData, err := json.Marshal(map[string]any{
			"full_name":     "Alice Example",
			"password_hash": hash,
		})
		require.NoError(t, err)
		testutil.CreateTestDoctype(t, tc.db, "postgres", "User", "")
		testutil.CreateTestDocument(t, tc.db, "postgres", "User", "alice@example.com", string(userData))

		status, body := tc.makeRequest(t, http.MethodPost, "/api/method/login",
			map[string]any{"usr": "alice@example.com", "pwd": "s3cret-pass"}, false)
		require.Equal(t, http.StatusOK, status, "body: %s", body)

		data := decodeData[map[string]any](t, body)
		assert.Equal(t, "Logged In", data["message"])
		assert.Equal(t, "Alice Example", data["full_name"])

		status, _ = tc.makeRequest(t, http.MethodPost, "/api/method/login",
			map[string]any{"usr": "alice@example.com", "pwd": "wrong"}, false)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("health endpoints", func(t *testing.T) {
		for _, path := range []string{"/health", "/ready"} {
			status, _ := tc.makeRequest(t, http.MethodGet, path, nil, false)
			assert.Equal(t, http.StatusOK, status, fmt.Sprintf("path %s", path))
		}
	})
}
