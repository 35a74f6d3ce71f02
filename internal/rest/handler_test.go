package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	dbMocks "github.com/allisson/docrest/internal/database/mocks"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	docUseCase "github.com/allisson/docrest/internal/document/usecase"
	docMocks "github.com/allisson/docrest/internal/document/usecase/mocks"
	apperrors "github.com/allisson/docrest/internal/errors"
	"github.com/allisson/docrest/internal/method"
	"github.com/allisson/docrest/internal/modules"
)

type handlerFixture struct {
	documents *docMocks.MockDocumentUseCase
	methods   *method.Registry
	txManager *dbMocks.MockTxManager
	router    *gin.Engine
}

func newHandlerFixture(user string) *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		documents: &docMocks.MockDocumentUseCase{},
		methods:   method.NewRegistry(),
		txManager: &dbMocks.MockTxManager{},
	}

	handler := NewHandler(
		f.documents,
		f.methods,
		modules.NewResolver(map[string]string{"Selling": "erp"}),
		f.txManager,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	f.router = gin.New()
	if user != "" {
		f.router.Use(func(c *gin.Context) {
			ctx := authDomain.WithIdentity(c.Request.Context(), authDomain.Identity{
				User:     user,
				AuthType: authDomain.AuthTypeAPIKey,
			})
			c.Request = c.Request.WithContext(ctx)
		})
	}
	f.router.Any("/api/*path", handler.Dispatch)
	return f
}

func (f *handlerFixture) do(httpMethod, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(httpMethod, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) any {
	t.Helper()
	var envelope struct {
		Data any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func taskDoc(name string) *docDomain.Document {
	return &docDomain.Document{
		Doctype:   "Task",
		Name:      name,
		Owner:     "alice@example.com",
		Data:      map[string]any{"subject": "Fix bug", "status": "Open"},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandlerGetDoc(t *testing.T) {
	t.Run("response keeps name and adds id", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Get", mock.Anything, "Task", "TASK-0001").Return(taskDoc("TASK-0001"), nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task/TASK-0001", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		data := decodeData(t, recorder).(map[string]any)
		assert.Equal(t, "TASK-0001", data["name"])
		assert.Equal(t, "TASK-0001", data["id"])
		assert.Equal(t, "Fix bug", data["subject"])
		assert.NotContains(t, data, "owner")
	})

	t.Run("field projection yields exactly the requested fields plus name and id", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Get", mock.Anything, "Task", "TASK-0001").Return(taskDoc("TASK-0001"), nil)

		recorder := f.do(http.MethodGet, `/api/resource/Task/TASK-0001?fields=["subject"]`, "")

		require.Equal(t, http.StatusOK, recorder.Code)
		data := decodeData(t, recorder).(map[string]any)
		assert.Equal(t, map[string]any{
			"subject": "Fix bug",
			"name":    "TASK-0001",
			"id":      "TASK-0001",
		}, data)
	})

	t.Run("repeated reads are byte-identical", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Get", mock.Anything, "Task", "TASK-0001").Return(taskDoc("TASK-0001"), nil)

		first := f.do(http.MethodGet, "/api/resource/Task/TASK-0001", "")
		second := f.do(http.MethodGet, "/api/resource/Task/TASK-0001", "")

		assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	})

	t.Run("lower-kebab doctype segment", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		doc := taskDoc("SO-0001")
		doc.Doctype = "Sales Order"
		f.documents.On("Get", mock.Anything, "Sales Order", "SO-0001").Return(doc, nil)

		recorder := f.do(http.MethodGet, "/api/resource/sales-order/SO-0001", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing document", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Get", mock.Anything, "Task", "nope").
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "document not found"))

		recorder := f.do(http.MethodGet, "/api/resource/Task/nope", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHandlerListDocs(t *testing.T) {
	t.Run("rows pass through under data", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		rows := []map[string]any{{"id": "TASK-0001"}, {"id": "TASK-0002"}}
		f.documents.On("List", mock.Anything, "Task", mock.Anything).Return(rows, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		data := decodeData(t, recorder).([]any)
		require.Len(t, data, 2)
		first := data[0].(map[string]any)
		assert.Equal(t, "TASK-0001", first["id"])
		assert.NotContains(t, first, "name")
	})

	t.Run("pagination defaults to twenty", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("List", mock.Anything, "Task", mock.MatchedBy(func(q docDomain.ListQuery) bool {
			return q.LimitPageLength == docDomain.DefaultPageLength
		})).Return([]map[string]any{}, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.documents.AssertExpectations(t)
	})

	t.Run("limit parameter feeds the page length", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("List", mock.Anything, "Task", mock.MatchedBy(func(q docDomain.ListQuery) bool {
			return q.LimitPageLength == 5
		})).Return([]map[string]any{}, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task?limit=5", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.documents.AssertExpectations(t)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("List", mock.Anything, "Task", mock.Anything).Return(nil, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"data": []}`, recorder.Body.String())
	})

	t.Run("as_dict false returns value tuples", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		rows := []map[string]any{{"id": "TASK-0001", "subject": "Fix bug"}}
		f.documents.On("List", mock.Anything, "Task", mock.Anything).Return(rows, nil)

		recorder := f.do(http.MethodGet, `/api/resource/Task?fields=["subject"]&as_dict=0`, "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"data": [["Fix bug", "TASK-0001"]]}`, recorder.Body.String())
	})

	t.Run("malformed filters", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")

		recorder := f.do(http.MethodGet, `/api/resource/Task?filters=[["status"]]`, "")

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestHandlerCreateDoc(t *testing.T) {
	t.Run("created document returns 201 with id", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		created := taskDoc("TASK-0003")
		f.documents.On("Create", mock.Anything, "Task", map[string]any{"subject": "Fix bug"}).
			Return(created, nil)

		recorder := f.do(http.MethodPost, "/api/resource/Task", `{"subject":"Fix bug"}`)

		require.Equal(t, http.StatusCreated, recorder.Code)
		data := decodeData(t, recorder).(map[string]any)
		assert.Equal(t, "TASK-0003", data["id"])
	})

	t.Run("conflict from the existence hook", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Create", mock.Anything, "Task", mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrConflict, "document already exists"))

		recorder := f.do(http.MethodPost, "/api/resource/Task", `{"subject":"Fix bug"}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestHandlerUpdateDoc(t *testing.T) {
	f := newHandlerFixture("alice@example.com")
	updated := taskDoc("TASK-0001")
	updated.Data["status"] = "Closed"
	f.documents.On("Update", mock.Anything, "Task", "TASK-0001", map[string]any{"status": "Closed"}).
		Return(updated, nil)

	recorder := f.do(http.MethodPut, "/api/resource/Task/TASK-0001", `{"status":"Closed"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder).(map[string]any)
	assert.Equal(t, "TASK-0001", data["id"])
	assert.Equal(t, "Closed", data["status"])
}

func TestHandlerDeleteDoc(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Delete", mock.Anything, "Task", "TASK-0001").Return(nil)

		recorder := f.do(http.MethodDelete, "/api/resource/Task/TASK-0001", "")

		assert.Equal(t, http.StatusAccepted, recorder.Code)
		assert.JSONEq(t, `{"data": "ok"}`, recorder.Body.String())
	})

	t.Run("missing document is a hard error", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("Delete", mock.Anything, "Task", "nope").
			Return(apperrors.Wrap(apperrors.ErrNotFound, "document not found"))

		recorder := f.do(http.MethodDelete, "/api/resource/Task/nope", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHandlerRunDocMethod(t *testing.T) {
	t.Run("get runs read-only", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("RunDocMethod", mock.Anything, mock.MatchedBy(func(input docUseCase.RunDocMethodInput) bool {
			return input.Doctype == "Task" && input.Name == "TASK-0001" &&
				input.Method == "progress" && !input.AllowWrite
		})).Return(&docUseCase.RunDocMethodOutput{Message: "50%"}, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task/TASK-0001?run_method=progress", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"data": "50%"}`, recorder.Body.String())
	})

	t.Run("post allows writes", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("RunDocMethod", mock.Anything, mock.MatchedBy(func(input docUseCase.RunDocMethodInput) bool {
			return input.Method == "close" && input.AllowWrite
		})).Return(&docUseCase.RunDocMethodOutput{Message: nil}, nil)

		recorder := f.do(http.MethodPost, "/api/resource/Task/TASK-0001?run_method=close", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("run_method does not leak into arguments", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("RunDocMethod", mock.Anything, mock.MatchedBy(func(input docUseCase.RunDocMethodInput) bool {
			_, leaked := input.Args["run_method"]
			return !leaked && input.Args["note"] == "done"
		})).Return(&docUseCase.RunDocMethodOutput{}, nil)

		recorder := f.do(http.MethodGet, "/api/resource/Task/TASK-0001?run_method=close&note=done", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.documents.AssertExpectations(t)
	})
}

func TestHandlerMethodCall(t *testing.T) {
	t.Run("registered method resolves", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.methods.Register(&method.Method{
			Name: "docrest.utils.echo",
			Handler: func(_ context.Context, req *method.Request) (any, error) {
				return req.Arg("text"), nil
			},
		})

		recorder := f.do(http.MethodGet, "/api/method/docrest.utils.echo?text=hello", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"data": "hello"}`, recorder.Body.String())
	})

	t.Run("unregistered method fails closed", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")

		recorder := f.do(http.MethodGet, "/api/method/os.system", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("guest cannot call protected methods", func(t *testing.T) {
		f := newHandlerFixture("")
		f.methods.Register(&method.Method{
			Name:    "docrest.utils.echo",
			Handler: func(context.Context, *method.Request) (any, error) { return nil, nil },
		})

		recorder := f.do(http.MethodGet, "/api/method/docrest.utils.echo", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("guest can call allow-guest methods", func(t *testing.T) {
		f := newHandlerFixture("")
		f.methods.Register(&method.Method{
			Name:       "ping",
			AllowGuest: true,
			Handler:    func(context.Context, *method.Request) (any, error) { return "pong", nil },
		})

		recorder := f.do(http.MethodGet, "/api/method/ping", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"data": "pong"}`, recorder.Body.String())
	})

	t.Run("write method runs inside a transaction", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

		var ran bool
		f.methods.Register(&method.Method{
			Name:    "docrest.utils.reindex",
			IsWrite: true,
			Handler: func(context.Context, *method.Request) (any, error) {
				ran = true
				return "ok", nil
			},
		})

		recorder := f.do(http.MethodPost, "/api/method/docrest.utils.reindex", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, ran)
		f.txManager.AssertExpectations(t)
	})

	t.Run("sub-method path resolves the qualified name", func(t *testing.T) {
		f := newHandlerFixture("alice@example.com")
		f.documents.On("ResolveDoctype", mock.Anything, "Sales Order").
			Return(&docDomain.Doctype{Name: "Sales Order", Module: "Selling"}, nil)

		var gotName string
		f.methods.Register(&method.Method{
			Name: "erp.selling.sales_order.submit",
			Handler: func(_ context.Context, req *method.Request) (any, error) {
				gotName = req.Arg("name")
				return "submitted", nil
			},
		})

		recorder := f.do(http.MethodGet, "/api/resource/sales-order/SO-0001/submit", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "SO-0001", gotName)
		assert.JSONEq(t, `{"data": "submitted"}`, recorder.Body.String())
	})
}

func TestHandlerUnrecognizedRoute(t *testing.T) {
	f := newHandlerFixture("alice@example.com")

	recorder := f.do(http.MethodGet, "/api/bogus/Task", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
