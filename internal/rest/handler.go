package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/docrest/internal/auth/domain"
	"github.com/allisson/docrest/internal/database"
	docDomain "github.com/allisson/docrest/internal/document/domain"
	docUseCase "github.com/allisson/docrest/internal/document/usecase"
	apperrors "github.com/allisson/docrest/internal/errors"
	"github.com/allisson/docrest/internal/httputil"
	"github.com/allisson/docrest/internal/method"
	"github.com/allisson/docrest/internal/modules"
)

// Handler dispatches parsed routes to document operations and whitelisted
// method invocations. Authentication has already run; the handler only
// performs the authorization checks exposed by the document layer.
type Handler struct {
	documents docUseCase.DocumentUseCase
	methods   *method.Registry
	modules   *modules.Resolver
	txManager database.TxManager
	logger    *slog.Logger
}

// NewHandler creates a new resource router handler.
func NewHandler(
	documents docUseCase.DocumentUseCase,
	methods *method.Registry,
	moduleResolver *modules.Resolver,
	txManager database.TxManager,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		documents: documents,
		methods:   methods,
		modules:   moduleResolver,
		txManager: txManager,
		logger:    logger,
	}
}

// Dispatch parses the request path and routes it to the matching operation.
// Unrecognized shapes fail with not-found.
func (h *Handler) Dispatch(c *gin.Context) {
	route := ParseRoute(c.Request.URL.Path)
	form := ParseRequestForm(c)

	switch route.Kind {
	case RouteMethod:
		h.handleMethod(c, route, form)
	case RouteResource:
		h.handleResource(c, route, form)
	default:
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "unrecognized route %s", c.Request.URL.Path), h.logger)
	}
}

// handleMethod invokes a whitelisted method by dotted path. Five-segment
// resource paths arrive here with SubMethod set: the dotted path is resolved
// through the module resolver and the document identifier is injected into
// the form so the handler can locate its document.
func (h *Handler) handleMethod(c *gin.Context, route Route, form *RequestForm) {
	ctx := c.Request.Context()

	name := route.Doctype
	if route.SubMethod != "" {
		meta, err := h.documents.ResolveDoctype(ctx, route.Doctype)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		name = h.modules.QualifiedName(meta, route.SubMethod)
		form.Set("name", route.Name)
	}

	m, err := h.methods.Get(name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	identity := authDomain.IdentityFromContext(ctx)
	if !m.AllowGuest && identity.IsGuest() {
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrUnauthorized, "method %s", name), h.logger)
		return
	}

	req := &method.Request{HTTPMethod: c.Request.Method, Args: form.Args()}

	var result any
	if m.IsWrite {
		err = h.txManager.WithTx(ctx, func(ctx context.Context) error {
			var handlerErr error
			result, handlerErr = m.Handler(ctx, req)
			return handlerErr
		})
	} else {
		result, err = m.Handler(ctx, req)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.HandleDataGin(c, http.StatusOK, result)
}

func (h *Handler) handleResource(c *gin.Context, route Route, form *RequestForm) {
	if route.Doctype == "" {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrNotFound, "missing doctype"), h.logger)
		return
	}

	if route.Name != "" {
		h.handleDocumentResource(c, route, form)
		return
	}

	switch c.Request.Method {
	case http.MethodGet:
		h.listDocs(c, route, form)
	case http.MethodPost:
		h.createDoc(c, route, form)
	default:
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", c.Request.Method, c.Request.URL.Path), h.logger)
	}
}

func (h *Handler) handleDocumentResource(c *gin.Context, route Route, form *RequestForm) {
	if runMethod := form.Pop("run_method"); runMethod != "" {
		h.runDocMethod(c, route, form, runMethod)
		return
	}

	switch c.Request.Method {
	case http.MethodGet:
		h.getDoc(c, route, form)
	case http.MethodPut:
		h.updateDoc(c, route, form)
	case http.MethodDelete:
		h.deleteDoc(c, route)
	default:
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", c.Request.Method, c.Request.URL.Path), h.logger)
	}
}

// runDocMethod executes a whitelisted instance method on a document. GET
// runs read-only; POST runs with write permission inside a transaction.
func (h *Handler) runDocMethod(c *gin.Context, route Route, form *RequestForm, runMethod string) {
	var allowWrite bool
	switch c.Request.Method {
	case http.MethodGet:
		allowWrite = false
	case http.MethodPost:
		allowWrite = true
	default:
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", c.Request.Method, c.Request.URL.Path), h.logger)
		return
	}

	out, err := h.documents.RunDocMethod(c.Request.Context(), docUseCase.RunDocMethodInput{
		Doctype:    route.Doctype,
		Name:       route.Name,
		Method:     runMethod,
		Args:       form.Args(),
		AllowWrite: allowWrite,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.HandleDataGin(c, http.StatusOK, out.Message)
}

// getDoc reads a single document. The response keeps the store's "name" key
// and adds "id" alongside it; list responses rename instead. Both shapes
// are load-bearing for existing clients.
func (h *Handler) getDoc(c *gin.Context, route Route, form *RequestForm) {
	doc, err := h.documents.Get(c.Request.Context(), route.Doctype, route.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	data := doc.AsMap(docDomain.AsMapOptions{NoDefaultFields: true})

	if form.Has("fields") {
		fields, err := ParseFields(form.Get("fields"))
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		projected := make(map[string]any, len(fields)+1)
		for _, field := range fields {
			projected[field] = data[field]
		}
		data = projected
	}

	data["id"] = doc.Name
	httputil.HandleDataGin(c, http.StatusOK, data)
}

func (h *Handler) updateDoc(c *gin.Context, route Route, form *RequestForm) {
	doc, err := h.documents.Update(c.Request.Context(), route.Doctype, route.Name, form.Body())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	data := doc.AsMap(docDomain.AsMapOptions{NoDefaultFields: true})
	data["id"] = doc.Name
	httputil.HandleDataGin(c, http.StatusOK, data)
}

// deleteDoc deletes a document. A missing identifier is a hard not-found,
// never a silent success.
func (h *Handler) deleteDoc(c *gin.Context, route Route) {
	if err := h.documents.Delete(c.Request.Context(), route.Doctype, route.Name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.HandleDataGin(c, http.StatusAccepted, "ok")
}

func (h *Handler) listDocs(c *gin.Context, route Route, form *RequestForm) {
	listQuery, err := form.ListQuery()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	rows, err := h.documents.List(c.Request.Context(), route.Doctype, listQuery)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	if !listQuery.AsDict {
		httputil.HandleDataGin(c, http.StatusOK, rowsAsValues(rows, listQuery.Fields))
		return
	}

	httputil.HandleDataGin(c, http.StatusOK, rows)
}

func (h *Handler) createDoc(c *gin.Context, route Route, form *RequestForm) {
	doc, err := h.documents.Create(c.Request.Context(), route.Doctype, form.Body())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	data := doc.AsMap(docDomain.AsMapOptions{NoDefaultFields: true})
	data["id"] = doc.Name
	httputil.HandleDataGin(c, http.StatusCreated, data)
}

// rowsAsValues converts dict rows to value tuples ordered by the projected
// fields, used when as_dict is false. The primary key appears under "id"
// after list renaming, so a requested "name" field reads from "id".
func rowsAsValues(rows []map[string]any, fields []string) [][]any {
	if len(fields) == 0 {
		fields = []string{"name"}
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		tuple := make([]any, 0, len(fields))
		for _, field := range fields {
			if field == "name" {
				field = "id"
			}
			tuple = append(tuple, row[field])
		}
		values = append(values, tuple)
	}
	return values
}
