package method

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("registered method resolves and runs", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&Method{
			Name: "myapp.tasks.summary",
			Handler: func(_ context.Context, req *Request) (any, error) {
				return "summary for " + req.Arg("project"), nil
			},
		})

		m, err := registry.Get("myapp.tasks.summary")
		require.NoError(t, err)

		out, err := m.Handler(ctx, &Request{Args: map[string]any{"project": "P-1"}})
		require.NoError(t, err)
		assert.Equal(t, "summary for P-1", out)
	})

	t.Run("unregistered path fails closed", func(t *testing.T) {
		registry := NewRegistry()

		_, err := registry.Get("os.system")
		assert.ErrorIs(t, err, ErrMethodNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("re-registration replaces the handler", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&Method{
			Name:    "report",
			Handler: func(_ context.Context, _ *Request) (any, error) { return "v1", nil },
		})
		registry.Register(&Method{
			Name:    "report",
			Handler: func(_ context.Context, _ *Request) (any, error) { return "v2", nil },
		})

		m, err := registry.Get("report")
		require.NoError(t, err)
		out, _ := m.Handler(ctx, &Request{})
		assert.Equal(t, "v2", out)
	})
}

func TestRegisterBuiltins(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	RegisterBuiltins(registry, "1.2.3")

	ping, err := registry.Get(PingMethod)
	require.NoError(t, err)
	assert.True(t, ping.AllowGuest)
	out, err := ping.Handler(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)

	version, err := registry.Get(VersionMethod)
	require.NoError(t, err)
	out, err = version.Handler(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", out)
}

func TestDocRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("doc method resolves", func(t *testing.T) {
		registry := NewDocRegistry()
		registry.Register("Task", "close", func(_ context.Context, doc *docDomain.Document, _ *Request) (any, error) {
			doc.Set("status", "Closed")
			return nil, nil
		})

		fn, err := registry.Get("Task", "close")
		require.NoError(t, err)

		doc := &docDomain.Document{Doctype: "Task", Name: "TASK-0001", Data: map[string]any{}}
		_, err = fn(ctx, doc, &Request{})
		require.NoError(t, err)
		assert.Equal(t, "Closed", doc.Get("status"))
	})

	t.Run("missing doc method fails closed", func(t *testing.T) {
		registry := NewDocRegistry()

		_, err := registry.Get("Task", "close")
		assert.ErrorIs(t, err, ErrMethodNotFound)
	})

	t.Run("create hooks run in order and stop on error", func(t *testing.T) {
		registry := NewDocRegistry()
		var calls []string
		registry.RegisterCreateHook("Task", func(_ context.Context, _ *docDomain.Document) error {
			calls = append(calls, "first")
			return nil
		})
		registry.RegisterCreateHook("Task", func(_ context.Context, _ *docDomain.Document) error {
			calls = append(calls, "second")
			return docDomain.ErrDocumentExists
		})
		registry.RegisterCreateHook("Task", func(_ context.Context, _ *docDomain.Document) error {
			calls = append(calls, "third")
			return nil
		})

		err := registry.RunCreateHooks(ctx, &docDomain.Document{Doctype: "Task"})
		assert.ErrorIs(t, err, docDomain.ErrDocumentExists)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("hooks for other doctypes do not run", func(t *testing.T) {
		registry := NewDocRegistry()
		registry.RegisterCreateHook("Task", func(_ context.Context, _ *docDomain.Document) error {
			return docDomain.ErrDocumentExists
		})

		assert.NoError(t, registry.RunCreateHooks(ctx, &docDomain.Document{Doctype: "Note"}))
	})
}
