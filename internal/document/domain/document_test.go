package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_GetSet(t *testing.T) {
	doc := &Document{
		Doctype:    "Task Item",
		Name:       "ROW-0001",
		Owner:      "alice@example.com",
		Parent:     "TASK-0001",
		ParentType: "Task",
	}

	doc.Set("status", "Open")

	assert.Equal(t, "Open", doc.Get("status"))
	assert.Equal(t, "ROW-0001", doc.Get("name"))
	assert.Equal(t, "alice@example.com", doc.Get("owner"))
	assert.Equal(t, "TASK-0001", doc.Get("parent"))
	assert.Equal(t, "Task", doc.Get("parenttype"))
	assert.Nil(t, doc.Get("missing"))
}

func TestDocument_IsChildRow(t *testing.T) {
	assert.False(t, (&Document{}).IsChildRow())
	assert.False(t, (&Document{Parent: "TASK-0001"}).IsChildRow())
	assert.True(t, (&Document{Parent: "TASK-0001", ParentType: "Task"}).IsChildRow())
}

func TestDocument_ApplyUpdate(t *testing.T) {
	doc := &Document{Doctype: "Task", Name: "TASK-0001", Data: map[string]any{"status": "Open"}}

	doc.ApplyUpdate(map[string]any{
		"status":  "Closed",
		"flags":   map[string]any{"ignore_permissions": true},
		"doctype": "Hijacked",
		"name":    "TASK-9999",
	})

	assert.Equal(t, "Closed", doc.Get("status"))
	// Control fields never land in Data and never rewrite identity.
	assert.Equal(t, "TASK-0001", doc.Name)
	assert.Equal(t, "Task", doc.Doctype)
	assert.NotContains(t, doc.Data, "flags")
	assert.NotContains(t, doc.Data, "doctype")
}

func TestDocument_AsMap(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := &Document{
		Doctype:   "Task",
		Name:      "TASK-0001",
		Owner:     "alice@example.com",
		Data:      map[string]any{"subject": "Fix bug"},
		CreatedAt: created,
		UpdatedAt: created,
	}

	t.Run("default fields suppressed", func(t *testing.T) {
		out := doc.AsMap(AsMapOptions{NoDefaultFields: true})
		assert.Equal(t, "TASK-0001", out["name"])
		assert.Equal(t, "Fix bug", out["subject"])
		assert.NotContains(t, out, "owner")
		assert.NotContains(t, out, "creation")
	})

	t.Run("default fields included", func(t *testing.T) {
		out := doc.AsMap(AsMapOptions{})
		assert.Equal(t, "alice@example.com", out["owner"])
		assert.Equal(t, "2026-01-02T03:04:05Z", out["creation"])
	})

	t.Run("child rows carry parent linkage", func(t *testing.T) {
		child := &Document{Doctype: "Task Item", Name: "ROW-1", Parent: "TASK-0001", ParentType: "Task"}
		out := child.AsMap(AsMapOptions{NoDefaultFields: true})
		assert.Equal(t, "TASK-0001", out["parent"])
		assert.Equal(t, "Task", out["parenttype"])
	})
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("Task", map[string]any{
		"name":    "TASK-0042",
		"subject": "Fix bug",
		"doctype": "Task",
		"flags":   map[string]any{},
	})

	assert.True(t, doc.IsNew)
	assert.Equal(t, "Task", doc.Doctype)
	assert.Equal(t, "TASK-0042", doc.Name)
	assert.Equal(t, "Fix bug", doc.Get("subject"))
	assert.NotContains(t, doc.Data, "doctype")
	assert.NotContains(t, doc.Data, "flags")
}
