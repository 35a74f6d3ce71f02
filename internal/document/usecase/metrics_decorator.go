package usecase

import (
	"context"
	"time"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	"github.com/allisson/docrest/internal/metrics"
)

// documentUseCaseWithMetrics decorates DocumentUseCase with metrics
// instrumentation.
type documentUseCaseWithMetrics struct {
	next    DocumentUseCase
	metrics metrics.BusinessMetrics
}

// NewDocumentUseCaseWithMetrics wraps a DocumentUseCase with metrics recording.
func NewDocumentUseCaseWithMetrics(useCase DocumentUseCase, m metrics.BusinessMetrics) DocumentUseCase {
	return &documentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *documentUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "documents", operation, status)
	d.metrics.RecordDuration(ctx, "documents", operation, time.Since(start), status)
}

// Get records metrics for single-document reads.
func (d *documentUseCaseWithMetrics) Get(ctx context.Context, doctype, name string) (*docDomain.Document, error) {
	start := time.Now()
	doc, err := d.next.Get(ctx, doctype, name)
	d.record(ctx, "document_get", start, err)
	return doc, err
}

// List records metrics for list queries.
func (d *documentUseCaseWithMetrics) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]map[string]any, error) {
	start := time.Now()
	rows, err := d.next.List(ctx, doctype, listQuery)
	d.record(ctx, "document_list", start, err)
	return rows, err
}

// Create records metrics for document creation.
func (d *documentUseCaseWithMetrics) Create(
	ctx context.Context,
	doctype string,
	data map[string]any,
) (*docDomain.Document, error) {
	start := time.Now()
	doc, err := d.next.Create(ctx, doctype, data)
	d.record(ctx, "document_create", start, err)
	return doc, err
}

// Update records metrics for document updates.
func (d *documentUseCaseWithMetrics) Update(
	ctx context.Context,
	doctype, name string,
	data map[string]any,
) (*docDomain.Document, error) {
	start := time.Now()
	doc, err := d.next.Update(ctx, doctype, name, data)
	d.record(ctx, "document_update", start, err)
	return doc, err
}

// Delete records metrics for document deletion.
func (d *documentUseCaseWithMetrics) Delete(ctx context.Context, doctype, name string) error {
	start := time.Now()
	err := d.next.Delete(ctx, doctype, name)
	d.record(ctx, "document_delete", start, err)
	return err
}

// RunDocMethod records metrics for whitelisted document method execution.
func (d *documentUseCaseWithMetrics) RunDocMethod(
	ctx context.Context,
	input RunDocMethodInput,
) (*RunDocMethodOutput, error) {
	start := time.Now()
	out, err := d.next.RunDocMethod(ctx, input)
	d.record(ctx, "document_run_method", start, err)
	return out, err
}

// ResolveDoctype passes through without recording; it is an internal lookup,
// not a client-visible operation.
func (d *documentUseCaseWithMetrics) ResolveDoctype(ctx context.Context, name string) (*docDomain.Doctype, error) {
	return d.next.ResolveDoctype(ctx, name)
}
