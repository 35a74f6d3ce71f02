package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	docUseCase "github.com/allisson/docrest/internal/document/usecase"
)

// MockDocumentUseCase is a mock implementation of DocumentUseCase.
type MockDocumentUseCase struct {
	mock.Mock
}

// Get mocks the Get method of DocumentUseCase.
func (m *MockDocumentUseCase) Get(ctx context.Context, doctype, name string) (*docDomain.Document, error) {
	args := m.Called(ctx, doctype, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Document), args.Error(1)
}

// List mocks the List method of DocumentUseCase.
func (m *MockDocumentUseCase) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]map[string]any, error) {
	args := m.Called(ctx, doctype, listQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

// Create mocks the Create method of DocumentUseCase.
func (m *MockDocumentUseCase) Create(
	ctx context.Context,
	doctype string,
	data map[string]any,
) (*docDomain.Document, error) {
	args := m.Called(ctx, doctype, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Document), args.Error(1)
}

// Update mocks the Update method of DocumentUseCase.
func (m *MockDocumentUseCase) Update(
	ctx context.Context,
	doctype, name string,
	data map[string]any,
) (*docDomain.Document, error) {
	args := m.Called(ctx, doctype, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Document), args.Error(1)
}

// Delete mocks the Delete method of DocumentUseCase.
func (m *MockDocumentUseCase) Delete(ctx context.Context, doctype, name string) error {
	args := m.Called(ctx, doctype, name)
	return args.Error(0)
}

// RunDocMethod mocks the RunDocMethod method of DocumentUseCase.
func (m *MockDocumentUseCase) RunDocMethod(
	ctx context.Context,
	input docUseCase.RunDocMethodInput,
) (*docUseCase.RunDocMethodOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docUseCase.RunDocMethodOutput), args.Error(1)
}

// ResolveDoctype mocks the ResolveDoctype method of DocumentUseCase.
func (m *MockDocumentUseCase) ResolveDoctype(ctx context.Context, name string) (*docDomain.Doctype, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Doctype), args.Error(1)
}
