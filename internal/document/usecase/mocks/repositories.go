// Package mocks provides mock implementations for testing document use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	docDomain "github.com/allisson/docrest/internal/document/domain"
)

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

// Get mocks the Get method of DocumentRepository.
func (m *MockDocumentRepository) Get(ctx context.Context, doctype, name string) (*docDomain.Document, error) {
	args := m.Called(ctx, doctype, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Document), args.Error(1)
}

// List mocks the List method of DocumentRepository.
func (m *MockDocumentRepository) List(
	ctx context.Context,
	doctype string,
	listQuery docDomain.ListQuery,
) ([]*docDomain.Document, error) {
	args := m.Called(ctx, doctype, listQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*docDomain.Document), args.Error(1)
}

// Insert mocks the Insert method of DocumentRepository.
func (m *MockDocumentRepository) Insert(ctx context.Context, doc *docDomain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Update mocks the Update method of DocumentRepository.
func (m *MockDocumentRepository) Update(ctx context.Context, doc *docDomain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Delete mocks the Delete method of DocumentRepository.
func (m *MockDocumentRepository) Delete(ctx context.Context, doctype, name string) error {
	args := m.Called(ctx, doctype, name)
	return args.Error(0)
}

// MockDoctypeRepository is a mock implementation of DoctypeRepository.
type MockDoctypeRepository struct {
	mock.Mock
}

// Get mocks the Get method of DoctypeRepository.
func (m *MockDoctypeRepository) Get(ctx context.Context, name string) (*docDomain.Doctype, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docDomain.Doctype), args.Error(1)
}

// Create mocks the Create method of DoctypeRepository.
func (m *MockDoctypeRepository) Create(ctx context.Context, doctype *docDomain.Doctype) error {
	args := m.Called(ctx, doctype)
	return args.Error(0)
}
