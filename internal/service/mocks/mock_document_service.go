package mocks

import (
	"context"

	"docmanager/internal/model"
	"docmanager/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, in service.CreateDocumentInput) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentService) Move(ctx context.Context, ownerID, documentID, destParentID int64) error {
	args := m.Called(ctx, ownerID, documentID, destParentID)
	return args.Error(0)
}

func (m *MockDocumentService) Tree(ctx context.Context, ownerID int64) (*model.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) DirectoryTree(ctx context.Context, ownerID int64) (*model.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListFiles(ctx context.Context, ownerID, directoryID int64) ([]model.Document, error) {
	args := m.Called(ctx, ownerID, directoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
