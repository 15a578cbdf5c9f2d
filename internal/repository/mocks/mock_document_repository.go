package mocks

import (
	"context"

	"docmanager/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) documents(args mock.Arguments) ([]model.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOwner(ctx context.Context, ownerID int64) ([]model.Document, error) {
	return m.documents(m.Called(ctx, ownerID))
}

func (m *MockDocumentRepository) FindDirectoriesByOwner(ctx context.Context, ownerID int64) ([]model.Document, error) {
	return m.documents(m.Called(ctx, ownerID))
}

func (m *MockDocumentRepository) FindByOwnerAndParent(ctx context.Context, ownerID, parentID int64) ([]model.Document, error) {
	return m.documents(m.Called(ctx, ownerID, parentID))
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) IsDirectory(ctx context.Context, ownerID, id int64) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Insert(ctx context.Context, doc *model.Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) UpdateParent(ctx context.Context, ownerID, id, newParentID int64) (int64, error) {
	args := m.Called(ctx, ownerID, id, newParentID)
	return args.Get(0).(int64), args.Error(1)
}
