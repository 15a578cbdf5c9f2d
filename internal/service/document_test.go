package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"docmanager/internal/logger"
	"docmanager/internal/model"
	repoMocks "docmanager/internal/repository/mocks"
	"docmanager/internal/tree"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDocumentService(mRepo *repoMocks.MockDocumentRepository) *documentService {
	svc := NewDocumentService(mRepo, logger.Nop(), nil).(*documentService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) }
	return svc
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		in         CreateDocumentInput
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantID     int64
		wantErr    error
		wantFields []string
	}{
		{
			name: "top-level directory",
			in:   CreateDocumentInput{OwnerID: 5, Name: "A", Kind: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Insert", ctx, &model.Document{
					OwnerID:   5,
					Name:      "A",
					Type:      model.TypeDir,
					CreatedAt: today,
				}).Return(int64(1), nil)
			},
			wantID: 1,
		},
		{
			name: "file inside a directory",
			in: CreateDocumentInput{
				OwnerID:     5,
				ParentID:    1,
				Name:        "c.txt",
				Kind:        "file",
				Extension:   " .TXT ",
				Description: " notes ",
				CreatedAt:   time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
				mRepo.On("Insert", ctx, mock.MatchedBy(func(d *model.Document) bool {
					return d.ParentID == 1 && d.Type == ".TXT" && d.Description == "notes" && d.CreatedAt.Year() == 2023
				})).Return(int64(3), nil)
			},
			wantID: 3,
		},
		{
			name:       "directory with description",
			in:         CreateDocumentInput{OwnerID: 5, Name: "A", Kind: "dir", Description: "not allowed"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"description"},
		},
		{
			name:       "top-level file",
			in:         CreateDocumentInput{OwnerID: 5, Name: "c.txt", Kind: "file", Extension: "txt"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"parent_id"},
		},
		{
			name:       "every violation is reported",
			in:         CreateDocumentInput{OwnerID: 5, Kind: "file", Extension: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"name", "parent_id", "extension"},
		},
		{
			name:       "blank name",
			in:         CreateDocumentInput{OwnerID: 5, Name: "   ", Kind: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"name"},
		},
		{
			name:       "kind is matched exactly",
			in:         CreateDocumentInput{OwnerID: 5, Name: "A", Kind: "DIR"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"kind"},
		},
		{
			name:       "unknown kind",
			in:         CreateDocumentInput{OwnerID: 5, ParentID: 1, Name: "x", Kind: "link"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
			wantFields: []string{"kind"},
		},
		{
			name: "parent does not exist",
			in:   CreateDocumentInput{OwnerID: 5, ParentID: 99, Name: "c.txt", Kind: "file", Extension: "txt"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(99)).Return(false, nil)
			},
			wantErr: ErrInvalidParent,
		},
		{
			name: "parent removed before insert",
			in:   CreateDocumentInput{OwnerID: 5, ParentID: 1, Name: "B", Kind: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
				mRepo.On("Insert", ctx, mock.Anything).Return(int64(0), sql.ErrNoRows)
			},
			wantErr: ErrInvalidParent,
		},
		{
			name: "parent check fails",
			in:   CreateDocumentInput{OwnerID: 5, ParentID: 1, Name: "B", Kind: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(false, errors.New("conn reset"))
			},
			wantErr: ErrStore,
		},
		{
			name: "insert fails",
			in:   CreateDocumentInput{OwnerID: 5, Name: "A", Kind: "dir"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Insert", ctx, mock.Anything).Return(int64(0), errors.New("disk full"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newTestDocumentService(mRepo)
			tt.setupMocks(mRepo)

			id, err := svc.Create(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, id)
				if tt.wantFields != nil {
					assert.Equal(t, tt.wantFields, violationFields(t, err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			mRepo.AssertExpectations(t)
			if errors.Is(tt.wantErr, ErrValidation) {
				mRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDocumentService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newTestDocumentService(mRepo)

	var stored *model.Document
	mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
	mRepo.On("Insert", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			d := *args.Get(1).(*model.Document)
			d.ID = 7
			stored = &d
		}).
		Return(int64(7), nil)

	id, err := svc.Create(ctx, CreateDocumentInput{
		OwnerID:     5,
		ParentID:    1,
		Name:        "  report ",
		Kind:        "file",
		Extension:   ".PDF",
		Description: "Q1 numbers",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	mRepo.On("FindByID", ctx, int64(5), id).Return(stored, nil)

	got, err := svc.Get(ctx, 5, id)

	require.NoError(t, err)
	assert.Equal(t, "  report ", got.Name)
	assert.Equal(t, ".PDF", got.Type)
	assert.Equal(t, "Q1 numbers", got.Description)
	assert.Equal(t, int64(1), got.ParentID)
	mRepo.AssertExpectations(t)
}

func TestDocumentService_Move(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		documentID int64
		destID     int64
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:       "file into a directory",
			documentID: 3,
			destID:     1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
				mRepo.On("UpdateParent", ctx, int64(5), int64(3), int64(1)).Return(int64(1), nil)
			},
		},
		{
			name:       "to the top level skips the destination check",
			documentID: 3,
			destID:     0,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("UpdateParent", ctx, int64(5), int64(3), int64(0)).Return(int64(1), nil)
			},
		},
		{
			name:       "destination is not a directory of the owner",
			documentID: 3,
			destID:     4,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(4)).Return(false, nil)
			},
			wantErr: ErrInvalidDestination,
		},
		{
			name:       "directories cannot be moved",
			documentID: 2,
			destID:     1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
				mRepo.On("UpdateParent", ctx, int64(5), int64(2), int64(1)).Return(int64(0), nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "destination check fails",
			documentID: 3,
			destID:     1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(false, errors.New("timeout"))
			},
			wantErr: ErrStore,
		},
		{
			name:       "update fails",
			documentID: 3,
			destID:     1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
				mRepo.On("UpdateParent", ctx, int64(5), int64(3), int64(1)).Return(int64(0), errors.New("deadlock"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newTestDocumentService(mRepo)
			tt.setupMocks(mRepo)

			err := svc.Move(ctx, 5, tt.documentID, tt.destID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
			if tt.wantErr == ErrInvalidDestination {
				mRepo.AssertNotCalled(t, "UpdateParent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDocumentService_MoveThenGet(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newTestDocumentService(mRepo)

	mRepo.On("IsDirectory", ctx, int64(5), int64(1)).Return(true, nil)
	mRepo.On("UpdateParent", ctx, int64(5), int64(3), int64(1)).Return(int64(1), nil)
	mRepo.On("FindByID", ctx, int64(5), int64(3)).
		Return(&model.Document{ID: 3, ParentID: 1, OwnerID: 5, Name: "c.txt", Type: "txt", ParentName: "A"}, nil)

	require.NoError(t, svc.Move(ctx, 5, 3, 1))
	doc, err := svc.Get(ctx, 5, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ParentID)
	mRepo.AssertExpectations(t)
}

func TestDocumentService_Tree(t *testing.T) {
	ctx := context.Background()

	t.Run("builds nested tree", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mRepo)
		mRepo.On("FindByOwner", ctx, int64(5)).Return([]model.Document{
			{ID: 1, ParentID: 0, OwnerID: 5, Type: model.TypeDir, Name: "A"},
			{ID: 2, ParentID: 1, OwnerID: 5, Type: model.TypeDir, Name: "B"},
			{ID: 3, ParentID: 2, OwnerID: 5, Type: "txt", Name: "c.txt"},
		}, nil)

		root, err := svc.Tree(ctx, 5)

		require.NoError(t, err)
		assert.Zero(t, root.ID)
		assert.Equal(t, 3, tree.Depth(root))
		mRepo.AssertExpectations(t)
	})

	t.Run("dangling parent is logged and counted", func(t *testing.T) {
		var buf bytes.Buffer
		reg := prometheus.NewRegistry()
		metrics, err := NewMetrics(reg)
		require.NoError(t, err)

		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, logger.New(&buf, time.UTC), metrics)
		mRepo.On("FindByOwner", ctx, int64(5)).Return([]model.Document{
			{ID: 1, ParentID: 0, Type: model.TypeDir},
			{ID: 2, ParentID: 42, Type: "txt"},
		}, nil)

		root, err := svc.Tree(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, 1, tree.Count(root))
		assert.Contains(t, buf.String(), `"event":"tree_dangling_parent"`)
		assert.Contains(t, buf.String(), `"parent_id":42`)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.treeDropped))
	})

	t.Run("store failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mRepo)
		mRepo.On("FindByOwner", ctx, int64(5)).Return(nil, errors.New("conn reset"))

		root, err := svc.Tree(ctx, 5)

		assert.ErrorIs(t, err, ErrStore)
		assert.Contains(t, err.Error(), "conn reset")
		assert.Nil(t, root)
	})
}

func TestDocumentService_DirectoryTree(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newTestDocumentService(mRepo)
	mRepo.On("FindDirectoriesByOwner", ctx, int64(5)).Return([]model.Document{
		{ID: 1, ParentID: 0, Type: model.TypeDir, Name: "A"},
		{ID: 2, ParentID: 1, Type: model.TypeDir, Name: "B"},
		{ID: 6, ParentID: 0, Type: model.TypeDir, Name: "C"},
	}, nil)

	root, err := svc.DirectoryTree(ctx, 5)

	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "A", root.Children[0].Name)
	assert.Equal(t, "C", root.Children[1].Name)
	assert.Equal(t, 2, tree.Depth(root))
	mRepo.AssertExpectations(t)
}

func TestDocumentService_ListFiles(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantLen    int
		wantErr    error
	}{
		{
			name: "files of a directory",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndParent", ctx, int64(5), int64(2)).Return([]model.Document{
					{ID: 3, ParentID: 2, Type: "txt", ParentName: "B"},
				}, nil)
			},
			wantLen: 1,
		},
		{
			name: "empty directory",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndParent", ctx, int64(5), int64(2)).Return([]model.Document{}, nil)
				mRepo.On("IsDirectory", ctx, int64(5), int64(2)).Return(true, nil)
			},
			wantLen: 0,
		},
		{
			name: "not a directory of the owner",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndParent", ctx, int64(5), int64(2)).Return([]model.Document{}, nil)
				mRepo.On("IsDirectory", ctx, int64(5), int64(2)).Return(false, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "store failure",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByOwnerAndParent", ctx, int64(5), int64(2)).Return(nil, errors.New("conn reset"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newTestDocumentService(mRepo)
			tt.setupMocks(mRepo)

			files, err := svc.ListFiles(ctx, 5, 2)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, files)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, files)
				assert.Len(t, files, tt.wantLen)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(5), int64(3)).Return(&model.Document{ID: 3}, nil)
			},
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(5), int64(3)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "store failure is not a miss",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(5), int64(3)).Return(nil, errors.New("db fail"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := newTestDocumentService(mRepo)
			tt.setupMocks(mRepo)

			doc, err := svc.Get(ctx, 5, 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(3), doc.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_CreateCountsKinds(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(mRepo, logger.Nop(), metrics)
	mRepo.On("Insert", ctx, mock.Anything).Return(int64(1), nil)

	_, err = svc.Create(ctx, CreateDocumentInput{OwnerID: 5, Name: "A", Kind: "dir"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.documentsCreated.WithLabelValues("dir")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.documentsCreated.WithLabelValues("file")))
}
