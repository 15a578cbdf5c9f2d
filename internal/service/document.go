package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"docmanager/internal/logger"
	"docmanager/internal/model"
	"docmanager/internal/repository"
	"docmanager/internal/tree"
)

// Kinds accepted by Create. A file is stored with its extension as type.
const (
	KindDir  = "dir"
	KindFile = "file"
)

// CreateDocumentInput is the form behind a new directory or file.
type CreateDocumentInput struct {
	OwnerID     int64
	ParentID    int64
	Name        string `validate:"required,max=255"`
	Kind        string `validate:"required,oneof=dir file"`
	Extension   string `validate:"max=32"`
	Description string `validate:"max=2000"`
	CreatedAt   time.Time
}

// DocumentService defines the use cases for a user's document hierarchy.
// Every call is scoped to ownerID; documents of other owners behave as missing.
type DocumentService interface {
	// Create validates the input, checks the parent and stores the document.
	Create(ctx context.Context, in CreateDocumentInput) (int64, error)

	// Move reparents a file under destParentID; 0 moves it to the top level.
	Move(ctx context.Context, ownerID, documentID, destParentID int64) error

	// Tree returns every document of the owner under a synthetic root.
	Tree(ctx context.Context, ownerID int64) (*model.Document, error)

	// DirectoryTree is Tree restricted to directories.
	DirectoryTree(ctx context.Context, ownerID int64) (*model.Document, error)

	// ListFiles returns the files directly inside a directory.
	ListFiles(ctx context.Context, ownerID, directoryID int64) ([]model.Document, error)

	// Get returns one document with its parent's name filled in.
	Get(ctx context.Context, ownerID, id int64) (*model.Document, error)
}

type documentService struct {
	repo    repository.DocumentRepository
	log     *logger.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewDocumentService constructs a new DocumentService. metrics may be nil.
func NewDocumentService(repo repository.DocumentRepository, log *logger.Logger, metrics *Metrics) DocumentService {
	return &documentService{
		repo:    repo,
		log:     log.With("documents"),
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (int64, error) {
	in.Extension = strings.TrimSpace(in.Extension)
	in.Description = strings.TrimSpace(in.Description)

	if err := validateCreate(in); err != nil {
		return 0, err
	}

	if in.ParentID != 0 {
		ok, err := s.repo.IsDirectory(ctx, in.OwnerID, in.ParentID)
		if err != nil {
			return 0, storeErr("check parent", err)
		}
		if !ok {
			return 0, ErrInvalidParent
		}
	}

	doc := &model.Document{
		ParentID:    in.ParentID,
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Type:        model.TypeDir,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
	}
	if in.Kind == KindFile {
		doc.Type = in.Extension
	}
	if doc.CreatedAt.IsZero() {
		y, m, d := s.now().UTC().Date()
		doc.CreatedAt = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidParent
		}
		return 0, storeErr("insert document", err)
	}

	s.metrics.created(in.Kind)
	s.log.Info("document_created", map[string]any{
		"owner_id":    in.OwnerID,
		"document_id": id,
		"parent_id":   in.ParentID,
		"type":        doc.Type,
	})
	return id, nil
}

// validateCreate reports every broken rule at once.
func validateCreate(in CreateDocumentInput) error {
	verr := &ValidationError{}
	if err := collect(verr, in); err != nil {
		return err
	}
	if in.Name != "" && strings.TrimSpace(in.Name) == "" {
		verr.add("name", "is required")
	}

	switch in.Kind {
	case KindDir:
		if in.Extension != "" {
			verr.add("extension", "must be empty for directories")
		}
		if in.Description != "" {
			verr.add("description", "must be empty for directories")
		}
	case KindFile:
		if in.ParentID == 0 {
			verr.add("parent_id", "top-level documents must be directories")
		}
		switch in.Extension {
		case "":
			verr.add("extension", "is required for files")
		case model.TypeDir:
			verr.add("extension", "is reserved for directories")
		}
	}
	return verr.orNil()
}

func (s *documentService) Move(ctx context.Context, ownerID, documentID, destParentID int64) error {
	if destParentID != 0 {
		ok, err := s.repo.IsDirectory(ctx, ownerID, destParentID)
		if err != nil {
			return storeErr("check destination", err)
		}
		if !ok {
			return ErrInvalidDestination
		}
	}

	n, err := s.repo.UpdateParent(ctx, ownerID, documentID, destParentID)
	if err != nil {
		return storeErr("move document", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.metrics.moved()
	s.log.Info("document_moved", map[string]any{
		"owner_id":    ownerID,
		"document_id": documentID,
		"parent_id":   destParentID,
	})
	return nil
}

func (s *documentService) Tree(ctx context.Context, ownerID int64) (*model.Document, error) {
	records, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list documents", err)
	}
	return s.build(ownerID, records), nil
}

func (s *documentService) DirectoryTree(ctx context.Context, ownerID int64) (*model.Document, error) {
	records, err := s.repo.FindDirectoriesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list directories", err)
	}
	return s.build(ownerID, records), nil
}

func (s *documentService) build(ownerID int64, records []model.Document) *model.Document {
	res := tree.Build(records)
	for _, d := range res.Dropped {
		s.log.Warn("tree_dangling_parent", map[string]any{
			"owner_id":    ownerID,
			"document_id": d.ID,
			"parent_id":   d.ParentID,
		})
	}
	s.metrics.dropped(len(res.Dropped))
	return res.Root
}

func (s *documentService) ListFiles(ctx context.Context, ownerID, directoryID int64) ([]model.Document, error) {
	files, err := s.repo.FindByOwnerAndParent(ctx, ownerID, directoryID)
	if err != nil {
		return nil, storeErr("list files", err)
	}
	if len(files) > 0 {
		return files, nil
	}

	// An empty result is either an empty directory or no directory at all.
	ok, err := s.repo.IsDirectory(ctx, ownerID, directoryID)
	if err != nil {
		return nil, storeErr("check directory", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return []model.Document{}, nil
}

func (s *documentService) Get(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find document", err)
	}
	return doc, nil
}
