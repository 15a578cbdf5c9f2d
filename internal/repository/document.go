package repository

import (
	"context"

	"docmanager/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// Every method is scoped to an owner; a document owned by someone else is
// indistinguishable from a missing one. ParentID 0 maps to SQL NULL.
type DocumentRepository interface {
	// FindByOwner returns every document of the owner, ordered by parent then id.
	FindByOwner(ctx context.Context, ownerID int64) ([]model.Document, error)

	// FindDirectoriesByOwner returns the owner's directories only.
	FindDirectoriesByOwner(ctx context.Context, ownerID int64) ([]model.Document, error)

	// FindByOwnerAndParent returns the non-directory documents directly inside parentID,
	// each carrying the parent's name.
	FindByOwnerAndParent(ctx context.Context, ownerID, parentID int64) ([]model.Document, error)

	// FindByID returns one document with its parent's name, or sql.ErrNoRows.
	FindByID(ctx context.Context, ownerID, id int64) (*model.Document, error)

	// IsDirectory reports whether id is a directory owned by ownerID.
	IsDirectory(ctx context.Context, ownerID, id int64) (bool, error)

	// Insert stores doc and returns the new id. The parent is re-checked inside the
	// same statement; sql.ErrNoRows means it is not a directory of the owner.
	Insert(ctx context.Context, doc *model.Document) (int64, error)

	// UpdateParent reparents a non-directory document and returns the rows affected.
	UpdateParent(ctx context.Context, ownerID, id, newParentID int64) (int64, error)
}
