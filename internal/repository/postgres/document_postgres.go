package postgres

import (
	"context"
	"database/sql"

	"docmanager/internal/model"
	"docmanager/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `d.id, COALESCE(d.parent_id, 0), d.owner_id, d.name, d.type, d.description, d.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner, withParentName bool) (model.Document, error) {
	var d model.Document
	dest := []any{
		&d.ID,
		&d.ParentID,
		&d.OwnerID,
		&d.Name,
		&d.Type,
		&d.Description,
		&d.CreatedAt,
	}
	if withParentName {
		dest = append(dest, &d.ParentName)
	}
	err := s.Scan(dest...)
	return d, err
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, withParentName bool, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, withParentName)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByOwner lists all documents of an owner, top-level ones first.
func (r *DocumentPostgres) FindByOwner(ctx context.Context, ownerID int64) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.owner_id = $1
		ORDER BY d.parent_id NULLS FIRST, d.id
	`
	return r.queryDocuments(ctx, false, q, ownerID)
}

// FindDirectoriesByOwner lists the owner's directories, top-level ones first.
func (r *DocumentPostgres) FindDirectoriesByOwner(ctx context.Context, ownerID int64) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.owner_id = $1 AND d.type = 'dir'
		ORDER BY d.parent_id NULLS FIRST, d.id
	`
	return r.queryDocuments(ctx, false, q, ownerID)
}

// FindByOwnerAndParent lists the files inside one directory together with its name.
func (r *DocumentPostgres) FindByOwnerAndParent(ctx context.Context, ownerID, parentID int64) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `, p.name
		FROM documents d
		JOIN documents p ON p.id = d.parent_id
		WHERE d.owner_id = $1 AND d.parent_id = $2 AND d.type <> 'dir' AND p.type = 'dir'
		ORDER BY d.id
	`
	return r.queryDocuments(ctx, true, q, ownerID, parentID)
}

// FindByID fetches a single document of the owner. Top-level documents have an empty parent name.
func (r *DocumentPostgres) FindByID(ctx context.Context, ownerID, id int64) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `, COALESCE(p.name, '')
		FROM documents d
		LEFT JOIN documents p ON p.id = d.parent_id
		WHERE d.owner_id = $1 AND d.id = $2
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, ownerID, id), true)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// IsDirectory reports whether id is a directory owned by ownerID.
func (r *DocumentPostgres) IsDirectory(ctx context.Context, ownerID, id int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM documents WHERE owner_id = $1 AND id = $2 AND type = 'dir'
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, ownerID, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Insert adds a document and returns its id. The row is only written when the parent
// is top-level or still a directory of the same owner, so the check and the write
// happen in one statement.
func (r *DocumentPostgres) Insert(ctx context.Context, doc *model.Document) (int64, error) {
	const q = `
		INSERT INTO documents (parent_id, owner_id, name, type, description, created_at)
		SELECT NULLIF($1::bigint, 0), $2::bigint, $3::text, $4::text, $5::text, $6::date
		WHERE $1::bigint = 0 OR EXISTS (
			SELECT 1 FROM documents p WHERE p.id = $1::bigint AND p.owner_id = $2::bigint AND p.type = 'dir'
		)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		doc.ParentID,
		doc.OwnerID,
		doc.Name,
		doc.Type,
		doc.Description,
		doc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateParent moves a non-directory document under newParentID (0 for top level).
// It returns 0 when the document is missing, foreign, a directory, or the destination
// stopped being a directory of the owner.
func (r *DocumentPostgres) UpdateParent(ctx context.Context, ownerID, id, newParentID int64) (int64, error) {
	const q = `
		UPDATE documents SET parent_id = NULLIF($1::bigint, 0)
		WHERE id = $2 AND owner_id = $3 AND type <> 'dir'
		AND ($1::bigint = 0 OR EXISTS (
			SELECT 1 FROM documents p WHERE p.id = $1::bigint AND p.owner_id = $3 AND p.type = 'dir'
		))
	`
	res, err := r.db.ExecContext(ctx, q, newParentID, id, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
