package model

import "time"

// TypeDir is the type tag shared by every directory. Any other non-empty tag
// denotes a file (usually its extension).
const TypeDir = "dir"

// Document is a file or a directory owned by a single user.
// ParentID 0 means the document sits at the top level.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID          int64     `json:"id"`
	ParentID    int64     `json:"parent_id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// ParentName is filled by joined reads only.
	ParentName string `json:"parent_name,omitempty"`

	// Children is populated by tree assembly and never persisted.
	Children []*Document `json:"children,omitempty"`
}

// IsDir reports whether the document is a directory.
func (d *Document) IsDir() bool {
	return d.Type == TypeDir
}
