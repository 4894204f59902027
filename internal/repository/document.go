package repository

import (
	"context"

	"docflow/internal/model"
)

// DocumentRepository defines data access for documents.
// No business logic here, only persistence.
type DocumentRepository interface {
	// Create inserts a new document record. It returns ErrDuplicate when the owner
	// already has a document with the same title.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindMany returns one page of documents matching the filter, oldest first, and the total count.
	FindMany(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateStatus sets the status of a document and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Document, error)

	// ListByOwner returns every document of one user, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error)
}

// DocumentFilter narrows FindMany. Zero values are ignored.
type DocumentFilter struct {
	// Title matches as a case-insensitive substring.
	Title  string
	Status model.Status
}
