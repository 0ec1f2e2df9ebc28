package database

import (
	"context"

	"mediavault/internal/domain/model"
)

// Retriever looks media up by identity. Missing records yield ErrNotFound.
type Retriever interface {
	Get(ctx context.Context, id string) (*model.Media, error)
	// GetByContentHash returns the first record carrying hash. Several
	// records may share a hash; the store does not enforce uniqueness.
	GetByContentHash(ctx context.Context, hash string) (*model.Media, error)
	// FindByAuthorFilename matches on model.AuthorFileKey.
	FindByAuthorFilename(ctx context.Context, author, filename string) (*model.Media, error)
}
