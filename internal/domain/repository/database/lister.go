package database

import (
	"context"

	"mediavault/internal/domain/model"
)

// Lister defines the interface for listing media from the database.
type Lister interface {
	GetAllByAuthor(ctx context.Context, author string) ([]model.Media, error)
	// List returns records matching filter, newest first.
	List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error)
	Count(ctx context.Context) (int, error)
}
