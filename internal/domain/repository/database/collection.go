package database

import (
	"context"

	"mediavault/internal/domain/model"
)

// CollectionStore is the persistent table of named collections.
type CollectionStore interface {
	Create(ctx context.Context, name string) (*model.Collection, error)
	Get(ctx context.Context, id int64) (*model.Collection, error)
	// Rename fails with ErrDuplicateName when another collection owns newName.
	Rename(ctx context.Context, id int64, newName string) (*model.Collection, error)
	Delete(ctx context.Context, id int64) error
	// SetMembership is idempotent: a no-op change still returns the collection.
	SetMembership(ctx context.Context, id int64, mediaID string, member bool) (*model.Collection, error)
	GetAll(ctx context.Context) ([]model.Collection, error)
	// RemoveMedia drops mediaID from every collection referencing it.
	RemoveMedia(ctx context.Context, mediaID string) error
}
