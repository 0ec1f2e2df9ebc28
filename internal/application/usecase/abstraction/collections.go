package abstraction

import (
	"context"

	"mediavault/internal/domain/model"
)

type Collections interface {
	GetAll(ctx context.Context) ([]model.Collection, error)
	Create(ctx context.Context, name string) (*model.Collection, error)
	Rename(ctx context.Context, id int64, name string) (*model.Collection, error)
	Delete(ctx context.Context, id int64) error
	SetMembership(ctx context.Context, id int64, mediaID string, member bool) (*model.Collection, error)
}
