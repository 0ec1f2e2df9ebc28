package abstraction

import (
	"context"

	"mediavault/internal/domain/model"
)

type Lister interface {
	ListMedia(ctx context.Context, filter model.MediaFilter) ([]model.Media, int, error)
	ListByAuthor(ctx context.Context, author string) ([]model.Media, int, error)
}
