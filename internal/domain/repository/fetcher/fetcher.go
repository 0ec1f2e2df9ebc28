package fetcher

import (
	"context"

	"mediavault/internal/domain/entity"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*entity.Content, error)
}
