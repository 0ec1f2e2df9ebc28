package abstraction

import (
	"context"

	"mediavault/internal/domain/model"
)

type Favoriter interface {
	SetFavorite(ctx context.Context, id string, favorite bool) (*model.Media, error)
}

type Redownloader interface {
	DownloadItem(ctx context.Context, id, filename string) error
}
