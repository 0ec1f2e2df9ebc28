package abstraction

import (
	"context"

	"mediavault/internal/domain/model"
)

// Getter defines the interface for retrieving one media record.
type Getter interface {
	GetMedia(ctx context.Context, id string) (*model.Media, int, error)
}
