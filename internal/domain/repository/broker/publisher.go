package broker

import (
	"context"

	"mediavault/internal/domain/dto"
)

type Publisher interface {
	Publish(ctx context.Context, event dto.StoreEvent) error
}
