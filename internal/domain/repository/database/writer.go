package database

import (
	"context"

	"mediavault/internal/domain/model"
)

// Writer inserts or replaces media by id.
type Writer interface {
	Put(ctx context.Context, media *model.Media) error
}

// MediaTx is the view of the media table inside one storage transaction.
// Reads observe earlier writes of the same transaction.
type MediaTx interface {
	Retriever
	Writer
}

// Batcher runs fn inside a single storage transaction. A non-nil error from
// fn aborts the transaction and nothing it wrote is kept.
type Batcher interface {
	Batch(ctx context.Context, fn func(tx MediaTx) error) error
}
