package abstraction

import (
	"context"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
)

// Importer is the bulk import session.
type Importer interface {
	Enqueue(ctx context.Context, item dto.ImportItem) (*entity.FlushResult, int, error)
	ClearAuthors(ctx context.Context, authors []string) (map[string]int, error)
	Finalize(ctx context.Context) (*entity.ImportTotals, error)
	Abort() int
	Completed(ctx context.Context, keys []string) ([]string, error)
	ResetProgress(ctx context.Context) error
}
