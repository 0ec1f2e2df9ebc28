package abstraction

import (
	"context"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/entity"
	"mediavault/internal/domain/model"
)

type Saver interface {
	Save(ctx context.Context, req *dto.SaveMediaRequest, kind model.Kind) (*entity.SaveResult, error)
}

// StatusChecker reports the stored record a capture would dedup against.
type StatusChecker interface {
	Check(ctx context.Context, req *dto.SaveMediaRequest, kind model.Kind) (*model.Media, error)
}
