package download

import (
	"context"

	"mediavault/internal/domain/entity"
)

// Downloader hands finished media to the user, standing in for the
// browser's download subsystem.
type Downloader interface {
	Download(ctx context.Context, filename string, content *entity.Content) error
}
