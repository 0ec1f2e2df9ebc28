package usecase

import (
	"context"
	"errors"
	"net/http"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

// Lister implements the Lister abstraction. Every record it returns is
// stripped of stored bytes.
type Lister struct {
	lister database.Lister
}

func NewLister(lister database.Lister) *Lister {
	return &Lister{
		lister: lister,
	}
}

func (l *Lister) ListMedia(ctx context.Context, filter model.MediaFilter) ([]model.Media, int, error) {
	media, err := l.lister.List(ctx, filter)
	if err != nil {
		logger.Error("can't list media", "err", err)

		return nil, http.StatusInternalServerError, errors.New("failed to retrieve media")
	}

	return strip(media), http.StatusOK, nil
}

func (l *Lister) ListByAuthor(ctx context.Context, author string) ([]model.Media, int, error) {
	if author == "" {
		return nil, http.StatusBadRequest, invalid("author is required")
	}

	media, err := l.lister.GetAllByAuthor(ctx, author)
	if err != nil {
		logger.Error("can't list media by author", "author", author, "err", err)

		return nil, http.StatusInternalServerError, errors.New("failed to retrieve media")
	}

	return strip(media), http.StatusOK, nil
}

func strip(media []model.Media) []model.Media {
	out := make([]model.Media, 0, len(media))
	for i := range media {
		out = append(out, media[i].Stripped())
	}

	return out
}
