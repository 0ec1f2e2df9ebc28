package usecase

import (
	"context"
	"errors"
	"net/http"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

// Getter implements the Getter abstraction for retrieving one media record.
type Getter struct {
	retriever database.Retriever
}

func NewGetter(retriever database.Retriever) *Getter {
	return &Getter{
		retriever: retriever,
	}
}

// GetMedia returns the full record, stored bytes included.
func (g *Getter) GetMedia(ctx context.Context, id string) (*model.Media, int, error) {
	media, err := g.retriever.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, http.StatusNotFound, errors.New("media not found")
	}
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("failed to retrieve media")
	}

	return media, http.StatusOK, nil
}
