package usecase

import (
	"context"
	"errors"
	"net/http"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

// Deleter removes media records and their collection references.
type Deleter struct {
	remover     database.Remover
	collections database.CollectionStore
	notifier    *Notifier
}

func NewDeleter(remover database.Remover, collections database.CollectionStore, notifier *Notifier) *Deleter {
	return &Deleter{
		remover:     remover,
		collections: collections,
		notifier:    notifier,
	}
}

func (d *Deleter) DeleteMedia(ctx context.Context, id string) (int, error) {
	if id == "" {
		return http.StatusBadRequest, invalid("id is required")
	}

	deleted, err := d.remover.Delete(ctx, id)
	if err != nil {
		logger.Error("can't delete media", "id", id, "err", err)

		return http.StatusInternalServerError, errors.New("failed to remove media from database")
	}
	if !deleted {
		return http.StatusNotFound, errors.New("media not found")
	}

	if err := d.collections.RemoveMedia(ctx, id); err != nil {
		logger.Warn("can't prune deleted media from collections", "id", id, "err", err)
	}

	d.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventMediaDeleted, ID: id})

	return http.StatusOK, nil
}
