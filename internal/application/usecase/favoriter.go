package usecase

import (
	"context"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

type Favoriter struct {
	store    database.MediaStore
	notifier *Notifier
}

func NewFavoriter(store database.MediaStore, notifier *Notifier) *Favoriter {
	return &Favoriter{
		store:    store,
		notifier: notifier,
	}
}

// SetFavorite updates the flag in place and broadcasts the stripped record.
func (f *Favoriter) SetFavorite(ctx context.Context, id string, favorite bool) (*model.Media, error) {
	var media *model.Media
	err := f.store.Batch(ctx, func(tx database.MediaTx) error {
		m, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if m.Favorite == favorite {
			media = m

			return nil
		}

		m.Favorite = favorite
		media = m

		return tx.Put(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	item := media.Stripped()
	f.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventMediaChanged, Item: &item})

	return &item, nil
}
