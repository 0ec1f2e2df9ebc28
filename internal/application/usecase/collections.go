package usecase

import (
	"context"
	"strings"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

// Collections wraps the collection store with input checks and broadcasts.
type Collections struct {
	store    database.CollectionStore
	notifier *Notifier
}

func NewCollections(store database.CollectionStore, notifier *Notifier) *Collections {
	return &Collections{
		store:    store,
		notifier: notifier,
	}
}

func (c *Collections) GetAll(ctx context.Context) ([]model.Collection, error) {
	return c.store.GetAll(ctx)
}

func (c *Collections) Create(ctx context.Context, name string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("collection name is required")
	}

	coll, err := c.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	c.changed(ctx, coll)

	return coll, nil
}

func (c *Collections) Rename(ctx context.Context, id int64, name string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("collection name is required")
	}

	coll, err := c.store.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}

	c.changed(ctx, coll)

	return coll, nil
}

func (c *Collections) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.notifier.Notify(ctx, dto.StoreEvent{Type: dto.EventCollectionDeleted, CollectionID: id})

	return nil
}

func (c *Collections) SetMembership(ctx context.Context, id int64, mediaID string, member bool) (*model.Collection, error) {
	if mediaID == "" {
		return nil, invalid("media id is required")
	}

	coll, err := c.store.SetMembership(ctx, id, mediaID, member)
	if err != nil {
		return nil, err
	}

	c.changed(ctx, coll)

	return coll, nil
}

func (c *Collections) changed(ctx context.Context, coll *model.Collection) {
	c.notifier.Notify(ctx, dto.StoreEvent{
		Type:         dto.EventCollectionChanged,
		Collection:   coll,
		CollectionID: coll.ID,
	})
}
