package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

// CollectionStore keeps collections under big-endian sequence keys, so a
// cursor walk returns them in creation order. Names are unique through the
// collections_by_name bucket.
type CollectionStore struct {
	db *Database
}

func NewCollectionStore(db *Database) *CollectionStore {
	return &CollectionStore{db: db}
}

func loadCollection(tx *bolt.Tx, id int64) (*model.Collection, error) {
	v := tx.Bucket([]byte(collectionBucket)).Get(itob(uint64(id)))
	if v == nil {
		return nil, database.ErrNotFound
	}

	c := new(model.Collection)
	if err := json.Unmarshal(v, c); err != nil {
		return nil, fmt.Errorf("decode collection %d: %w", id, err)
	}

	return c, nil
}

func storeCollection(tx *bolt.Tx, c *model.Collection) error {
	if c.MediaIDs == nil {
		c.MediaIDs = []string{}
	}

	v, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(collectionBucket)).Put(itob(uint64(c.ID)), v)
}

func (s *CollectionStore) Create(ctx context.Context, name string) (*model.Collection, error) {
	var c *model.Collection
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		names := tx.Bucket([]byte(collectionNameBucket))
		if names.Get([]byte(name)) != nil {
			return database.ErrDuplicateName
		}

		seq, err := tx.Bucket([]byte(collectionBucket)).NextSequence()
		if err != nil {
			return err
		}

		c = &model.Collection{
			ID:          int64(seq),
			Name:        name,
			DateCreated: time.Now().UTC(),
			MediaIDs:    []string{},
		}
		if err := storeCollection(tx, c); err != nil {
			return err
		}

		return names.Put([]byte(name), itob(seq))
	})
	if err != nil {
		return nil, wrap("create collection", err)
	}

	return c, nil
}

func (s *CollectionStore) Get(ctx context.Context, id int64) (*model.Collection, error) {
	var c *model.Collection
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		c, err = loadCollection(tx, id)

		return err
	})

	return c, wrap("get collection", err)
}

func (s *CollectionStore) Rename(ctx context.Context, id int64, newName string) (*model.Collection, error) {
	var c *model.Collection
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		var err error
		if c, err = loadCollection(tx, id); err != nil {
			return err
		}
		if c.Name == newName {
			return nil
		}

		names := tx.Bucket([]byte(collectionNameBucket))
		if names.Get([]byte(newName)) != nil {
			return database.ErrDuplicateName
		}

		if err := names.Delete([]byte(c.Name)); err != nil {
			return err
		}
		if err := names.Put([]byte(newName), itob(uint64(id))); err != nil {
			return err
		}

		c.Name = newName

		return storeCollection(tx, c)
	})
	if err != nil {
		return nil, wrap("rename collection", err)
	}

	return c, nil
}

func (s *CollectionStore) Delete(ctx context.Context, id int64) error {
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		c, err := loadCollection(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Bucket([]byte(collectionNameBucket)).Delete([]byte(c.Name)); err != nil {
			return err
		}

		return tx.Bucket([]byte(collectionBucket)).Delete(itob(uint64(id)))
	})

	return wrap("delete collection", err)
}

func (s *CollectionStore) SetMembership(ctx context.Context, id int64, mediaID string, member bool) (*model.Collection, error) {
	var c *model.Collection
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		var err error
		if c, err = loadCollection(tx, id); err != nil {
			return err
		}
		if !c.SetMember(mediaID, member) {
			return nil
		}

		return storeCollection(tx, c)
	})
	if err != nil {
		return nil, wrap("set membership", err)
	}

	return c, nil
}

func (s *CollectionStore) GetAll(ctx context.Context) ([]model.Collection, error) {
	collections := []model.Collection{}
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(collectionBucket)).ForEach(func(k, v []byte) error {
			var c model.Collection
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decode collection %d: %w", binary.BigEndian.Uint64(k), err)
			}
			collections = append(collections, c)

			return nil
		})
	})
	if err != nil {
		return nil, wrap("get all collections", err)
	}

	return collections, nil
}

func (s *CollectionStore) RemoveMedia(ctx context.Context, mediaID string) error {
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		var changed []*model.Collection
		err := tx.Bucket([]byte(collectionBucket)).ForEach(func(_, v []byte) error {
			c := new(model.Collection)
			if err := json.Unmarshal(v, c); err != nil {
				return err
			}
			if c.SetMember(mediaID, false) {
				changed = append(changed, c)
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, c := range changed {
			if err := storeCollection(tx, c); err != nil {
				return err
			}
		}

		return nil
	})

	return wrap("remove media from collections", err)
}
