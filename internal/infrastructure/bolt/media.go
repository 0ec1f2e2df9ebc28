package bolt

import (
	"context"
	"errors"
	"sort"

	bolt "go.etcd.io/bbolt"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

type MediaStore struct {
	db *Database
}

func NewMediaStore(db *Database) *MediaStore {
	return &MediaStore{db: db}
}

func wrap(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return err
	}

	return database.Wrap(op, err)
}

func (s *MediaStore) Get(ctx context.Context, id string) (*model.Media, error) {
	var media *model.Media
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		media, err = (&mediaTx{tx: tx}).Get(ctx, id)

		return err
	})

	return media, wrap("get", err)
}

func (s *MediaStore) GetByContentHash(ctx context.Context, hash string) (*model.Media, error) {
	var media *model.Media
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		media, err = (&mediaTx{tx: tx}).GetByContentHash(ctx, hash)

		return err
	})

	return media, wrap("get by hash", err)
}

func (s *MediaStore) FindByAuthorFilename(ctx context.Context, author, filename string) (*model.Media, error) {
	var media *model.Media
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		var err error
		media, err = (&mediaTx{tx: tx}).FindByAuthorFilename(ctx, author, filename)

		return err
	})

	return media, wrap("find by author filename", err)
}

func (s *MediaStore) Put(ctx context.Context, media *model.Media) error {
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		return (&mediaTx{tx: tx}).Put(ctx, media)
	})

	return wrap("put", err)
}

// Batch runs fn in one read-write transaction; an error from fn rolls back
// every write it made.
func (s *MediaStore) Batch(ctx context.Context, fn func(tx database.MediaTx) error) error {
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		return fn(&mediaTx{tx: tx})
	})

	return wrap("batch", err)
}

func (s *MediaStore) GetAllByAuthor(ctx context.Context, author string) ([]model.Media, error) {
	var media []model.Media
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		mtx := &mediaTx{tx: tx}
		for _, id := range mtx.ids(authorIndexBucket, author) {
			m, err := mtx.load(id, true)
			if err != nil {
				return err
			}
			if m != nil {
				media = append(media, *m)
			}
		}

		return nil
	})

	return media, wrap("get all by author", err)
}

// List walks the date index backwards so results come newest first. Records
// are returned without their stored bytes.
func (s *MediaStore) List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	var media []model.Media
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		mtx := &mediaTx{tx: tx}

		if filter.Author != "" {
			for _, id := range mtx.ids(authorIndexBucket, filter.Author) {
				m, err := mtx.load(id, false)
				if err != nil {
					return err
				}
				if m != nil && filter.Match(m) {
					media = append(media, *m)
				}
			}

			sort.SliceStable(media, func(i, j int) bool {
				return media[i].Date.After(media[j].Date)
			})
			if filter.Limit > 0 && len(media) > filter.Limit {
				media = media[:filter.Limit]
			}

			return nil
		}

		c := mtx.bucket(dateIndexBucket).Cursor()
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			_, id, ok := splitIndexKey(k)
			if !ok {
				continue
			}

			m, err := mtx.load(id, false)
			if err != nil {
				return err
			}
			if m == nil || !filter.Match(m) {
				continue
			}

			media = append(media, *m)
			if filter.Limit > 0 && len(media) == filter.Limit {
				break
			}
		}

		return nil
	})

	return media, wrap("list", err)
}

func (s *MediaStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(mediaBucket)).Stats().KeyN

		return nil
	})

	return n, wrap("count", err)
}

func (s *MediaStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		mtx := &mediaTx{tx: tx}
		m, err := mtx.load(id, false)
		if err != nil || m == nil {
			return err
		}

		deleted = true

		return mtx.remove(m)
	})

	return deleted, wrap("delete", err)
}

func (s *MediaStore) DeleteImportedOrLocalByAuthor(ctx context.Context, author string) (int, error) {
	var n int
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		mtx := &mediaTx{tx: tx}

		// ids are collected first since remove edits the index being walked.
		for _, id := range mtx.ids(authorIndexBucket, author) {
			m, err := mtx.load(id, false)
			if err != nil {
				return err
			}
			if m == nil || (!m.Imported && m.OriginalRemoteURL != "") {
				continue
			}

			if err := mtx.remove(m); err != nil {
				return err
			}
			n++
		}

		return nil
	})
	if err != nil {
		return 0, wrap("delete by author", err)
	}

	return n, nil
}

func splitIndexKey(k []byte) (string, string, bool) {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i] == indexSep[0] {
			return string(k[:i]), string(k[i+1:]), true
		}
	}

	return "", "", false
}
