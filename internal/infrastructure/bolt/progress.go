package bolt

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"
)

type ProgressStore struct {
	db *Database
}

func NewProgressStore(db *Database) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) MarkCompleted(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(progressBucket))
		for _, k := range keys {
			if k == "" {
				continue
			}
			if err := b.Put([]byte(k), stamp); err != nil {
				return err
			}
		}

		return nil
	})

	return wrap("mark completed", err)
}

func (s *ProgressStore) Completed(ctx context.Context, keys []string) ([]string, error) {
	done := []string{}
	err := s.db.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(progressBucket))
		for _, k := range keys {
			if k != "" && b.Get([]byte(k)) != nil {
				done = append(done, k)
			}
		}

		return nil
	})
	if err != nil {
		return nil, wrap("completed", err)
	}

	return done, nil
}

func (s *ProgressStore) ResetProgress(ctx context.Context) error {
	err := s.db.update(ctx, func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(progressBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(progressBucket))

		return err
	})

	return wrap("reset progress", err)
}
