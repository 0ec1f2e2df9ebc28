// Package bolt keeps the media and collection tables in a single embedded
// bbolt file. bbolt allows one writer and many readers at a time, which is
// exactly the access pattern of the coordinator.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"mediavault/pkg/logger"
)

const (
	mediaBucket           = "media"
	mediaDataBucket       = "media_data"
	hashIndexBucket       = "media_by_hash"
	authorIndexBucket     = "media_by_author"
	authorFileIndexBucket = "media_by_author_file"
	dateIndexBucket       = "media_by_date"
	typeIndexBucket       = "media_by_type"
	collectionBucket      = "collections"
	collectionNameBucket  = "collections_by_name"
	progressBucket        = "import_progress"
)

var buckets = []string{
	mediaBucket, mediaDataBucket, hashIndexBucket, authorIndexBucket, authorFileIndexBucket,
	dateIndexBucket, typeIndexBucket, collectionBucket, collectionNameBucket, progressBucket,
}

type Database struct {
	bolt *bolt.DB
	path string
}

// Open opens or creates the database file and makes sure every bucket exists.
func Open(cfg Config) (*Database, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create a data directory %q: %w", dir, err)
		}
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{
		Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		NoSync:  cfg.NoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %q, is another instance running? %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}

		return nil
	})
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	logger.Info("opened local store", "path", cfg.Path)

	return &Database{bolt: db, path: cfg.Path}, nil
}

func (d *Database) String() string {
	return "<bolt> " + d.path
}

func (d *Database) Stop() error {
	return d.bolt.Close()
}

func (d *Database) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.bolt.View(fn)
}

func (d *Database) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.bolt.Update(fn)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}
