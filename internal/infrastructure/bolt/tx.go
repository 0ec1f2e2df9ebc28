package bolt

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

const (
	indexSep   = "\x00"
	dateLayout = "20060102T150405.000000000"

	// index values longer than this are filed under their sha256.
	maxIndexValue = 512
)

var errRecordTooLarge = errors.New("media record exceeds storage limits")

// mediaTx reads and writes the media buckets of one bbolt transaction.
// Writes are only legal when the transaction is writable.
type mediaTx struct {
	tx *bolt.Tx
}

func (m *mediaTx) bucket(name string) *bolt.Bucket {
	return m.tx.Bucket([]byte(name))
}

// load returns the stored record or nil when id is unknown.
func (m *mediaTx) load(id string, withData bool) (*model.Media, error) {
	v := m.bucket(mediaBucket).Get([]byte(id))
	if v == nil {
		return nil, nil
	}

	media := new(model.Media)
	if err := json.Unmarshal(v, media); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}

	// AuthorFileKey is not serialised, rebuild it.
	media.AuthorFileKey = model.AuthorFileKey(media.Author, media.OriginalFilename)

	if withData {
		if data := m.bucket(mediaDataBucket).Get([]byte(id)); data != nil {
			media.LocalData = bytes.Clone(data)
		}
	}

	return media, nil
}

func (m *mediaTx) Get(_ context.Context, id string) (*model.Media, error) {
	media, err := m.load(id, true)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, database.ErrNotFound
	}

	return media, nil
}

func (m *mediaTx) GetByContentHash(ctx context.Context, hash string) (*model.Media, error) {
	if hash == "" {
		return nil, database.ErrNotFound
	}

	return m.first(ctx, hashIndexBucket, hash)
}

func (m *mediaTx) FindByAuthorFilename(ctx context.Context, author, filename string) (*model.Media, error) {
	key := model.AuthorFileKey(author, filename)
	if key == "" {
		return nil, database.ErrNotFound
	}

	return m.first(ctx, authorFileIndexBucket, key)
}

func (m *mediaTx) first(ctx context.Context, index, value string) (*model.Media, error) {
	var id string
	scanIndex(m.bucket(index), value, func(found string) bool {
		id = found

		return false
	})

	if id == "" {
		return nil, database.ErrNotFound
	}

	return m.Get(ctx, id)
}

func (m *mediaTx) ids(index, value string) []string {
	var ids []string
	scanIndex(m.bucket(index), value, func(id string) bool {
		ids = append(ids, id)

		return true
	})

	return ids
}

// Put replaces the record stored under media.ID and moves its index entries.
func (m *mediaTx) Put(_ context.Context, media *model.Media) error {
	if media.ID == "" {
		return fmt.Errorf("media without id")
	}

	media.Canonicalize()

	record := *media
	record.LocalData = nil

	v, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", media.ID, err)
	}

	// bbolt cannot roll back a single statement, so everything that could
	// reject this record is checked before the first write.
	if err := checkLimits(media, v); err != nil {
		return err
	}

	old, err := m.load(media.ID, false)
	if err != nil {
		return err
	}
	if old != nil {
		if err := m.unindex(old); err != nil {
			return err
		}
	}

	id := []byte(media.ID)
	if err := m.bucket(mediaBucket).Put(id, v); err != nil {
		return err
	}

	if len(media.LocalData) > 0 {
		if err := m.bucket(mediaDataBucket).Put(id, media.LocalData); err != nil {
			return err
		}
	} else if err := m.bucket(mediaDataBucket).Delete(id); err != nil {
		return err
	}

	return m.index(media)
}

func checkLimits(media *model.Media, encoded []byte) error {
	if len(media.ID) > bolt.MaxKeySize {
		return fmt.Errorf("%w: id of %d bytes", errRecordTooLarge, len(media.ID))
	}
	if len(encoded) > bolt.MaxValueSize || len(media.LocalData) > bolt.MaxValueSize {
		return fmt.Errorf("%w: %s", errRecordTooLarge, media.ID)
	}

	for bucket, value := range indexEntries(media) {
		if len(indexKey(value, media.ID)) > bolt.MaxKeySize {
			return fmt.Errorf("%w: %s key of %s", errRecordTooLarge, bucket, media.ID)
		}
	}

	return nil
}

func (m *mediaTx) remove(media *model.Media) error {
	if err := m.unindex(media); err != nil {
		return err
	}

	id := []byte(media.ID)
	if err := m.bucket(mediaDataBucket).Delete(id); err != nil {
		return err
	}

	return m.bucket(mediaBucket).Delete(id)
}

func indexEntries(media *model.Media) map[string]string {
	entries := map[string]string{
		authorIndexBucket: media.Author,
		dateIndexBucket:   media.Date.UTC().Format(dateLayout),
		typeIndexBucket:   string(media.Type),
	}
	if media.ContentHash != "" {
		entries[hashIndexBucket] = media.ContentHash
	}
	if key := model.AuthorFileKey(media.Author, media.OriginalFilename); key != "" {
		entries[authorFileIndexBucket] = key
	}

	return entries
}

func (m *mediaTx) index(media *model.Media) error {
	for bucket, value := range indexEntries(media) {
		if err := m.bucket(bucket).Put(indexKey(value, media.ID), nil); err != nil {
			return err
		}
	}

	return nil
}

func (m *mediaTx) unindex(media *model.Media) error {
	for bucket, value := range indexEntries(media) {
		if err := m.bucket(bucket).Delete(indexKey(value, media.ID)); err != nil {
			return err
		}
	}

	return nil
}

func indexKey(value, id string) []byte {
	return []byte(indexValue(value) + indexSep + id)
}

func indexValue(value string) string {
	if len(value) <= maxIndexValue {
		return value
	}

	sum := sha256.Sum256([]byte(value))

	return "sha256:" + hex.EncodeToString(sum[:])
}

// scanIndex calls fn with every id filed under value until fn returns false.
func scanIndex(b *bolt.Bucket, value string, fn func(id string) bool) {
	prefix := []byte(indexValue(value) + indexSep)
	c := b.Cursor()

	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if !fn(string(k[len(prefix):])) {
			return
		}
	}
}
