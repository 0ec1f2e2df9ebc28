package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

func (s *MediaStore) Put(ctx context.Context, media *model.Media) error {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	media.Canonicalize()

	_, err := s.coll().ReplaceOne(ctx, bson.M{"_id": media.ID}, media, options.Replace().SetUpsert(true))

	return database.Wrap("put", err)
}

// Batch collects the writes of fn in memory and commits them with one
// unordered bulk write. Reads inside fn see the pending writes first. A
// standalone server has no multi-document transactions, so a commit that
// fails part way reports how many writes landed through
// database.PartialWriteError.
func (s *MediaStore) Batch(ctx context.Context, fn func(tx database.MediaTx) error) error {
	tx := &batchTx{store: s, pending: map[string]*model.Media{}}

	if err := fn(tx); err != nil {
		return err
	}

	if len(tx.order) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(tx.order))
	for _, id := range tx.order {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id}).
			SetReplacement(tx.pending[id]).
			SetUpsert(true))
	}

	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	res, err := s.coll().BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err == nil {
		return nil
	}

	written := 0
	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		written = len(models) - len(bulkErr.WriteErrors)
	} else if res != nil {
		written = int(res.MatchedCount + res.UpsertedCount)
	}

	return &database.PartialWriteError{Written: written, Err: err}
}

type batchTx struct {
	store   *MediaStore
	pending map[string]*model.Media
	order   []string
}

func (t *batchTx) Get(ctx context.Context, id string) (*model.Media, error) {
	if m, ok := t.pending[id]; ok {
		c := *m

		return &c, nil
	}

	return t.store.Get(ctx, id)
}

func (t *batchTx) GetByContentHash(ctx context.Context, hash string) (*model.Media, error) {
	if hash == "" {
		return nil, database.ErrNotFound
	}

	return t.lookup(ctx, "get by hash", bson.M{"content_hash": hash}, func(m *model.Media) bool {
		return m.ContentHash == hash
	})
}

func (t *batchTx) FindByAuthorFilename(ctx context.Context, author, filename string) (*model.Media, error) {
	key := model.AuthorFileKey(author, filename)
	if key == "" {
		return nil, database.ErrNotFound
	}

	return t.lookup(ctx, "find by author filename", bson.M{"author_file_key": key}, func(m *model.Media) bool {
		return m.AuthorFileKey == key
	})
}

// lookup prefers pending writes, then stored documents not shadowed by one.
func (t *batchTx) lookup(ctx context.Context, op string, filter bson.M, match func(*model.Media) bool) (*model.Media, error) {
	for _, id := range t.order {
		if m := t.pending[id]; match(m) {
			c := *m

			return &c, nil
		}
	}

	return t.store.first(ctx, op, filter, t.pending)
}

func (t *batchTx) Put(_ context.Context, media *model.Media) error {
	media.Canonicalize()

	c := *media
	if _, ok := t.pending[c.ID]; !ok {
		t.order = append(t.order, c.ID)
	}
	t.pending[c.ID] = &c

	return nil
}
