package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

// MediaStore keeps media records in the media collection, one document per id.
type MediaStore struct {
	db *Database
}

func NewMediaStore(db *Database) *MediaStore {
	return &MediaStore{db: db}
}

func (s *MediaStore) coll() *mongo.Collection {
	return s.db.collection(MediaCollection)
}

func (s *MediaStore) Get(ctx context.Context, id string) (*model.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	var media model.Media
	if err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&media); err != nil {
		return nil, notFound("get", err)
	}

	return &media, nil
}

func (s *MediaStore) GetByContentHash(ctx context.Context, hash string) (*model.Media, error) {
	if hash == "" {
		return nil, database.ErrNotFound
	}

	return s.first(ctx, "get by hash", bson.M{"content_hash": hash}, nil)
}

func (s *MediaStore) FindByAuthorFilename(ctx context.Context, author, filename string) (*model.Media, error) {
	key := model.AuthorFileKey(author, filename)
	if key == "" {
		return nil, database.ErrNotFound
	}

	return s.first(ctx, "find by author filename", bson.M{"author_file_key": key}, nil)
}

// first returns the lowest id matching filter whose id is not in skip.
func (s *MediaStore) first(ctx context.Context, op string, filter bson.M, skip map[string]*model.Media) (*model.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	if len(skip) > 0 {
		ids := make([]string, 0, len(skip))
		for id := range skip {
			ids = append(ids, id)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var media model.Media
	if err := s.coll().FindOne(ctx, filter, opts).Decode(&media); err != nil {
		return nil, notFound(op, err)
	}

	return &media, nil
}

func notFound(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return database.ErrNotFound
	}

	logger.Error("can't query media", "op", op, "err", err)

	return database.Wrap(op, err)
}
