package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

func (s *MediaStore) GetAllByAuthor(ctx context.Context, author string) ([]model.Media, error) {
	return s.find(ctx, "get all by author", bson.M{"author": author},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// List omits the stored bytes.
func (s *MediaStore) List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	query := bson.M{}
	if filter.Author != "" {
		query["author"] = filter.Author
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Favorite != nil {
		query["favorite"] = *filter.Favorite
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"local_data": 0})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	return s.find(ctx, "list", query, opts)
}

func (s *MediaStore) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]model.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	cursor, err := s.coll().Find(ctx, filter, opts)
	if err != nil {
		logger.Error("can't query media", "op", op, "err", err)

		return nil, database.Wrap(op, err)
	}
	defer cursor.Close(ctx)

	media := []model.Media{}
	if err = cursor.All(ctx, &media); err != nil {
		logger.Error("can't decode media", "op", op, "err", err)

		return nil, database.Wrap(op, err)
	}

	return media, nil
}

func (s *MediaStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	n, err := s.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, database.Wrap("count", err)
	}

	return int(n), nil
}
