package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"mediavault/internal/domain/repository/database"
	"mediavault/pkg/logger"
)

func (s *MediaStore) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Error("can't remove media", "id", id, "err", err)

		return false, database.Wrap("delete", err)
	}

	return res.DeletedCount > 0, nil
}

func (s *MediaStore) DeleteImportedOrLocalByAuthor(ctx context.Context, author string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	res, err := s.coll().DeleteMany(ctx, bson.M{
		"author": author,
		"$or": bson.A{
			bson.M{"imported": true},
			bson.M{"original_remote_url": bson.M{"$exists": false}},
			bson.M{"original_remote_url": ""},
		},
	})
	if err != nil {
		logger.Error("can't clear author", "author", author, "err", err)

		return 0, database.Wrap("delete by author", err)
	}

	return int(res.DeletedCount), nil
}
