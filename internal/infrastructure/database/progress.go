package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/domain/repository/database"
)

type ProgressStore struct {
	db *Database
}

func NewProgressStore(db *Database) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) MarkCompleted(ctx context.Context, keys []string) error {
	now := time.Now().UTC()

	models := make([]mongo.WriteModel, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": k}).
			SetUpdate(bson.M{"$set": bson.M{"completed_at": now}}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	_, err := s.db.collection(ProgressCollection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))

	return database.Wrap("mark completed", err)
}

// Completed keeps the order of keys.
func (s *ProgressStore) Completed(ctx context.Context, keys []string) ([]string, error) {
	done := []string{}
	if len(keys) == 0 {
		return done, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	cursor, err := s.db.collection(ProgressCollection).Find(ctx,
		bson.M{"_id": bson.M{"$in": keys}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, database.Wrap("completed", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, database.Wrap("completed", err)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.Key] = struct{}{}
	}

	for _, k := range keys {
		if _, ok := seen[k]; ok {
			done = append(done, k)
		}
	}

	return done, nil
}

func (s *ProgressStore) ResetProgress(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	_, err := s.db.collection(ProgressCollection).DeleteMany(ctx, bson.M{})

	return database.Wrap("reset progress", err)
}
