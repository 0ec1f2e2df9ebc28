package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/domain/model"
	"mediavault/internal/domain/repository/database"
)

const collectionCounter = "collections"

type CollectionStore struct {
	db *Database
}

func NewCollectionStore(db *Database) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) coll() *mongo.Collection {
	return s.db.collection(CollectionCollection)
}

// nextID hands out auto-increment ids from the counters collection.
func (s *CollectionStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := s.db.collection(CounterCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collectionCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)

	return counter.Seq, err
}

func collectionError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return database.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return database.ErrDuplicateName
	}

	return database.Wrap(op, err)
}

func (s *CollectionStore) Create(ctx context.Context, name string) (*model.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	id, err := s.nextID(ctx)
	if err != nil {
		return nil, database.Wrap("create collection", err)
	}

	c := &model.Collection{
		ID:          id,
		Name:        name,
		DateCreated: time.Now().UTC().Truncate(time.Millisecond),
		MediaIDs:    []string{},
	}

	if _, err := s.coll().InsertOne(ctx, c); err != nil {
		return nil, collectionError("create collection", err)
	}

	return c, nil
}

func (s *CollectionStore) Get(ctx context.Context, id int64) (*model.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	var c model.Collection
	if err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, collectionError("get collection", err)
	}

	return &c, nil
}

func (s *CollectionStore) Rename(ctx context.Context, id int64, newName string) (*model.Collection, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Name == newName {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	res, err := s.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": newName}})
	if err != nil {
		return nil, collectionError("rename collection", err)
	}
	if res.MatchedCount == 0 {
		return nil, database.ErrNotFound
	}

	c.Name = newName

	return c, nil
}

func (s *CollectionStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return collectionError("delete collection", err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}

	return nil
}

func (s *CollectionStore) SetMembership(ctx context.Context, id int64, mediaID string, member bool) (*model.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	op := "$pull"
	if member {
		op = "$addToSet"
	}

	var c model.Collection
	err := s.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{op: bson.M{"media_ids": mediaID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return nil, collectionError("set membership", err)
	}

	return &c, nil
}

func (s *CollectionStore) GetAll(ctx context.Context) ([]model.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	cursor, err := s.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, collectionError("get all collections", err)
	}
	defer cursor.Close(ctx)

	collections := []model.Collection{}
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, collectionError("get all collections", err)
	}

	return collections, nil
}

func (s *CollectionStore) RemoveMedia(ctx context.Context, mediaID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.db.QueryTimeout)
	defer cancel()

	_, err := s.coll().UpdateMany(ctx,
		bson.M{"media_ids": mediaID},
		bson.M{"$pull": bson.M{"media_ids": mediaID}},
	)

	return collectionError("remove media from collections", err)
}
