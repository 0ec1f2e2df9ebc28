package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MediaCollection      = "media"
	CollectionCollection = "collections"
	CounterCollection    = "counters"
	ProgressCollection   = "import_progress"
)

type Database struct {
	DBName       string
	QueryTimeout time.Duration
	Client       *mongo.Client
}

func Connect(cfg Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectionTimeout)*time.Millisecond)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(time.Duration(cfg.ConnectionTimeout) * time.Millisecond).
		SetBSONOptions(&options.BSONOptions{
			UseJSONStructTags: true,
			NilSliceAsEmpty:   true,
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	qCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.QueryTimeout)*time.Millisecond)
	defer cancel()

	if err := client.Ping(qCtx, nil); err != nil {
		return nil, err
	}

	db := &Database{
		Client:       client,
		DBName:       cfg.DBName,
		QueryTimeout: time.Duration(cfg.QueryTimeout) * time.Millisecond,
	}

	if err := initMediaCollection(db); err != nil {
		return nil, err
	}

	if err := initCollectionCollection(db); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.Client.Database(db.DBName).Collection(name)
}

func exists(ctx context.Context, db *Database, name string) (bool, error) {
	names, err := db.Client.Database(db.DBName).ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}

	return len(names) > 0, nil
}

func initMediaCollection(db *Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QueryTimeout)
	defer cancel()

	ok, err := exists(ctx, db, MediaCollection)
	if err != nil {
		return err
	}
	if ok {
		return nil // already exists
	}

	collOpts := options.CreateCollection().SetValidator(bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "author", "date", "type"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType":    "string",
					"minLength":   1,
					"description": "must be the derived media id",
				},
				"author":              bson.M{"bsonType": "string"},
				"date":                bson.M{"bsonType": "date"},
				"type":                bson.M{"enum": []string{"image", "video"}},
				"mime_type":           bson.M{"bsonType": "string"},
				"original_remote_url": bson.M{"bsonType": "string"},
				"url":                 bson.M{"bsonType": "string"},
				"local_data":          bson.M{"bsonType": "binData"},
				"content_hash":        bson.M{"bsonType": "string"},
				"author_file_key":     bson.M{"bsonType": "string"},
				"is_gif":              bson.M{"bsonType": "bool"},
				"favorite":            bson.M{"bsonType": "bool"},
				"saved_as_metadata":   bson.M{"bsonType": "bool"},
				"imported":            bson.M{"bsonType": "bool"},
				"width":               bson.M{"bsonType": "number"},
				"height":              bson.M{"bsonType": "number"},
				"duration":            bson.M{"bsonType": "number"},
			},
		},
	})

	if err := db.Client.Database(db.DBName).CreateCollection(ctx, MediaCollection, collOpts); err != nil {
		return err
	}

	_, err = db.collection(MediaCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "content_hash", Value: 1}}},
		{Keys: bson.D{{Key: "author_file_key", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	})

	return err
}

func initCollectionCollection(db *Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QueryTimeout)
	defer cancel()

	ok, err := exists(ctx, db, CollectionCollection)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if err := db.Client.Database(db.DBName).CreateCollection(ctx, CollectionCollection); err != nil {
		return err
	}

	_, err = db.collection(CollectionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date_created", Value: 1}}},
	})

	return err
}

func (db *Database) Stop() error {
	if err := db.Client.Disconnect(context.Background()); err != nil {
		return err
	}

	return nil
}
