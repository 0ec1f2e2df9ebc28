package commands

import (
	"context"

	"github.com/google/uuid"

	"mediavault/config"
	brokerrepo "mediavault/internal/domain/repository/broker"
	"mediavault/internal/domain/repository/database"
	downloadrepo "mediavault/internal/domain/repository/download"
	"mediavault/internal/infrastructure/bolt"
	"mediavault/internal/infrastructure/broker"
	mongodb "mediavault/internal/infrastructure/database"
	"mediavault/internal/infrastructure/download"
	"mediavault/internal/infrastructure/minio"
	"mediavault/pkg/logger"
)

type stores struct {
	media       database.MediaStore
	collections database.CollectionStore
	progress    database.ProgressStore
	stop        func() error
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.DriverMongo {
		db, err := mongodb.Connect(cfg.DBConfig)
		if err != nil {
			return nil, err
		}

		return &stores{
			media:       mongodb.NewMediaStore(db),
			collections: mongodb.NewCollectionStore(db),
			progress:    mongodb.NewProgressStore(db),
			stop:        db.Stop,
		}, nil
	}

	db, err := bolt.Open(cfg.Bolt)
	if err != nil {
		return nil, err
	}

	return &stores{
		media:       bolt.NewMediaStore(db),
		collections: bolt.NewCollectionStore(db),
		progress:    bolt.NewProgressStore(db),
		stop:        db.Stop,
	}, nil
}

func openDownloader(ctx context.Context, cfg *config.Config) (downloadrepo.Downloader, error) {
	switch cfg.Download.Target {
	case download.TargetLocal:
		return download.NewLocal(cfg.Download.Directory), nil

	case download.TargetMinIO:
		client, err := minio.New(&cfg.MinIOClient)
		if err != nil {
			return nil, err
		}

		if err := client.EnsureBucket(ctx, cfg.MinIOUploader.Bucket); err != nil {
			return nil, err
		}

		return minio.NewUploader(client.MinioClient, &cfg.MinIOUploader), nil
	}

	return download.Nop{}, nil
}

// openBroker connects to the shared event stream when one is configured.
// The returned client is nil otherwise.
func openBroker(cfg *config.Config) (*broker.Client, brokerrepo.Publisher, error) {
	if cfg.BrokerConfig.URI == "" {
		return nil, nil, nil
	}

	client, err := broker.NewClient(cfg.BrokerConfig, uuid.NewString())
	if err != nil {
		return nil, nil, err
	}

	logger.Info("connected to event stream", "stream", cfg.BrokerConfig.StreamName, "instance", client.Instance())

	return client, broker.NewPublisher(client, cfg.PublisherConfig), nil
}
