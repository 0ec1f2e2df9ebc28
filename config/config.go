package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mediavault/internal/application/usecase"
	"mediavault/internal/infrastructure/bolt"
	"mediavault/internal/infrastructure/broker"
	"mediavault/internal/infrastructure/database"
	"mediavault/internal/infrastructure/download"
	"mediavault/internal/infrastructure/fetcher"
	"mediavault/internal/infrastructure/minio"
	"mediavault/internal/infrastructure/presence"
	"mediavault/pkg/logger"
)

const (
	DriverBolt  = "bolt"
	DriverMongo = "mongo"
)

// Config represents the configs used by services on system.
type Config struct {
	Environment     string                 `yaml:"environment"`
	Default         DefaultConfig          `yaml:"default"`
	Store           StoreConfig            `yaml:"store"`
	Bolt            bolt.Config            `yaml:"bolt"`
	DBConfig        database.Config        `yaml:"db_config"`
	Import          usecase.ImportConfig   `yaml:"import"`
	Fetcher         fetcher.Config         `yaml:"fetcher"`
	Download        download.Config        `yaml:"download"`
	MinIOClient     minio.ClientConfig     `yaml:"minio_client"`
	MinIOUploader   minio.UploaderConfig   `yaml:"minio_uploader"`
	BrokerConfig    broker.Config          `yaml:"redis_broker_config"`
	PublisherConfig broker.PublisherConfig `yaml:"publisher_config"`
	Presence        presence.Config        `yaml:"presence"`
	Logger          logger.Config          `yaml:"logger"`
}

type DefaultConfig struct {
	Address string `yaml:"address"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}
	defer file.Close()

	config := &Config{}

	decoder := yaml.NewDecoder(file)

	if err := decoder.Decode(config); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	if config.Environment != "prod" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, Error{
				reason: err.Error(),
			}
		}
	}

	config.MinIOClient.AccessKey = os.Getenv("MINIO_ROOT_USER")
	config.MinIOClient.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	config.DBConfig.URI = os.Getenv("DATABASE_URI")
	config.BrokerConfig.URI = os.Getenv("BROKER_URI")

	if err = config.basicCheck(); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	return config, nil
}

// basicCheck validates the basic stuff in config and fills defaults.
func (c *Config) basicCheck() error {
	if c.Default.Address == "" {
		c.Default.Address = "127.0.0.1:8686"
	}

	switch c.Store.Driver {
	case "":
		c.Store.Driver = DriverBolt
	case DriverBolt, DriverMongo:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Store.Driver == DriverBolt && c.Bolt.Path == "" {
		c.Bolt.Path = "mediavault.db"
	}

	if c.Store.Driver == DriverMongo && c.DBConfig.URI == "" {
		return errors.New("DATABASE_URI is required for the mongo driver")
	}

	switch c.Download.Target {
	case "":
		c.Download.Target = download.TargetNone
	case download.TargetNone, download.TargetLocal, download.TargetMinIO:
	default:
		return fmt.Errorf("unknown download target %q", c.Download.Target)
	}

	if c.Download.Target == download.TargetLocal && c.Download.Directory == "" {
		return errors.New("download.directory is required for the local target")
	}

	if c.Import.BatchSize < 0 || c.Import.IdleFlush < 0 || c.Import.HashWorkers < 0 {
		return errors.New("import settings must not be negative")
	}

	if c.Import.BatchSize == 0 {
		c.Import.BatchSize = 50
	}

	if c.Import.IdleFlush == 0 {
		c.Import.IdleFlush = 2000
	}

	if c.Import.HashWorkers == 0 {
		c.Import.HashWorkers = 4
	}

	if c.Presence.Window == 0 {
		c.Presence.Window = 5000
	}

	return nil
}
