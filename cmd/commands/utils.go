package commands

import (
	"os"

	"mediavault/config"
	"mediavault/pkg/logger"
)

func ExitOnError(err error) {
	logger.Error("mediavault error", "err", err.Error())
	os.Exit(1)
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		ExitOnError(err)
	}

	logger.InitGlobalLogger(&cfg.Logger)

	return cfg
}
