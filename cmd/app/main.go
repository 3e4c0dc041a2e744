package main

import (
	"bengkel/config"
	"bengkel/di"
	"bengkel/helper"
	"bengkel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup := di.InitializeService()
	defer cleanup()

	http.Serve()
}
