package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bengkel/config"
	"bengkel/di"
	"bengkel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, cleanup := di.InitializeWorker()
	defer cleanup()

	consumer.Run(ctx)

	log.Info().Msg("Payment worker stopped.")
}
