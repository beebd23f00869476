package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/config"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/server"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := cfg.Logger()
	logger.Info().Msg("Starting Zigo Events backend...")

	opts := []domain.StoreOption{domain.WithLogger(logger)}
	if cfg.Seed {
		opts = append(opts, domain.WithEvents(catalog.SeedEvents()))
	}
	store := domain.NewStore(opts...)

	chatSvc := chat.NewService(store,
		chat.WithReplyDelay(cfg.ChatReplyDelay),
		chat.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.NewServer(cfg, store, catalog.Default(), chatSvc, logger)
	if err := s.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("bye")
}
