package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
	"wordduel/internal/config"
	transporthttp "wordduel/internal/transport/http"
	"wordduel/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)
	logger.Info().Str("env", cfg.Server.Env).Msg("starting word duel server")

	registry := app.NewRegistry(app.RegistryConfig{
		CodeLength:       cfg.Game.RoomCodeLength,
		TurnDuration:     cfg.TurnDuration(),
		MaxRows:          cfg.Game.MaxRows,
		StaleRoomTimeout: cfg.Game.StaleRoomTimeout,
		CleanupInterval:  cfg.Game.CleanupInterval,
	}, clockwork.NewRealClock(), logger)

	wsHandler := ws.NewHandler(registry, logger)
	server := transporthttp.NewServer(cfg.GetAddr(), registry, wsHandler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	registry.Close()

	logger.Info().Msg("server stopped")
}

// newLogger builds the process logger: human-readable console output in
// development, JSON in production.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" && !cfg.IsProduction() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
