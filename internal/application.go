package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/movesource"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeStorage, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	moveSource := movesource.NewClient(logger, conf.MoveSource.URL, conf.MoveSource.Timeout, conf.MoveSource.Retries())
	gameManager := usecase.NewGameManager(logger, sessionRepo, moveSource, usecase.Options{
		OnFailure:     conf.MoveSource.OnFailure,
		AutoPlay:      conf.MoveSource.AutoPlay,
		RemoteTimeout: conf.MoveSource.AutoPlayTimeout,
	})
	defer gameManager.Close()

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage, "moveSource", conf.MoveSource.URL)

	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemorySessionRepository(conf.Session.TTL), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSessionRepository(redisStorage, conf.Session.TTL), redisStorage.Close, nil
}
