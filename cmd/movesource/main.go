package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/movesource"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
	transport "github.com/rocketscienceinc/tictactoe-core/transport/movesource"
)

// main runs the reference move source that answers with random free cells.
func main() {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(filepath.Join(baseDir, "./config.yml"))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting move source server", "port", conf.MoveSourceServer.Port)

	if err = rest.Start(ctx, conf.MoveSourceServer.Port, transport.NewRouter(logger, movesource.Random)); err != nil {
		logger.Error("move source server error", "error", err)
		os.Exit(1)
	}
}
