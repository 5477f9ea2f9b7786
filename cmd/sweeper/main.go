// Standalone hold sweeper, for running the reclaim loop outside the API
// server. Safe to run alongside one or more servers: the sweep is a single
// conditional UPDATE, so concurrent sweepers just split the rows.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stagepass/internal/notifications"
	"stagepass/internal/reservations"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	producer, err := notifications.NewProducer(&cfg.Kafka)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka producer", slog.Any("error", err))
		producer = nil
	}
	defer producer.Close()

	engine := reservations.NewService(seats.NewRepository(db.PostgreSQL), cfg)
	engine.SetCacheService(cache.NewService(db.Redis))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := reservations.NewSweeper(engine, producer, cfg.Reservation.SweepInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Sweeper shutting down")
}
