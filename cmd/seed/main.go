// Seeds a demo event with a generated floor plan, for local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"stagepass/internal/events"
	"stagepass/internal/floorplan"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventService := events.NewService(events.NewRepository(db.PostgreSQL))
	event, err := eventService.CreateEvent(ctx, events.CreateEventRequest{
		Name:     "Midnight Symphony",
		Venue:    "Grand Hall",
		DateTime: time.Now().UTC().AddDate(0, 1, 0),
	})
	if err != nil {
		appLogger.Error("failed to create event", slog.Any("error", err))
		os.Exit(1)
	}

	planConfig := floorplan.Config{
		Sections: []floorplan.SectionConfig{
			{Name: "Orchestra", Rows: 10, SeatsPerRow: 20, Category: floorplan.CategoryVIP, OriginX: 0, OriginY: 0},
			{Name: "Mezzanine", Rows: 8, SeatsPerRow: 24, Category: floorplan.CategoryPremium, OriginX: 0, OriginY: 30},
			{Name: "Balcony", Rows: 12, SeatsPerRow: 28, Category: floorplan.CategoryStandard, OriginX: 0, OriginY: 60},
		},
	}

	seatService := seats.NewService(seats.NewRepository(db.PostgreSQL))
	result, err := seatService.GenerateSeats(ctx, event.ID.String(), planConfig)
	if err != nil {
		appLogger.Error("failed to generate seats", slog.Any("error", err))
		os.Exit(1)
	}

	appLogger.Info("seed complete",
		slog.String("event_id", event.ID.String()),
		slog.String("plan_hash", result.PlanHash),
		slog.Int("seats", result.SeatCount),
	)
}
