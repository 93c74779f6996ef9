// Command seed installs a default Monday-Friday schedule into an empty database.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"agencyhub/internal/config"
	"agencyhub/internal/database"
	"agencyhub/internal/domain/schedule"
	"agencyhub/internal/pkg/logger"
	"agencyhub/internal/server"
)

func main() {
	start := flag.String("start", "09:00", "daily start time (HH:MM)")
	end := flag.String("end", "17:00", "daily end time (HH:MM)")
	slot := flag.Int("slot", 30, "slot length in minutes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.IsProdLike(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := server.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	templates := schedule.NewTemplateRepository(db)
	existing, err := templates.List(ctx)
	if err != nil {
		zl.Fatal("list templates failed", zap.Error(err))
	}
	if len(existing) > 0 {
		zl.Info("schedule already configured, nothing to do", zap.Int("templates", len(existing)))
		return
	}

	svc := schedule.NewService(templates, schedule.NewBlockedDateRepository(db), cfg.Location, zl)
	for day := time.Monday; day <= time.Friday; day++ {
		d := int(day)
		if _, err := svc.CreateTemplate(ctx, schedule.TemplateRequest{
			DayOfWeek:       &d,
			StartTime:       *start,
			EndTime:         *end,
			DurationMinutes: *slot,
		}); err != nil {
			zl.Fatal("create template failed", zap.String("day", day.String()), zap.Error(err))
		}
	}
	zl.Info("default schedule seeded")
}
