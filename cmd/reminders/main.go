// Command reminders runs the reminder and pending-expiry sweeps once and exits.
// It is meant for platforms that schedule container jobs instead of calling the cron endpoints.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"agencyhub/internal/config"
	"agencyhub/internal/database"
	"agencyhub/internal/pkg/logger"
	"agencyhub/internal/server"
)

func main() {
	skipExpiry := flag.Bool("skip-expiry", false, "only send reminders")
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

	app, err := server.New(server.Deps{Config: cfg, DB: db, Log: zl})
	if err != nil {
		zl.Fatal("init failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reminders, err := app.Appointments.SendReminders(ctx)
	if err != nil {
		zl.Fatal("reminder sweep failed", zap.Error(err))
	}
	zl.Info("reminders completed", zap.Int("sent", reminders.Sent), zap.Int("failed", reminders.Failed))

	if *skipExpiry {
		return
	}
	expiry, err := app.Appointments.ExpirePending(ctx)
	if err != nil {
		zl.Fatal("pending expiry failed", zap.Error(err))
	}
	zl.Info("pending expiry completed", zap.Int("cancelled", expiry.Cancelled), zap.Int("failed", expiry.Failed))
}
