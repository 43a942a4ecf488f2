// Package main implements the entry point for the Scribe API server: a blog
// service where users author posts in categories, comment on posts, and
// receive a welcome email queued as a background job at registration.
package main

import (
	"context"
	"log"

	"github.com/scribehq/scribe-api/internal/config"
	"github.com/scribehq/scribe-api/internal/platform/logger"
	"github.com/scribehq/scribe-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to connect to database", "error", err)
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := migrations.Up(db, appLogger); err != nil {
		appLogger.Error("failed to apply migrations", "error", err)
		log.Fatalf("failed to apply migrations: %v", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("server error", "error", err)
		log.Fatalf("server error: %v", err)
	}
}
