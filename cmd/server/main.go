// Package main implements the entry point for the Wordloop API server,
// which manages vocabulary decks and schedules spaced-repetition study
// sessions over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/wordloop/wordloop-api/db"
	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool(
		"migrate-only",
		false,
		"apply pending database migrations and exit",
	)
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run wires the application together and starts the HTTP server.
// Startup is fail-fast: configuration, logging, the database
// connection, and schema migrations must all succeed before the
// server accepts traffic.
func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()

	database, err := setupDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.Migrate(ctx, database); err != nil {
		return err
	}
	if migrateOnly {
		appLogger.Info("Migrations applied, exiting")
		return nil
	}

	app, err := newApplication(cfg, appLogger, database)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
