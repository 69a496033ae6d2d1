// Command migrate applies the database schema for the vendor backend.
// It runs the same AutoMigrate the server performs on startup, so it can be
// used to prepare a database ahead of a deployment or from CI.
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/verdantmarket/backend/internal/infrastructure/config"
	"github.com/verdantmarket/backend/internal/infrastructure/logger"
	"github.com/verdantmarket/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logLevel, cfg.Log.Format, cfg.Log.Output)
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Database.Driver == config.DriverMemory {
		log.Fatal("Nothing to migrate for the memory driver")
	}

	db, err := persistence.NewDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	log.Info("Running migrations",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dbname", cfg.Database.DBName),
	)

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migrations applied successfully")
}
