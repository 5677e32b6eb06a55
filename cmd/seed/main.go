// Command seed creates the schema and loads the demo catalog.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/streaming-catalog/internal/config"
	"github.com/iliyamo/streaming-catalog/internal/database"
	"github.com/iliyamo/streaming-catalog/internal/logger"
	"github.com/iliyamo/streaming-catalog/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Get()

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}
	hash, err := utils.HashPassword(database.SeedPassword, cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("hash seed password")
	}
	seeded, err := database.Seed(ctx, db, hash)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	if !seeded {
		log.Info("catalog already present; nothing to seed")
		return
	}
	log.WithField("email", database.SeedEmail).Info("demo data loaded")
}
