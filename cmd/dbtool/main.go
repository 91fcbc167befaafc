package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"parcel-sorting-service/internal/adapters/repositories"
	"parcel-sorting-service/internal/config"
	"parcel-sorting-service/internal/platform/db"
	"parcel-sorting-service/internal/platform/logging"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := logging.New(config.Get("LOG_LEVEL", "info"), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(context.Background(), databaseURL, db.DefaultPoolConfig())
	if err != nil {
		logger.Fatal("open database failed", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/parcels.csv")
	if err := initAndSeed(context.Background(), conn, seedPath, logger); err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, logger *zap.Logger) error {
	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	logger.Info("seeding parcels", zap.String("path", seedPath))
	n, err := repositories.SeedFromCSV(ctx, conn, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info("seeding complete", zap.Int("parcels", n))

	return nil
}
