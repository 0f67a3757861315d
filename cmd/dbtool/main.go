package main

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/repositories"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/platform/db"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares a Postgres database: schema plus the known-location seeds
// for the geocode cache.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	sqlDB := db.SQL(pool)
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	if err := initAndSeed(ctx, sqlDB, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding locations...")
	seeds, err := repositories.ReadLocationSeeds(seedPath)
	if err != nil {
		log.Fatalf("reading seeds failed: %v", err)
	}
	if err := repositories.SeedLocations(ctx, sqlDB, cache.Postgres, seeds); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. locations=%d", len(seeds))

	return nil
}
