// Package app assembles the trip planner from configuration. Commands share
// it so the server and the CLI plan trips with the same adapters.
package app

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/distance"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/adapters/render"
	"eld-trip-planner/internal/adapters/repositories"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/hos"
	"eld-trip-planner/internal/platform/db"
	"eld-trip-planner/internal/ports"
	"eld-trip-planner/internal/services"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/redis/go-redis/v9"
)

type App struct {
	Config    config.Config
	Rules     hos.Rules
	SQL       *sql.DB
	Dialect   cache.Dialect
	Repo      ports.TripRepository
	Estimator *services.DistanceEstimator
	Planner   *services.TripPlanner
	Renderer  ports.Renderer

	// EstimateCache is nil when Redis is not configured or unreachable.
	EstimateCache ports.EstimateCache

	closers []func()
}

// Open connects storage, seeds known locations, and builds the planner.
// The caller must Close the returned App.
func Open(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Rules, err = config.LoadRules(cfg.HOSRulesPath)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	if err := a.openStore(ctx); err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	seeds, err := loadSeeds(cfg.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	if err := repositories.SeedLocations(ctx, a.SQL, a.Dialect, seeds); err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	a.openEstimateCache(ctx)

	var geocoder ports.Geocoder
	var router ports.DistanceProvider
	if cfg.ORSAPIKey != "" {
		provider, err := distance.NewORSDistanceProvider(
			cfg.ORSAPIKey,
			cache.NewSQLDistanceCache(a.SQL, a.Dialect),
			cache.NewSQLGeocodeCache(a.SQL, a.Dialect),
		)
		if err != nil {
			return nil, fmt.Errorf("open app: %w", err)
		}
		geocoder, router = provider, provider
		log.Printf("routing=ors profile=driving-hgv")
	} else {
		geocoder = geocode.NewStaticGeocoder(seeds)
		log.Printf("routing=haversine locations=%d", len(seeds))
	}

	a.Estimator, err = services.NewDistanceEstimator(geocoder, router, a.EstimateCache)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	a.Planner, err = services.NewTripPlanner(a.Estimator, hos.NewScheduler(a.Rules), services.DefaultStopPlanner(), a.Repo)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	a.Renderer = render.NewPDFRenderer(a.Rules)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	dialect, err := cache.ParseDialect(a.Config.DBDriver)
	if err != nil {
		return err
	}
	a.Dialect = dialect

	if dialect == cache.Postgres {
		if a.Config.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		pool, err := db.Connect(ctx, a.Config.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)

		a.SQL = db.SQL(pool)
		a.closers = append(a.closers, func() { a.SQL.Close() })
		if err := repositories.InitPostgresSchema(a.SQL); err != nil {
			return err
		}
		a.Repo = repositories.NewPostgresTripRepository(pool)
		log.Printf("store=postgres")
		return nil
	}

	sqlDB, err := db.OpenSQLite(a.Config.DBPath)
	if err != nil {
		return err
	}
	a.SQL = sqlDB
	a.closers = append(a.closers, func() { sqlDB.Close() })
	if err := repositories.InitSchema(sqlDB); err != nil {
		return err
	}
	a.Repo = repositories.NewSqliteTripRepository(sqlDB)
	log.Printf("store=sqlite path=%s", a.Config.DBPath)
	return nil
}

// The estimate cache is optional; an unreachable Redis is logged and skipped.
func (a *App) openEstimateCache(ctx context.Context) {
	if a.Config.RedisAddr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("estimate cache disabled: redis addr=%s err=%v", a.Config.RedisAddr, err)
		client.Close()
		return
	}

	c, err := cache.NewRedisEstimateCache(client, a.Config.EstimateCacheTTL)
	if err != nil {
		log.Printf("estimate cache disabled: %v", err)
		client.Close()
		return
	}
	a.EstimateCache = c
	a.closers = append(a.closers, func() { client.Close() })
	log.Printf("estimate cache=redis addr=%s ttl=%s", a.Config.RedisAddr, a.Config.EstimateCacheTTL)
}

// A missing seed file falls back to the built-in city table.
func loadSeeds(path string) ([]geocode.Seed, error) {
	if path == "" {
		return geocode.DefaultCities, nil
	}
	seeds, err := repositories.ReadLocationSeeds(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("seed file not found path=%s, using built-in cities", path)
		return geocode.DefaultCities, nil
	}
	return seeds, err
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
