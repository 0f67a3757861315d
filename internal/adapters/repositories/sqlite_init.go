package repositories

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_hours REAL NOT NULL,
		status TEXT NOT NULL,
		total_distance_miles REAL NOT NULL,
		estimated_duration_hours REAL NOT NULL,
		segments TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS daily_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		log_date TEXT NOT NULL,
		driving_hours REAL NOT NULL,
		on_duty_hours REAL NOT NULL,
		off_duty_hours REAL NOT NULL,
		sleeper_berth_hours REAL NOT NULL,
		cycle_hours_used REAL NOT NULL,
		is_restart INTEGER NOT NULL DEFAULT 0,
		remarks TEXT NOT NULL DEFAULT '',
		UNIQUE (trip_id, log_date)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS log_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		daily_log_id INTEGER NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		start_seconds INTEGER NOT NULL,
		end_seconds INTEGER NOT NULL,
		duty_status TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		UNIQUE (daily_log_id, seq)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_stops (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		sequence_order INTEGER NOT NULL,
		location TEXT NOT NULL,
		stop_type TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		UNIQUE (trip_id, sequence_order)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        updated_at INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        updated_at INTEGER NOT NULL
    );
	`,
	`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at);`,
	`
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`,
}

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return execSchema(db, sqliteSchema)
}

func execSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReadLocationSeeds loads a JSON list of {address, lat, lon}.
func ReadLocationSeeds(jsonPath string) ([]geocode.Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read location seeds %q: %w", jsonPath, err)
	}

	var data []geocode.Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read location seeds: parse json: %w", err)
	}

	rows := make([]geocode.Seed, 0, len(data))
	for i, item := range data {
		addr := strings.Join(strings.Fields(item.Address), " ")
		if addr == "" {
			return nil, fmt.Errorf("read location seeds: item at index %d: address cannot be empty", i+1)
		}
		if item.Lat < -90 || item.Lat > 90 || item.Lon < -180 || item.Lon > 180 {
			return nil, fmt.Errorf("read location seeds: %q: coordinates out of range (%v, %v)", addr, item.Lat, item.Lon)
		}
		rows = append(rows, geocode.Seed{Address: addr, Lat: item.Lat, Lon: item.Lon})
	}

	return rows, nil
}

// SeedLocations stores known coordinates in the geocode cache so lookups for
// them never reach the external geocoder.
func SeedLocations(ctx context.Context, db *sql.DB, dialect cache.Dialect, seeds []geocode.Seed) error {
	if len(seeds) == 0 {
		return nil
	}

	results := make(map[string]domain.Coordinates, len(seeds))
	for _, s := range seeds {
		results[s.Address] = domain.Coordinates{Lon: s.Lon, Lat: s.Lat}
	}

	gc := cache.NewSQLGeocodeCache(db, dialect)
	if err := gc.PutMany(ctx, results); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	return nil
}
