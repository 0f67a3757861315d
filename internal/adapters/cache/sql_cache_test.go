package cache

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openCacheDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE distance_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_meters INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
		`CREATE TABLE geocode_cache (
			address TEXT PRIMARY KEY,
			lon REAL NOT NULL,
			lat REAL NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openCacheDB(t), SQLite)

	err := c.PutMany(ctx, map[string]domain.Coordinates{
		"chicago, il": {Lat: 41.8781, Lon: -87.6298},
		"dallas, tx":  {Lat: 32.7767, Lon: -96.7970},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"chicago, il", "chicago, il", "boise, id"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hit, got %d: %+v", len(got), got)
	}
	if got["chicago, il"].Lat != 41.8781 {
		t.Fatalf("chicago = %+v", got["chicago, il"])
	}

	// Upsert replaces the row.
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"chicago, il": {Lat: 1, Lon: 2}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = c.GetMany(ctx, []string{"chicago, il"})
	if got["chicago, il"].Lon != 2 {
		t.Fatalf("upsert not applied: %+v", got)
	}
}

func TestSQLGeocodeCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openCacheDB(t), SQLite)

	written := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return written }
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"denver, co": {Lat: 39.7, Lon: -104.9}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.now = func() time.Time { return written.Add(GeocodeTTL - time.Minute) }
	if got, _ := c.GetMany(ctx, []string{"denver, co"}); len(got) != 1 {
		t.Fatalf("expected hit before ttl, got %+v", got)
	}

	c.now = func() time.Time { return written.Add(GeocodeTTL + time.Minute) }
	if got, _ := c.GetMany(ctx, []string{"denver, co"}); len(got) != 0 {
		t.Fatalf("expected miss after ttl, got %+v", got)
	}
}

func TestSQLGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := NewSQLGeocodeCache(openCacheDB(t), SQLite)
	if err := c.PutMany(context.Background(), map[string]domain.Coordinates{" ": {}}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestSQLDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLDistanceCache(openCacheDB(t), SQLite)

	err := c.PutMany(ctx, "chicago, il", map[string]ports.DistanceResult{
		"dallas, tx":      {DistanceMeters: 1_480_000, DurationSeconds: 52_000},
		"kansas city, mo": {DistanceMeters: 820_000, DurationSeconds: 29_000},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, "chicago, il", []string{"dallas, tx", "omaha, ne"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got["dallas, tx"].DurationSeconds != 52_000 {
		t.Fatalf("got %+v", got)
	}

	// Keys are directional.
	got, err = c.GetMany(ctx, "dallas, tx", []string{"chicago, il"})
	if err != nil {
		t.Fatalf("get reverse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected reverse miss, got %+v", got)
	}

	if _, err := c.GetMany(ctx, "", []string{"x"}); err == nil {
		t.Fatalf("expected error for empty origin")
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": SQLite, "sqlite": SQLite, "postgres": Postgres, "pgx": Postgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}
