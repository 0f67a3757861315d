package cache

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GeocodeTTL is how long a resolved address stays valid.
const GeocodeTTL = 7 * 24 * time.Hour

// SQLGeocodeCache is a SQL-backed cache mapping normalized addresses to coordinates.
// Rows older than MaxAge are treated as misses; a zero MaxAge keeps rows forever.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect Dialect
	MaxAge  time.Duration
	now     func() time.Time
}

func NewSQLGeocodeCache(db *sql.DB, dialect Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, Dialect: dialect, MaxAge: GeocodeTTL, now: time.Now}
}

// Fetch cached coordinates for the given addresses.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	cond, args := s.Dialect.inList("address", 2, uniq)
	args = append([]any{s.cutoff()}, args...)

	q := fmt.Sprintf(`
	SELECT address, lon, lat
    FROM geocode_cache
    WHERE updated_at >= %s
        AND %s;
	`, s.Dialect.ph(1), cond)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var addr string
		var lon, lat float64
		if err := rows.Scan(&addr, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = domain.Coordinates{Lon: lon, Lat: lat}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store address -> coordinate mappings, refreshing their age.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	d := s.Dialect
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO geocode_cache (address, lon, lat, updated_at)
    VALUES (%s, %s, %s, %s)
	ON CONFLICT (address) DO UPDATE
	SET lon = excluded.lon,
		lat = excluded.lat,
		updated_at = excluded.updated_at;
	`, d.ph(1), d.ph(2), d.ph(3), d.ph(4)))
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := s.clock().Unix()
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat, now); err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}

func (s *SQLGeocodeCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *SQLGeocodeCache) cutoff() int64 {
	if s.MaxAge <= 0 {
		return 0
	}
	return s.clock().Add(-s.MaxAge).Unix()
}
