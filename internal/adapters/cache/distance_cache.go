package cache

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DistanceTTL is how long a road-network result stays valid.
const DistanceTTL = 24 * time.Hour

// SQLDistanceCache is a SQL-backed cache for origin->destination distance results.
// Keys are expected to be normalized by the caller.
type SQLDistanceCache struct {
	DB      *sql.DB
	Dialect Dialect
	MaxAge  time.Duration
	now     func() time.Time
}

func NewSQLDistanceCache(db *sql.DB, dialect Dialect) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db, Dialect: dialect, MaxAge: DistanceTTL, now: time.Now}
}

// Fetch cached distances for one origin and multiple destinations.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	cond, args := s.Dialect.inList("destination", 3, uniq)
	args = append([]any{origin, s.cutoff()}, args...)

	q := fmt.Sprintf(`
	SELECT destination, distance_meters, duration_seconds
    FROM distance_cache
    WHERE origin = %s
        AND updated_at >= %s
        AND %s;
	`, s.Dialect.ph(1), s.Dialect.ph(2), cond)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var meters, seconds int
		if err := rows.Scan(&dest, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = ports.DistanceResult{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	d := s.Dialect
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds, updated_at)
    VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds,
		updated_at = excluded.updated_at;
	`, d.ph(1), d.ph(2), d.ph(3), d.ph(4), d.ph(5)))
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := s.clock().Unix()
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds, now); err != nil {
			return fmt.Errorf("insert distance cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}

func (s *SQLDistanceCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *SQLDistanceCache) cutoff() int64 {
	if s.MaxAge <= 0 {
		return 0
	}
	return s.clock().Add(-s.MaxAge).Unix()
}
