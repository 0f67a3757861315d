package repositories

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/db"
	"eld-trip-planner/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Postgres-backed implementation of the TripRepository port on a pgx pool.
type PostgresTripRepository struct {
	q db.Querier
}

func NewPostgresTripRepository(q db.Querier) *PostgresTripRepository {
	return &PostgresTripRepository{q: q}
}

// SavePlan stores the trip, its daily logs with their entries, and its stops
// in one transaction.
func (p *PostgresTripRepository) SavePlan(ctx context.Context, trip domain.Trip, plan domain.TripScheduleResult) (err error) {
	defer obs.Time(ctx, "postgres.SavePlan")(&err)

	if p.q == nil {
		return errors.New("postgres trip repository: pool is nil")
	}

	tx, err := p.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	raw, err := encodeSegments(plan.Estimate.Segments)
	if err != nil {
		return fmt.Errorf("save plan %s: %w", trip.ID, err)
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO trips (
		id, current_location, pickup_location, dropoff_location, current_cycle_hours,
		status, total_distance_miles, estimated_duration_hours, segments, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10);
	`,
		trip.ID,
		trip.Request.CurrentLocation,
		trip.Request.PickupLocation,
		trip.Request.DropoffLocation,
		trip.Request.CurrentCycleHours,
		string(trip.Status),
		trip.TotalDistanceMiles,
		trip.EstimatedDurationHours,
		raw,
		trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create trip %s: %w", trip.ID, err)
	}

	for _, day := range plan.Days {
		var id int64
		err := tx.QueryRow(ctx, `
		INSERT INTO daily_logs (
			trip_id, log_date, driving_hours, on_duty_hours, off_duty_hours,
			sleeper_berth_hours, cycle_hours_used, is_restart, remarks
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
		`,
			trip.ID,
			day.Date,
			day.DrivingHours,
			day.OnDutyHours,
			day.OffDutyHours,
			day.SleeperBerthHours,
			day.CycleHoursUsed,
			day.Restart,
			day.Remarks,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("create daily log %s: %w", day.Date.Format(time.DateOnly), err)
		}

		for i, e := range day.Entries {
			_, err := tx.Exec(ctx, `
			INSERT INTO log_entries (daily_log_id, seq, start_seconds, end_seconds, duty_status, location, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
			`, id, i+1, seconds(e.Start), seconds(e.End), string(e.DutyStatus), e.Location, e.Remarks)
			if err != nil {
				return fmt.Errorf("create log entries: daily_log_id=%d seq=%d: %w", id, i+1, err)
			}
		}
	}

	for _, st := range plan.Stops {
		_, err := tx.Exec(ctx, `
		INSERT INTO route_stops (trip_id, sequence_order, location, stop_type, duration_minutes)
		VALUES ($1, $2, $3, $4, $5);
		`, trip.ID, st.SequenceOrder, st.Location, string(st.StopType), st.DurationMinutes)
		if err != nil {
			return fmt.Errorf("create route stops: trip_id=%s seq=%d: %w", trip.ID, st.SequenceOrder, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save plan: commit tx: %w", err)
	}
	return nil
}

const postgresTripColumns = `id::text, current_location, pickup_location, dropoff_location, current_cycle_hours,
		status, total_distance_miles, estimated_duration_hours, segments::text, created_at`

func scanPostgresTrip(row pgx.Row) (domain.Trip, string, error) {
	var t domain.Trip
	var status, segments string
	err := row.Scan(
		&t.ID,
		&t.Request.CurrentLocation,
		&t.Request.PickupLocation,
		&t.Request.DropoffLocation,
		&t.Request.CurrentCycleHours,
		&status,
		&t.TotalDistanceMiles,
		&t.EstimatedDurationHours,
		&segments,
		&t.CreatedAt,
	)
	if err != nil {
		return domain.Trip{}, "", err
	}
	t.Status = domain.TripStatus(status)
	return t, segments, nil
}

func (p *PostgresTripRepository) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	t, _, err := p.getTrip(ctx, id)
	return t, err
}

func (p *PostgresTripRepository) getTrip(ctx context.Context, id string) (domain.Trip, string, error) {
	if p.q == nil {
		return domain.Trip{}, "", errors.New("postgres trip repository: pool is nil")
	}

	row := p.q.QueryRow(ctx, `SELECT `+postgresTripColumns+` FROM trips WHERE id::text = $1;`, id)
	t, segments, err := scanPostgresTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Trip{}, "", fmt.Errorf("get trip %s: %w", id, domain.ErrTripNotFound)
	}
	if err != nil {
		return domain.Trip{}, "", fmt.Errorf("get trip %s: %w", id, err)
	}
	return t, segments, nil
}

func (p *PostgresTripRepository) GetPlan(ctx context.Context, id string) (_ domain.TripScheduleResult, err error) {
	defer obs.Time(ctx, "postgres.GetPlan")(&err)

	trip, rawSegments, err := p.getTrip(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, err
	}

	segments, err := decodeSegments(rawSegments)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	logs, err := p.listDailyLogs(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	stops, err := p.listRouteStops(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	return domain.TripScheduleResult{
		Estimate: planFromTrip(trip, segments),
		Days:     logs,
		Stops:    stops,
	}, nil
}

func (p *PostgresTripRepository) listDailyLogs(ctx context.Context, tripID string) ([]domain.DailyLogRecord, error) {
	rows, err := p.q.Query(ctx, `
	SELECT id, log_date, driving_hours, on_duty_hours, sleeper_berth_hours,
		cycle_hours_used, is_restart, remarks
	FROM daily_logs
	WHERE trip_id::text = $1
	ORDER BY log_date;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: query daily_logs table: %w", err)
	}

	logs := make([]*dailyLogRow, 0, 8)
	byID := make(map[int64]*dailyLogRow)
	for rows.Next() {
		var r dailyLogRow
		if err := rows.Scan(&r.id, &r.date, &r.driving, &r.onDuty, &r.sleeper, &r.cycle, &r.restart, &r.remarks); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list daily logs: scan row: %w", err)
		}
		logs = append(logs, &r)
		byID[r.id] = &r
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily logs: row iteration: %w", err)
	}

	entryRows, err := p.q.Query(ctx, `
	SELECT e.daily_log_id, e.start_seconds, e.end_seconds, e.duty_status, e.location, e.remarks
	FROM log_entries e
	JOIN daily_logs d ON d.id = e.daily_log_id
	WHERE d.trip_id::text = $1
	ORDER BY e.daily_log_id, e.seq;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list log entries: query log_entries table: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var logID, start, end int64
		var status, location, remarks string
		if err := entryRows.Scan(&logID, &start, &end, &status, &location, &remarks); err != nil {
			return nil, fmt.Errorf("list log entries: scan row: %w", err)
		}
		if r, ok := byID[logID]; ok {
			r.entries = append(r.entries, entryFromRow(start, end, status, location, remarks))
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("list log entries: row iteration: %w", err)
	}

	out := make([]domain.DailyLogRecord, 0, len(logs))
	for _, r := range logs {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (p *PostgresTripRepository) listRouteStops(ctx context.Context, tripID string) ([]domain.RouteStop, error) {
	rows, err := p.q.Query(ctx, `
	SELECT sequence_order, location, stop_type, duration_minutes
	FROM route_stops
	WHERE trip_id::text = $1
	ORDER BY sequence_order;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list route stops: query route_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.RouteStop, 0, 8)
	for rows.Next() {
		var st domain.RouteStop
		var kind string
		if err := rows.Scan(&st.SequenceOrder, &st.Location, &kind, &st.DurationMinutes); err != nil {
			return nil, fmt.Errorf("list route stops: scan row: %w", err)
		}
		st.StopType = domain.StopType(kind)
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route stops: row iteration: %w", err)
	}
	return stops, nil
}

// Return up to limit trips, newest first.
func (p *PostgresTripRepository) ListRecentTrips(ctx context.Context, limit int) ([]domain.Trip, error) {
	if p.q == nil {
		return nil, errors.New("postgres trip repository: pool is nil")
	}
	if limit <= 0 {
		return []domain.Trip{}, nil
	}

	rows, err := p.q.Query(ctx, `SELECT `+postgresTripColumns+` FROM trips ORDER BY created_at DESC, id LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, limit)
	for rows.Next() {
		t, _, err := scanPostgresTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list recent trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent trips: row iteration: %w", err)
	}
	return trips, nil
}
