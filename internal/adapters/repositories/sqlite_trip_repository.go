package repositories

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

// Fixed-width UTC timestamps so created_at sorts correctly as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// SavePlan stores the trip, its daily logs with their entries, and its stops
// in one transaction.
func (s *SqliteTripRepository) SavePlan(ctx context.Context, trip domain.Trip, plan domain.TripScheduleResult) (err error) {
	defer obs.Time(ctx, "sqlite.SavePlan")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.createTrip(ctx, tx, trip, plan.Estimate.Segments); err != nil {
		return err
	}

	for _, day := range plan.Days {
		id, err := s.createDailyLogRecord(ctx, tx, trip.ID, day)
		if err != nil {
			return err
		}
		if err := s.createLogEntries(ctx, tx, id, day.Entries); err != nil {
			return err
		}
	}

	if err := s.createRouteStops(ctx, tx, trip.ID, plan.Stops); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plan: commit tx: %w", err)
	}
	return nil
}

func (s *SqliteTripRepository) createTrip(ctx context.Context, tx *sql.Tx, trip domain.Trip, segments []domain.RouteSegment) error {
	raw, err := encodeSegments(segments)
	if err != nil {
		return fmt.Errorf("create trip %s: %w", trip.ID, err)
	}

	query := `
	INSERT INTO trips (
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_hours,
		status,
		total_distance_miles,
		estimated_duration_hours,
		segments,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, query,
		trip.ID,
		trip.Request.CurrentLocation,
		trip.Request.PickupLocation,
		trip.Request.DropoffLocation,
		trip.Request.CurrentCycleHours,
		string(trip.Status),
		trip.TotalDistanceMiles,
		trip.EstimatedDurationHours,
		raw,
		trip.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("create trip %s: %w", trip.ID, err)
	}
	return nil
}

func (s *SqliteTripRepository) createDailyLogRecord(ctx context.Context, tx *sql.Tx, tripID string, rec domain.DailyLogRecord) (int64, error) {
	query := `
	INSERT INTO daily_logs (
		trip_id,
		log_date,
		driving_hours,
		on_duty_hours,
		off_duty_hours,
		sleeper_berth_hours,
		cycle_hours_used,
		is_restart,
		remarks
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	res, err := tx.ExecContext(ctx, query,
		tripID,
		rec.Date.Format(time.DateOnly),
		rec.DrivingHours,
		rec.OnDutyHours,
		rec.OffDutyHours,
		rec.SleeperBerthHours,
		rec.CycleHoursUsed,
		rec.Restart,
		rec.Remarks,
	)
	if err != nil {
		return 0, fmt.Errorf("create daily log %s: %w", rec.Date.Format(time.DateOnly), err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create daily log %s: last insert id: %w", rec.Date.Format(time.DateOnly), err)
	}
	return id, nil
}

func (s *SqliteTripRepository) createLogEntries(ctx context.Context, tx *sql.Tx, recordID int64, entries []domain.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO log_entries (
		daily_log_id,
		seq,
		start_seconds,
		end_seconds,
		duty_status,
		location,
		remarks
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("create log entries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, recordID, i+1, seconds(e.Start), seconds(e.End), string(e.DutyStatus), e.Location, e.Remarks); err != nil {
			return fmt.Errorf("create log entries: daily_log_id=%d seq=%d: %w", recordID, i+1, err)
		}
	}
	return nil
}

func (s *SqliteTripRepository) createRouteStops(ctx context.Context, tx *sql.Tx, tripID string, stops []domain.RouteStop) error {
	if len(stops) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (
		trip_id,
		sequence_order,
		location,
		stop_type,
		duration_minutes
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("create route stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stops {
		if _, err := stmt.ExecContext(ctx, tripID, st.SequenceOrder, st.Location, string(st.StopType), st.DurationMinutes); err != nil {
			return fmt.Errorf("create route stops: trip_id=%s seq=%d: %w", tripID, st.SequenceOrder, err)
		}
	}
	return nil
}

const sqliteTripColumns = `
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_hours,
		status,
		total_distance_miles,
		estimated_duration_hours,
		segments,
		created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqliteTrip(row rowScanner) (domain.Trip, string, error) {
	var t domain.Trip
	var status, segments, created string
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
		&created,
	)
	if err != nil {
		return domain.Trip{}, "", err
	}

	t.Status = domain.TripStatus(status)
	t.CreatedAt, err = time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return domain.Trip{}, "", fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return t, segments, nil
}

func (s *SqliteTripRepository) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	t, _, err := s.getTrip(ctx, id)
	return t, err
}

func (s *SqliteTripRepository) getTrip(ctx context.Context, id string) (domain.Trip, string, error) {
	if s.DB == nil {
		return domain.Trip{}, "", errors.New("sqlite trip repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT`+sqliteTripColumns+` FROM trips WHERE id = ?;`, id)
	t, segments, err := scanSqliteTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trip{}, "", fmt.Errorf("get trip %s: %w", id, domain.ErrTripNotFound)
	}
	if err != nil {
		return domain.Trip{}, "", fmt.Errorf("get trip %s: %w", id, err)
	}
	return t, segments, nil
}

func (s *SqliteTripRepository) GetPlan(ctx context.Context, id string) (_ domain.TripScheduleResult, err error) {
	defer obs.Time(ctx, "sqlite.GetPlan")(&err)

	trip, rawSegments, err := s.getTrip(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, err
	}

	segments, err := decodeSegments(rawSegments)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	days, err := s.listDailyLogs(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	stops, err := s.listRouteStops(ctx, id)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, err)
	}

	return domain.TripScheduleResult{
		Estimate: planFromTrip(trip, segments),
		Days:     days,
		Stops:    stops,
	}, nil
}

func (s *SqliteTripRepository) listDailyLogs(ctx context.Context, tripID string) ([]domain.DailyLogRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		log_date,
		driving_hours,
		on_duty_hours,
		sleeper_berth_hours,
		cycle_hours_used,
		is_restart,
		remarks
	FROM daily_logs
	WHERE trip_id = ?
	ORDER BY log_date;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: query daily_logs table: %w", err)
	}
	defer rows.Close()

	logs := make([]*dailyLogRow, 0, 8)
	byID := make(map[int64]*dailyLogRow)
	for rows.Next() {
		var r dailyLogRow
		var date string
		if err := rows.Scan(&r.id, &date, &r.driving, &r.onDuty, &r.sleeper, &r.cycle, &r.restart, &r.remarks); err != nil {
			return nil, fmt.Errorf("list daily logs: scan row: %w", err)
		}
		r.date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("list daily logs: parse date %q: %w", date, err)
		}
		logs = append(logs, &r)
		byID[r.id] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily logs: row iteration: %w", err)
	}

	entryRows, err := s.DB.QueryContext(ctx, `
	SELECT
		e.daily_log_id,
		e.start_seconds,
		e.end_seconds,
		e.duty_status,
		e.location,
		e.remarks
	FROM log_entries e
	JOIN daily_logs d ON d.id = e.daily_log_id
	WHERE d.trip_id = ?
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

func (s *SqliteTripRepository) listRouteStops(ctx context.Context, tripID string) ([]domain.RouteStop, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		sequence_order,
		location,
		stop_type,
		duration_minutes
	FROM route_stops
	WHERE trip_id = ?
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
func (s *SqliteTripRepository) ListRecentTrips(ctx context.Context, limit int) ([]domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}
	if limit <= 0 {
		return []domain.Trip{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT`+sqliteTripColumns+` FROM trips ORDER BY created_at DESC, id LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, limit)
	for rows.Next() {
		t, _, err := scanSqliteTrip(rows)
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
