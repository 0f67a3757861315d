package repositories

import "database/sql"

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_hours DOUBLE PRECISION NOT NULL
			CHECK (current_cycle_hours >= 0 AND current_cycle_hours <= 70),
		status TEXT NOT NULL,
		total_distance_miles DOUBLE PRECISION NOT NULL,
		estimated_duration_hours DOUBLE PRECISION NOT NULL,
		segments JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS daily_logs (
		id BIGSERIAL PRIMARY KEY,
		trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		log_date DATE NOT NULL,
		driving_hours DOUBLE PRECISION NOT NULL,
		on_duty_hours DOUBLE PRECISION NOT NULL,
		off_duty_hours DOUBLE PRECISION NOT NULL,
		sleeper_berth_hours DOUBLE PRECISION NOT NULL,
		cycle_hours_used DOUBLE PRECISION NOT NULL,
		is_restart BOOLEAN NOT NULL DEFAULT FALSE,
		remarks TEXT NOT NULL DEFAULT '',
		UNIQUE (trip_id, log_date),
		CHECK (on_duty_hours >= driving_hours)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS log_entries (
		id BIGSERIAL PRIMARY KEY,
		daily_log_id BIGINT NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
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
		id BIGSERIAL PRIMARY KEY,
		trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
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
        updated_at BIGINT NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        updated_at BIGINT NOT NULL
    );
	`,
	`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at DESC);`,
	`
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`,
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return execSchema(db, postgresSchema)
}
