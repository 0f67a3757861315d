package repositories

import (
	"context"
	"database/sql"
	"eld-trip-planner/internal/adapters/cache"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/hos"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func samplePlan(t *testing.T) (domain.Trip, domain.TripScheduleResult) {
	t.Helper()

	est, err := domain.NewRouteEstimate([]domain.RouteSegment{
		{From: "Chicago, IL", To: "Indianapolis, IN", DistanceMiles: 164.8, DurationHours: 2.75},
		{From: "Indianapolis, IN", To: "Atlanta, GA", DistanceMiles: 1200, DurationHours: 20},
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	days, err := hos.NewScheduler(hos.DefaultRules()).ScheduleTrip(start, est, 60)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	trip := domain.Trip{
		ID: "5b0e6f0c-2a57-4e0a-9d0f-8f1f4d1f9a10",
		Request: domain.TripRequest{
			CurrentLocation:   "Chicago, IL",
			PickupLocation:    "Indianapolis, IN",
			DropoffLocation:   "Atlanta, GA",
			CurrentCycleHours: 60,
		},
		Status:                 domain.TripPlanned,
		TotalDistanceMiles:     est.TotalDistanceMiles,
		EstimatedDurationHours: est.TotalDurationHours,
		CreatedAt:              time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	stops := []domain.RouteStop{
		{Location: "Chicago, IL", StopType: domain.StopCurrent, SequenceOrder: 1},
		{Location: "Indianapolis, IN", StopType: domain.StopPickup, SequenceOrder: 2, DurationMinutes: 60},
		{Location: "Fuel Stop 1", StopType: domain.StopFuel, SequenceOrder: 3, DurationMinutes: 30},
		{Location: "Rest Stop 1", StopType: domain.StopRest, SequenceOrder: 4, DurationMinutes: 30},
		{Location: "Atlanta, GA", StopType: domain.StopDropoff, SequenceOrder: 5, DurationMinutes: 60},
	}

	return trip, domain.TripScheduleResult{Estimate: est, Days: days, Stops: stops}
}

func TestSqliteTripRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteTripRepository(db)
	ctx := context.Background()

	trip, plan := samplePlan(t)
	if err := repo.SavePlan(ctx, trip, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}

	got, err := repo.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if got.Request != trip.Request || got.Status != trip.Status || !got.CreatedAt.Equal(trip.CreatedAt) {
		t.Fatalf("trip = %+v, want %+v", got, trip)
	}

	loaded, err := repo.GetPlan(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}

	if len(loaded.Estimate.Segments) != 2 || loaded.Estimate.Segments[1].To != "Atlanta, GA" {
		t.Fatalf("segments = %+v", loaded.Estimate.Segments)
	}
	if len(loaded.Days) != len(plan.Days) {
		t.Fatalf("loaded %d days, saved %d", len(loaded.Days), len(plan.Days))
	}
	for i := range plan.Days {
		want, have := plan.Days[i], loaded.Days[i]
		if !have.Date.Equal(want.Date) || have.DrivingHours != want.DrivingHours || have.Restart != want.Restart {
			t.Fatalf("day %d = %+v, want %+v", i+1, have, want)
		}
		if len(have.Entries) != len(want.Entries) {
			t.Fatalf("day %d has %d entries, want %d", i+1, len(have.Entries), len(want.Entries))
		}
		for j := range want.Entries {
			if have.Entries[j] != want.Entries[j] {
				t.Fatalf("day %d entry %d = %+v, want %+v", i+1, j+1, have.Entries[j], want.Entries[j])
			}
		}
	}

	if err := hos.ValidateSchedule(hos.DefaultRules(), loaded.Days); err != nil {
		t.Fatalf("loaded schedule does not validate: %v", err)
	}

	if len(loaded.Stops) != 5 || loaded.Stops[4].StopType != domain.StopDropoff {
		t.Fatalf("stops = %+v", loaded.Stops)
	}
}

func TestSqliteTripRepositorySaveIsAtomic(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteTripRepository(db)
	ctx := context.Background()

	trip, plan := samplePlan(t)
	// Duplicate sequence numbers violate the unique constraint on the last insert.
	plan.Stops = append(plan.Stops, domain.RouteStop{Location: "again", StopType: domain.StopRest, SequenceOrder: 2})

	if err := repo.SavePlan(ctx, trip, plan); err == nil {
		t.Fatalf("expected save to fail")
	}

	if _, err := repo.GetTrip(ctx, trip.ID); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM daily_logs;`).Scan(&n); err != nil {
		t.Fatalf("count daily logs: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no daily logs after a failed save, got %d", n)
	}
}

func TestSqliteTripRepositoryListRecent(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteTripRepository(db)
	ctx := context.Background()

	base, plan := samplePlan(t)
	for i, id := range []string{"trip-a", "trip-b", "trip-c"} {
		trip := base
		trip.ID = id
		trip.CreatedAt = base.CreatedAt.Add(time.Duration(i) * time.Hour)
		if err := repo.SavePlan(ctx, trip, plan); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	trips, err := repo.ListRecentTrips(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(trips) != 2 || trips[0].ID != "trip-c" || trips[1].ID != "trip-b" {
		t.Fatalf("recent trips = %+v", trips)
	}

	if _, err := repo.GetPlan(ctx, "nope"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}
}

func TestSeedLocations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "locations.json")
	body := `[{"address":"  Chicago,  IL ","lat":41.8781,"lon":-87.6298},{"address":"Atlanta, GA","lat":33.749,"lon":-84.388}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	seeds, err := ReadLocationSeeds(path)
	if err != nil {
		t.Fatalf("read seeds: %v", err)
	}
	if seeds[0].Address != "Chicago, IL" {
		t.Fatalf("address not normalized: %q", seeds[0].Address)
	}

	if err := SeedLocations(ctx, db, cache.SQLite, seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}

	hits, err := cache.NewSQLGeocodeCache(db, cache.SQLite).GetMany(ctx, []string{"Chicago, IL", "Atlanta, GA", "Denver, CO"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(hits) != 2 || hits["Atlanta, GA"].Lat != 33.749 {
		t.Fatalf("hits = %+v", hits)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`[{"address":"X","lat":123,"lon":0}]`), 0o600)
	if _, err := ReadLocationSeeds(bad); err == nil {
		t.Fatalf("expected out-of-range latitude to be rejected")
	}

	// Seeds double as a static geocoder table.
	g := geocode.NewStaticGeocoder(seeds)
	if _, err := g.Geocode(ctx, "atlanta"); err != nil {
		t.Fatalf("static geocode from seeds: %v", err)
	}
}
