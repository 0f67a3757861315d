package main

import (
	"eld-trip-planner/internal/domain"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeBatch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadBatchFile(t *testing.T) {
	path := writeBatch(t, `
start_date: 2026-03-02
trips:
  - current_location: " Chicago, IL "
    pickup_location: Indianapolis, IN
    dropoff_location: Atlanta, GA
    current_cycle_hours: 12
  - current_location: New York, NY
    pickup_location: Philadelphia, PA
    dropoff_location: Washington, DC
    current_cycle_hours: 40
    start_date: 2026-03-09
`)

	items, err := readBatchFile(path, time.Now())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Request.CurrentLocation != "Chicago, IL" {
		t.Fatalf("location not trimmed: %q", items[0].Request.CurrentLocation)
	}
	if got := items[0].Start.Format(time.DateOnly); got != "2026-03-02" {
		t.Fatalf("file start date not applied: %s", got)
	}
	if got := items[1].Start.Format(time.DateOnly); got != "2026-03-09" {
		t.Fatalf("trip start date not applied: %s", got)
	}
}

func TestReadBatchFileDefaultsToToday(t *testing.T) {
	path := writeBatch(t, `
trips:
  - current_location: Denver, CO
    pickup_location: Dallas, TX
    dropoff_location: Houston, TX
    current_cycle_hours: 0
`)
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	items, err := readBatchFile(path, today)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !items[0].Start.Equal(today) {
		t.Fatalf("start = %s, want %s", items[0].Start, today)
	}
}

func TestReadBatchFileRejectsBadTrips(t *testing.T) {
	path := writeBatch(t, `
trips:
  - current_location: Denver, CO
    pickup_location: Dallas, TX
    dropoff_location: Houston, TX
    current_cycle_hours: -1
`)
	if _, err := readBatchFile(path, time.Now()); !errors.Is(err, domain.ErrInvalidCycleHours) {
		t.Fatalf("err = %v, want ErrInvalidCycleHours", err)
	}

	empty := writeBatch(t, "trips: []\n")
	if _, err := readBatchFile(empty, time.Now()); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}
