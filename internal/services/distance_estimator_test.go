package services

import (
	"context"
	"eld-trip-planner/internal/adapters/distance"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"errors"
	"testing"
)

func TestHaversineMiles(t *testing.T) {
	chicago := domain.Coordinates{Lat: 41.8781, Lon: -87.6298}
	indianapolis := domain.Coordinates{Lat: 39.7684, Lon: -86.1581}

	d := HaversineMiles(chicago, indianapolis)
	if !near(d, 164.83, 0.05) {
		t.Fatalf("chicago -> indianapolis = %v, want ~164.83", d)
	}
	if HaversineMiles(chicago, chicago) != 0 {
		t.Fatalf("distance to self should be 0")
	}
	if !near(HaversineMiles(indianapolis, chicago), d, 1e-9) {
		t.Fatalf("haversine should be symmetric")
	}
}

func TestDistanceEstimatorHaversineFallback(t *testing.T) {
	e := newStaticEstimator(t)

	est, err := e.ResolveDistance(context.Background(), "Chicago, IL", "Indianapolis, IN", "Atlanta, GA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(est.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(est.Segments))
	}
	if !near(est.Segments[0].DistanceMiles, 164.83, 0.05) {
		t.Fatalf("first leg = %v miles", est.Segments[0].DistanceMiles)
	}
	if !near(est.Segments[1].DistanceMiles, 427.29, 0.05) {
		t.Fatalf("second leg = %v miles", est.Segments[1].DistanceMiles)
	}
	if !near(est.TotalDistanceMiles, est.Segments[0].DistanceMiles+est.Segments[1].DistanceMiles, 1e-9) {
		t.Fatalf("total %v is not the sum of the legs", est.TotalDistanceMiles)
	}
	if !near(est.TotalDurationHours, est.TotalDistanceMiles/60, 1e-9) {
		t.Fatalf("duration %v should be distance / 60 mph", est.TotalDurationHours)
	}
}

func TestDistanceEstimatorUnknownLocation(t *testing.T) {
	e := newStaticEstimator(t)

	_, err := e.ResolveDistance(context.Background(), "Chicago, IL", "Atlantis", "Atlanta, GA")
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}

func TestDistanceEstimatorRouter(t *testing.T) {
	router := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "A", To: "B", Meters: 160934, Seconds: 7200},
		{From: "B", To: "C", Meters: 321869, Seconds: 14400},
	})
	e, err := NewDistanceEstimator(nil, router, nil)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	est, err := e.ResolveDistance(context.Background(), " A ", "B", "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(est.TotalDistanceMiles, 300, 0.001) {
		t.Fatalf("total distance = %v, want ~300", est.TotalDistanceMiles)
	}
	if est.TotalDurationHours != 6 {
		t.Fatalf("total duration = %v, want 6", est.TotalDurationHours)
	}
	if est.Segments[0].From != "A" {
		t.Fatalf("segment locations should be trimmed, got %q", est.Segments[0].From)
	}
}

func TestDistanceEstimatorRouterFailureIsServiceUnavailable(t *testing.T) {
	router := distance.NewMockDistanceProvider(nil)
	router.Err = errors.New("connection refused")

	// A geocoder is configured too; a failing router must not fall back to it.
	e, err := NewDistanceEstimator(geocode.NewStaticGeocoder(geocode.DefaultCities), router, nil)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	_, err = e.ResolveDistance(context.Background(), "Chicago, IL", "Indianapolis, IN", "Atlanta, GA")
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestDistanceEstimatorRouterUnknownPair(t *testing.T) {
	e, err := NewDistanceEstimator(nil, distance.NewMockDistanceProvider(nil), nil)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	_, err = e.ResolveDistance(context.Background(), "A", "B", "C")
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
	if errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("unknown location should not be reported as an outage")
	}
}

func TestDistanceEstimatorUsesCache(t *testing.T) {
	router := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "A", To: "B", Meters: 1000, Seconds: 60},
		{From: "B", To: "C", Meters: 1000, Seconds: 60},
	})
	cache := newMemEstimateCache()
	e, err := NewDistanceEstimator(nil, router, cache)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	ctx := context.Background()
	first, err := e.ResolveDistance(ctx, "A", "B", "C")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := e.ResolveDistance(ctx, "a", "  b", "C ")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if router.Calls() != 2 {
		t.Fatalf("expected 2 router calls (one per leg), got %d", router.Calls())
	}
	if first.TotalDistanceMiles != second.TotalDistanceMiles {
		t.Fatalf("cached estimate differs: %v vs %v", first, second)
	}

	if _, err := e.Refresh(ctx, "A", "B", "C"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if router.Calls() != 4 {
		t.Fatalf("refresh should bypass the cache, router calls = %d", router.Calls())
	}
}

func TestDistanceEstimatorCacheFailureIsNotFatal(t *testing.T) {
	cache := newMemEstimateCache()
	cache.failGet = true
	cache.failPut = true

	e, err := NewDistanceEstimator(geocode.NewStaticGeocoder(geocode.DefaultCities), nil, cache)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	if _, err := e.ResolveDistance(context.Background(), "Dallas, TX", "Houston, TX", "San Antonio, TX"); err != nil {
		t.Fatalf("cache failures should not fail estimation: %v", err)
	}
}

func TestEstimateKeyNormalizes(t *testing.T) {
	if EstimateKey("Chicago, IL", "Indianapolis, IN", "Atlanta, GA") != EstimateKey(" chicago,  il", "INDIANAPOLIS, IN", "atlanta, ga") {
		t.Fatalf("equivalent locations should share a key")
	}
	if EstimateKey("A", "B", "C") == EstimateKey("C", "B", "A") {
		t.Fatalf("order must matter")
	}
}

func TestNewDistanceEstimatorNeedsASource(t *testing.T) {
	if _, err := NewDistanceEstimator(nil, nil, nil); err == nil {
		t.Fatalf("expected an error without geocoder or router")
	}
}
