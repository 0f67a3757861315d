package services

import (
	"context"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"testing"
)

func TestCacheWarmerWarmsPopularAndRecentRoutes(t *testing.T) {
	cache := newMemEstimateCache()
	e, err := NewDistanceEstimator(geocode.NewStaticGeocoder(geocode.DefaultCities), nil, cache)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}

	repo := newMemTripRepo()
	ctx := context.Background()
	for i, r := range []domain.TripRequest{
		{CurrentLocation: "Dallas, TX", PickupLocation: "Houston, TX", DropoffLocation: "San Antonio, TX"},
		// Duplicate of a popular route.
		{CurrentLocation: "chicago, il", PickupLocation: "Indianapolis, IN", DropoffLocation: "Atlanta, GA"},
		// Cannot be geocoded; logged and skipped.
		{CurrentLocation: "Atlantis", PickupLocation: "Houston, TX", DropoffLocation: "Dallas, TX"},
	} {
		if err := repo.SavePlan(ctx, domain.Trip{ID: string(rune('a' + i)), Request: r}, domain.TripScheduleResult{}); err != nil {
			t.Fatalf("seed repo: %v", err)
		}
	}

	w, err := NewCacheWarmer(e, repo, PopularRoutes, 10)
	if err != nil {
		t.Fatalf("new warmer: %v", err)
	}

	warmed, err := w.Warm(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warmed != 4 {
		t.Fatalf("warmed = %d, want 4", warmed)
	}
	if len(cache.m) != 4 {
		t.Fatalf("cache holds %d estimates, want 4", len(cache.m))
	}
	if _, ok := cache.m[EstimateKey("Dallas, TX", "Houston, TX", "San Antonio, TX")]; !ok {
		t.Fatalf("recent trip route was not warmed")
	}
}
