package services

import (
	"context"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"log"
)

// Route is the three locations of a trip.
type Route struct {
	Current string
	Pickup  string
	Dropoff string
}

// PopularRoutes are always kept warm.
var PopularRoutes = []Route{
	{Current: "Chicago, IL", Pickup: "Indianapolis, IN", Dropoff: "Atlanta, GA"},
	{Current: "New York, NY", Pickup: "Philadelphia, PA", Dropoff: "Washington, DC"},
	{Current: "Los Angeles, CA", Pickup: "Phoenix, AZ", Dropoff: "Denver, CO"},
}

// CacheWarmer recomputes route estimates for popular routes and the most
// recently planned trips so the estimate cache stays hot.
type CacheWarmer struct {
	estimator *DistanceEstimator
	repo      ports.TripRepository
	routes    []Route
	limit     int
}

func NewCacheWarmer(estimator *DistanceEstimator, repo ports.TripRepository, routes []Route, limit int) (*CacheWarmer, error) {
	if estimator == nil {
		return nil, errors.New("cache warmer: estimator is nil")
	}

	return &CacheWarmer{estimator: estimator, repo: repo, routes: routes, limit: limit}, nil
}

// Warm refreshes every known route once and returns how many succeeded.
// A route that fails is logged and skipped; only a failure to list recent
// trips is returned.
func (w *CacheWarmer) Warm(ctx context.Context) (warmed int, err error) {
	defer obs.Time(ctx, "warmer.Warm")(&err)

	routes := append([]Route(nil), w.routes...)
	if w.repo != nil && w.limit > 0 {
		trips, err := w.repo.ListRecentTrips(ctx, w.limit)
		if err != nil {
			return 0, fmt.Errorf("warm cache: list recent trips: %w", err)
		}
		for _, t := range trips {
			routes = append(routes, Route{
				Current: t.Request.CurrentLocation,
				Pickup:  t.Request.PickupLocation,
				Dropoff: t.Request.DropoffLocation,
			})
		}
	}

	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}

		key := EstimateKey(r.Current, r.Pickup, r.Dropoff)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if _, err := w.estimator.Refresh(ctx, r.Current, r.Pickup, r.Dropoff); err != nil {
			log.Printf("warm cache: route %q -> %q -> %q: %v", r.Current, r.Pickup, r.Dropoff, err)
			continue
		}
		warmed++
	}

	return warmed, nil
}
