package services

import (
	"context"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/hos"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type memEstimateCache struct {
	mu      sync.Mutex
	m       map[string]domain.RouteEstimate
	failGet bool
	failPut bool
}

func newMemEstimateCache() *memEstimateCache {
	return &memEstimateCache{m: map[string]domain.RouteEstimate{}}
}

func (c *memEstimateCache) Get(ctx context.Context, key string) (domain.RouteEstimate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return domain.RouteEstimate{}, false, errors.New("cache down")
	}
	est, ok := c.m[key]
	return est, ok, nil
}

func (c *memEstimateCache) Put(ctx context.Context, key string, est domain.RouteEstimate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPut {
		return errors.New("cache down")
	}
	c.m[key] = est
	return nil
}

type memTripRepo struct {
	mu    sync.Mutex
	trips map[string]domain.Trip
	plans map[string]domain.TripScheduleResult
	order []string
	err   error
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: map[string]domain.Trip{}, plans: map[string]domain.TripScheduleResult{}}
}

func (r *memTripRepo) SavePlan(ctx context.Context, trip domain.Trip, plan domain.TripScheduleResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.trips[trip.ID] = trip
	r.plans[trip.ID] = plan
	r.order = append(r.order, trip.ID)
	return nil
}

func (r *memTripRepo) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("get trip %s: %w", id, domain.ErrTripNotFound)
	}
	return t, nil
}

func (r *memTripRepo) GetPlan(ctx context.Context, id string) (domain.TripScheduleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return domain.TripScheduleResult{}, fmt.Errorf("get plan %s: %w", id, domain.ErrTripNotFound)
	}
	return p, nil
}

func (r *memTripRepo) ListRecentTrips(ctx context.Context, limit int) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := slices.Clone(r.order)
	slices.Reverse(ids)
	out := make([]domain.Trip, 0, limit)
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, r.trips[id])
	}
	return out, nil
}

func (r *memTripRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trips)
}

// countingEstimator records how often estimation was attempted.
type countingEstimator struct {
	mu    sync.Mutex
	calls int
	est   domain.RouteEstimate
	err   error
}

func (c *countingEstimator) ResolveDistance(ctx context.Context, origin, pickup, dropoff string) (domain.RouteEstimate, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.est, c.err
}

func newStaticEstimator(t *testing.T) *DistanceEstimator {
	t.Helper()
	e, err := NewDistanceEstimator(geocode.NewStaticGeocoder(geocode.DefaultCities), nil, nil)
	if err != nil {
		t.Fatalf("new estimator: %v", err)
	}
	return e
}

func newPlanner(t *testing.T, est ports.RouteEstimator, repo *memTripRepo) *TripPlanner {
	t.Helper()
	var p *TripPlanner
	var err error
	if repo == nil {
		p, err = NewTripPlanner(est, hos.NewScheduler(hos.DefaultRules()), DefaultStopPlanner(), nil)
	} else {
		p, err = NewTripPlanner(est, hos.NewScheduler(hos.DefaultRules()), DefaultStopPlanner(), repo)
	}
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	return p
}

func near(a, b, tol float64) bool {
	d := a - b
	return d <= tol && d >= -tol
}
