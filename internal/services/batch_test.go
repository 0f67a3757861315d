package services

import (
	"context"
	"eld-trip-planner/internal/domain"
	"errors"
	"testing"
)

func TestPlanBatchKeepsOrder(t *testing.T) {
	repo := newMemTripRepo()
	p := newPlanner(t, newStaticEstimator(t), repo)

	routes := [][3]string{
		{"Chicago, IL", "Indianapolis, IN", "Atlanta, GA"},
		{"New York, NY", "Philadelphia, PA", "Washington, DC"},
		{"Los Angeles, CA", "Phoenix, AZ", "Denver, CO"},
		{"Dallas, TX", "Houston, TX", "San Antonio, TX"},
	}

	items := make([]BatchItem, 0, len(routes))
	for _, r := range routes {
		req, err := domain.NewTripRequest(r[0], r[1], r[2], 20)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		items = append(items, BatchItem{Request: req, Start: monday})
	}

	results, err := p.PlanBatch(context.Background(), items, 2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Trip.Request.CurrentLocation != routes[i][0] {
			t.Fatalf("result %d is for %q, want %q", i, r.Trip.Request.CurrentLocation, routes[i][0])
		}
		if len(r.Plan.Days) == 0 {
			t.Fatalf("result %d has no days", i)
		}
	}
	if repo.count() != len(items) {
		t.Fatalf("expected %d stored trips, got %d", len(items), repo.count())
	}
}

func TestPlanBatchReturnsFirstError(t *testing.T) {
	p := newPlanner(t, newStaticEstimator(t), nil)

	good, _ := domain.NewTripRequest("Chicago, IL", "Indianapolis, IN", "Atlanta, GA", 0)
	bad := domain.TripRequest{CurrentLocation: "Atlantis", PickupLocation: "Chicago, IL", DropoffLocation: "Atlanta, GA"}

	_, err := p.PlanBatch(context.Background(), []BatchItem{
		{Request: good, Start: monday},
		{Request: bad, Start: monday},
	}, 4, false)
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}
