package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewTripRequest(t *testing.T) {
	req, err := NewTripRequest("  Chicago, IL ", "Indianapolis, IN", "Atlanta, GA", 10.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.CurrentLocation != "Chicago, IL" {
		t.Fatalf("current location not trimmed: %q", req.CurrentLocation)
	}

	for _, h := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		if _, err := NewTripRequest("A", "B", "C", h); !errors.Is(err, ErrInvalidCycleHours) {
			t.Errorf("cycle %v: err = %v, want ErrInvalidCycleHours", h, err)
		}
	}

	// The cap is enforced by the planner against its rule set.
	for _, h := range []float64{0, 70, 75} {
		if _, err := NewTripRequest("A", "B", "C", h); err != nil {
			t.Errorf("cycle %v should be accepted: %v", h, err)
		}
	}

	if _, err := NewTripRequest("A", " ", "C", 1); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNewRouteEstimate(t *testing.T) {
	est, err := NewRouteEstimate([]RouteSegment{
		{From: "A", To: "B", DistanceMiles: 100, DurationHours: 2},
		{From: "B", To: "C", DistanceMiles: 50, DurationHours: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.TotalDistanceMiles != 150 || est.TotalDurationHours != 3 {
		t.Fatalf("totals = %v/%v, want 150/3", est.TotalDistanceMiles, est.TotalDurationHours)
	}

	if _, err := NewRouteEstimate([]RouteSegment{{DistanceMiles: -1}}); !errors.Is(err, ErrInvalidHours) {
		t.Fatalf("err = %v, want ErrInvalidHours", err)
	}
}

func TestTripName(t *testing.T) {
	trip := Trip{Request: TripRequest{CurrentLocation: "A", PickupLocation: "B", DropoffLocation: "C"}, CreatedAt: time.Now()}
	if trip.Name() != "A → B → C" {
		t.Fatalf("name = %q", trip.Name())
	}
}
