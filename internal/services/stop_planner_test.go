package services

import (
	"eld-trip-planner/internal/domain"
	"testing"
)

func TestStopPlannerFuelStops(t *testing.T) {
	p := DefaultStopPlanner()

	cases := map[float64]int{0: 0, 999: 0, 1000: 1, 2500: 2, 3999.9: 3}
	for miles, want := range cases {
		if got := p.FuelStops(miles); got != want {
			t.Errorf("FuelStops(%v) = %d, want %d", miles, got, want)
		}
	}
}

func TestStopPlannerRestStops(t *testing.T) {
	p := DefaultStopPlanner()

	cases := map[float64]int{0: 0, 7.9: 0, 15.9: 0, 16: 1, 41.5: 4}
	for hours, want := range cases {
		if got := p.RestStops(hours); got != want {
			t.Errorf("RestStops(%v) = %d, want %d", hours, got, want)
		}
	}
}

func TestStopPlannerOrder(t *testing.T) {
	req := domain.TripRequest{CurrentLocation: "Los Angeles, CA", PickupLocation: "Phoenix, AZ", DropoffLocation: "New York, NY"}
	est := domain.RouteEstimate{TotalDistanceMiles: 2500, TotalDurationHours: 41.7}

	stops := DefaultStopPlanner().Plan(req, est)

	want := []struct {
		loc  string
		kind domain.StopType
		min  int
	}{
		{"Los Angeles, CA", domain.StopCurrent, 0},
		{"Phoenix, AZ", domain.StopPickup, 60},
		{"Fuel Stop 1", domain.StopFuel, 30},
		{"Fuel Stop 2", domain.StopFuel, 30},
		{"Rest Stop 1", domain.StopRest, 30},
		{"Rest Stop 2", domain.StopRest, 30},
		{"Rest Stop 3", domain.StopRest, 30},
		{"Rest Stop 4", domain.StopRest, 30},
		{"New York, NY", domain.StopDropoff, 60},
	}

	if len(stops) != len(want) {
		t.Fatalf("expected %d stops, got %d: %+v", len(want), len(stops), stops)
	}
	for i, w := range want {
		s := stops[i]
		if s.Location != w.loc || s.StopType != w.kind || s.DurationMinutes != w.min || s.SequenceOrder != i+1 {
			t.Fatalf("stop %d = %+v, want %s/%s/%d seq %d", i, s, w.loc, w.kind, w.min, i+1)
		}
	}
}

func TestStopPlannerShortTrip(t *testing.T) {
	req := domain.TripRequest{CurrentLocation: "A", PickupLocation: "B", DropoffLocation: "C"}
	stops := DefaultStopPlanner().Plan(req, domain.RouteEstimate{TotalDistanceMiles: 999, TotalDurationHours: 3})

	if len(stops) != 3 {
		t.Fatalf("expected current, pickup and dropoff only, got %+v", stops)
	}
	if stops[2].StopType != domain.StopDropoff || stops[2].SequenceOrder != 3 {
		t.Fatalf("dropoff should be last, got %+v", stops[2])
	}
}
