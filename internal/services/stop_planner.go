package services

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
)

// StopPlanner lays out the ordered stops of a trip: the current location,
// pickup, fuel stops, rest stops, and the dropoff last.
type StopPlanner struct {
	FuelIntervalMiles float64
	RestIntervalHours float64
	PickupMinutes     int
	DropoffMinutes    int
	FuelMinutes       int
	RestMinutes       int
}

func DefaultStopPlanner() StopPlanner {
	return StopPlanner{
		FuelIntervalMiles: 1000,
		RestIntervalHours: 8,
		PickupMinutes:     60,
		DropoffMinutes:    60,
		FuelMinutes:       30,
		RestMinutes:       30,
	}
}

// FuelStops is one stop per full fuel interval of the total distance.
func (p StopPlanner) FuelStops(miles float64) int {
	if p.FuelIntervalMiles <= 0 || !(miles > 0) {
		return 0
	}
	return int(math.Floor(miles / p.FuelIntervalMiles))
}

// RestStops is one stop per rest interval of driving beyond the first.
func (p StopPlanner) RestStops(hours float64) int {
	if p.RestIntervalHours <= 0 || !(hours > 0) {
		return 0
	}
	return max(0, int(math.Floor(hours/p.RestIntervalHours))-1)
}

func (p StopPlanner) Plan(req domain.TripRequest, est domain.RouteEstimate) []domain.RouteStop {
	fuel := p.FuelStops(est.TotalDistanceMiles)
	rest := p.RestStops(est.TotalDurationHours)

	stops := make([]domain.RouteStop, 0, 3+fuel+rest)
	add := func(location string, t domain.StopType, minutes int) {
		stops = append(stops, domain.RouteStop{
			Location:        location,
			StopType:        t,
			SequenceOrder:   len(stops) + 1,
			DurationMinutes: minutes,
		})
	}

	add(req.CurrentLocation, domain.StopCurrent, 0)
	add(req.PickupLocation, domain.StopPickup, p.PickupMinutes)
	for i := range fuel {
		add(fmt.Sprintf("Fuel Stop %d", i+1), domain.StopFuel, p.FuelMinutes)
	}
	for i := range rest {
		add(fmt.Sprintf("Rest Stop %d", i+1), domain.StopRest, p.RestMinutes)
	}
	add(req.DropoffLocation, domain.StopDropoff, p.DropoffMinutes)

	return stops
}
