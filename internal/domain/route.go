package domain

import (
	"fmt"
	"math"
)

// One leg of an estimated route, e.g. current location to pickup.
type RouteSegment struct {
	From          string
	To            string
	DistanceMiles float64
	DurationHours float64
}

// RouteEstimate is the output of distance estimation for a whole trip.
// It is immutable once computed.
type RouteEstimate struct {
	TotalDistanceMiles float64
	TotalDurationHours float64
	Segments           []RouteSegment
}

// NewRouteEstimate sums the segments into an estimate.
// Negative or non-finite segment values are rejected.
func NewRouteEstimate(segments []RouteSegment) (RouteEstimate, error) {
	est := RouteEstimate{Segments: make([]RouteSegment, 0, len(segments))}
	for i, s := range segments {
		if !validHours(s.DistanceMiles) || !validHours(s.DurationHours) {
			return RouteEstimate{}, fmt.Errorf(
				"%w: segment %d %q -> %q distance=%v duration=%v",
				ErrInvalidHours, i+1, s.From, s.To, s.DistanceMiles, s.DurationHours,
			)
		}
		est.TotalDistanceMiles += s.DistanceMiles
		est.TotalDurationHours += s.DurationHours
		est.Segments = append(est.Segments, s)
	}
	return est, nil
}

type StopType string

const (
	StopCurrent StopType = "current"
	StopPickup  StopType = "pickup"
	StopFuel    StopType = "fuel"
	StopRest    StopType = "rest"
	StopDropoff StopType = "dropoff"
)

// Represents a single point along a trip.
// SequenceOrder is unique per trip and defines the visiting order.
type RouteStop struct {
	Location        string
	StopType        StopType
	SequenceOrder   int
	DurationMinutes int
}

func validHours(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
