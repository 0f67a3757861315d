package ports

import (
	"context"
	"eld-trip-planner/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving road-network distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

// Geocoder resolves a free-form location to coordinates.
// Unknown locations are reported with an error wrapping domain.ErrLocationNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (domain.Coordinates, error)
}

// RouteEstimator turns the three trip locations into a RouteEstimate.
type RouteEstimator interface {
	ResolveDistance(ctx context.Context, origin, pickup, dropoff string) (domain.RouteEstimate, error)
}
