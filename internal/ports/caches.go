package ports

import (
	"context"
	"eld-trip-planner/internal/domain"
)

// GeocodeCache stores address -> coordinate lookups.
// Address keys are expected to be normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// DistanceCache stores origin -> destination results.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// EstimateCache stores whole-trip route estimates.
// A miss is reported as ok=false with a nil error.
type EstimateCache interface {
	Get(ctx context.Context, key string) (domain.RouteEstimate, bool, error)
	Put(ctx context.Context, key string, est domain.RouteEstimate) error
}
