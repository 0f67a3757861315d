package services

import (
	"context"
	"crypto/sha256"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
)

// DistanceEstimator resolves the current -> pickup -> dropoff route.
//
// With a routing provider configured every leg is a road-network lookup and
// a provider failure aborts the estimate. Without one, each location is
// geocoded and the legs are great-circle distances driven at 60 mph.
//
// The estimate cache is optional; cache failures are logged and never fail
// an estimate.
type DistanceEstimator struct {
	geocoder ports.Geocoder
	router   ports.DistanceProvider
	cache    ports.EstimateCache
}

func NewDistanceEstimator(
	geocoder ports.Geocoder,
	router ports.DistanceProvider,
	cache ports.EstimateCache,
) (*DistanceEstimator, error) {
	if geocoder == nil && router == nil {
		return nil, errors.New("distance estimator: a geocoder or a routing provider is required")
	}

	return &DistanceEstimator{geocoder: geocoder, router: router, cache: cache}, nil
}

// EstimateKey is the cache key for a trip's three locations.
func EstimateKey(origin, pickup, dropoff string) string {
	sum := sha256.Sum256([]byte(normalize(origin) + "|" + normalize(pickup) + "|" + normalize(dropoff)))
	return "route_estimate:" + hex.EncodeToString(sum[:])
}

func (e *DistanceEstimator) ResolveDistance(
	ctx context.Context,
	origin string,
	pickup string,
	dropoff string,
) (_ domain.RouteEstimate, err error) {
	defer obs.Time(ctx, "estimator.ResolveDistance")(&err)

	key := EstimateKey(origin, pickup, dropoff)
	if e.cache != nil {
		est, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			log.Printf("estimate cache read failed key=%s: %v", key, err)
		} else if ok {
			return est, nil
		}
	}

	return e.refresh(ctx, key, origin, pickup, dropoff)
}

// Refresh recomputes an estimate and overwrites its cache entry.
func (e *DistanceEstimator) Refresh(ctx context.Context, origin, pickup, dropoff string) (domain.RouteEstimate, error) {
	return e.refresh(ctx, EstimateKey(origin, pickup, dropoff), origin, pickup, dropoff)
}

func (e *DistanceEstimator) refresh(ctx context.Context, key, origin, pickup, dropoff string) (domain.RouteEstimate, error) {
	for _, loc := range []string{origin, pickup, dropoff} {
		if normalize(loc) == "" {
			return domain.RouteEstimate{}, fmt.Errorf("resolve distance: %w: empty location", domain.ErrInvalidRequest)
		}
	}

	first, err := e.leg(ctx, origin, pickup)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("resolve distance: %w", err)
	}

	second, err := e.leg(ctx, pickup, dropoff)
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("resolve distance: %w", err)
	}

	est, err := domain.NewRouteEstimate([]domain.RouteSegment{first, second})
	if err != nil {
		return domain.RouteEstimate{}, fmt.Errorf("resolve distance: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, est); err != nil {
			log.Printf("estimate cache write failed key=%s: %v", key, err)
		}
	}

	return est, nil
}

func (e *DistanceEstimator) leg(ctx context.Context, from, to string) (domain.RouteSegment, error) {
	seg := domain.RouteSegment{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}

	if e.router != nil {
		r, err := e.router.GetDistance(ctx, seg.From, seg.To)
		if err != nil {
			return domain.RouteSegment{}, routingError(ctx, seg, err)
		}
		seg.DistanceMiles = float64(r.DistanceMeters) / metersPerMile
		seg.DurationHours = float64(r.DurationSeconds) / 3600
		return seg, nil
	}

	a, err := e.geocoder.Geocode(ctx, seg.From)
	if err != nil {
		return domain.RouteSegment{}, fmt.Errorf("geocode %q: %w", seg.From, err)
	}
	b, err := e.geocoder.Geocode(ctx, seg.To)
	if err != nil {
		return domain.RouteSegment{}, fmt.Errorf("geocode %q: %w", seg.To, err)
	}

	seg.DistanceMiles = HaversineMiles(a, b)
	seg.DurationHours = seg.DistanceMiles / fallbackSpeedMPH
	return seg, nil
}

// routingError keeps ErrLocationNotFound and context errors as they are and
// reports everything else as the routing service being unavailable.
func routingError(ctx context.Context, seg domain.RouteSegment, err error) error {
	if errors.Is(err, domain.ErrLocationNotFound) || ctx.Err() != nil {
		return fmt.Errorf("route %q -> %q: %w", seg.From, seg.To, err)
	}
	return fmt.Errorf("route %q -> %q: %w: %w", seg.From, seg.To, domain.ErrServiceUnavailable, err)
}

// normalize collapses whitespace and case so equivalent inputs share a cache key.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
