package cache

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EstimateTTL matches how long a route calculation is trusted.
const EstimateTTL = 24 * time.Hour

// RedisEstimateCache stores whole-trip RouteEstimates as JSON under the
// caller's key, expiring after TTL.
type RedisEstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEstimateCache(client *redis.Client, ttl time.Duration) (*RedisEstimateCache, error) {
	if client == nil {
		return nil, errors.New("redis estimate cache: client is nil")
	}
	if ttl <= 0 {
		ttl = EstimateTTL
	}
	return &RedisEstimateCache{client: client, ttl: ttl}, nil
}

type estimateSegmentJSON struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

type estimateJSON struct {
	TotalDistanceMiles float64               `json:"total_distance_miles"`
	TotalDurationHours float64               `json:"total_duration_hours"`
	Segments           []estimateSegmentJSON `json:"segments"`
}

func (c *RedisEstimateCache) Get(ctx context.Context, key string) (_ domain.RouteEstimate, _ bool, err error) {
	defer obs.Time(ctx, "estimate.cache.Get")(&err)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RouteEstimate{}, false, nil
	}
	if err != nil {
		return domain.RouteEstimate{}, false, fmt.Errorf("get estimate cache %s: %w", key, err)
	}

	var v estimateJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.RouteEstimate{}, false, fmt.Errorf("get estimate cache %s: decode: %w", key, err)
	}

	segments := make([]domain.RouteSegment, 0, len(v.Segments))
	for _, s := range v.Segments {
		segments = append(segments, domain.RouteSegment(s))
	}

	// Rebuild through the constructor so corrupt entries are rejected.
	est, err := domain.NewRouteEstimate(segments)
	if err != nil {
		return domain.RouteEstimate{}, false, fmt.Errorf("get estimate cache %s: %w", key, err)
	}
	return est, true, nil
}

func (c *RedisEstimateCache) Put(ctx context.Context, key string, est domain.RouteEstimate) error {
	v := estimateJSON{
		TotalDistanceMiles: est.TotalDistanceMiles,
		TotalDurationHours: est.TotalDurationHours,
		Segments:           make([]estimateSegmentJSON, 0, len(est.Segments)),
	}
	for _, s := range est.Segments {
		v.Segments = append(v.Segments, estimateSegmentJSON(s))
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("put estimate cache %s: encode: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put estimate cache %s: %w", key, err)
	}
	return nil
}
