package distance

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"log"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSDistanceProvider implements DistanceProvider and Geocoder using
// OpenRouteService road routing for heavy goods vehicles.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent distance matrix caching
//   - External API calls with retry/backoff
//
// Addresses the geocoder cannot resolve wrap domain.ErrLocationNotFound;
// failed or exhausted API calls wrap domain.ErrServiceUnavailable.
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	retry         retryPolicy
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

// Either cache may be nil.
func NewORSDistanceProvider(
	apiKey string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	return NewORSDistanceProviderWithURL(apiKey, defaultORSBaseURL, distanceCache, geocodeCache)
}

// NewORSDistanceProviderWithURL targets a self-hosted or test ORS instance.
func NewORSDistanceProviderWithURL(
	apiKey string,
	baseURL string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		profile:       "driving-hgv",
		retry:         defaultRetry,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}

	return provider, nil
}

// Geocode resolves one address, consulting the geocode cache first.
func (o *ORSDistanceProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := o.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("ORS geocode: %w: empty address", domain.ErrLocationNotFound)
	}

	coords, err := o.resolve(ctx, []string{norm})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("ORS geocode: %w", err)
	}
	return coords[norm], nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetDistance returns the truck route for one leg. A driver already at the
// destination has a zero-length leg and no API call is made.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	from, to := o.normalize(origin), o.normalize(destination)
	if from == "" || to == "" {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance %q -> %q: %w: origin and destination must be non-empty", origin, destination, domain.ErrLocationNotFound)
	}
	if from == to {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, from, []string{to})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance %q -> %q: %w", from, to, err)
	}
	return results[to], nil
}

// GetDistances returns routes from one origin to many destinations. Cached
// legs are served from the distance cache; the rest are fetched with a single
// matrix call and written back.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	from := o.normalize(origin)
	if from == "" {
		return nil, errors.New("get ORS distances: origin must be non-empty")
	}

	targets := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if nd := o.normalize(d); nd != "" && nd != from && !slices.Contains(targets, nd) {
			targets = append(targets, nd)
		}
	}

	out := make(map[string]ports.DistanceResult, len(targets))
	if len(targets) == 0 {
		return out, nil
	}

	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, from, targets)
		if err != nil {
			log.Printf("distance cache read failed: origin=%q err=%v", from, err)
		} else {
			maps.Copy(out, hits)
		}
	}

	misses := slices.DeleteFunc(slices.Clone(targets), func(d string) bool {
		_, ok := out[d]
		return ok
	})
	if len(misses) == 0 {
		return out, nil
	}

	coords, err := o.resolve(ctx, append([]string{from}, misses...))
	if err != nil {
		return nil, fmt.Errorf("get ORS distances: %w", err)
	}

	missCoords := make([]domain.Coordinates, len(misses))
	for i, d := range misses {
		missCoords[i] = coords[d]
	}

	fetched, err := o.fetchMatrixRow(ctx, coords[from], misses, missCoords)
	if err != nil {
		return nil, fmt.Errorf("get ORS distances: %w", err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, from, fetched); err != nil {
			log.Printf("distance cache write failed: origin=%q err=%v", from, err)
		}
	}

	maps.Copy(out, fetched)
	return out, nil
}

// resolve returns coordinates for every normalized address, reading the
// geocode cache first and geocoding only the misses. Cache failures are
// logged and treated as misses.
func (o *ORSDistanceProvider) resolve(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(addresses))
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			log.Printf("geocode cache read failed: err=%v", err)
		} else {
			maps.Copy(coords, hits)
		}
	}

	var misses []string
	for _, a := range addresses {
		if _, ok := coords[a]; !ok && !slices.Contains(misses, a) {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 {
		return coords, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: err=%v", err)
		}
	}

	maps.Copy(coords, fresh)
	return coords, nil
}
