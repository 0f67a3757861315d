package distance

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeLimit bounds concurrent /geocode/search calls per resolve.
const geocodeLimit = 4

// geocodeMany looks up each distinct address with /geocode/search. The first
// failure cancels the lookups still in flight.
func (o *ORSDistanceProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	var (
		mu   sync.Mutex
		out  = make(map[string]domain.Coordinates, len(addresses))
		seen = make(map[string]bool, len(addresses))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeLimit)
	for _, a := range addresses {
		norm := o.normalize(a)
		if seen[norm] {
			continue
		}
		seen[norm] = true

		g.Go(func() error {
			c, err := o.geocodeOne(gctx, endpoint, norm)
			if err != nil {
				return err
			}
			mu.Lock()
			out[norm] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (o *ORSDistanceProvider) geocodeOne(ctx context.Context, endpoint, address string) (domain.Coordinates, error) {
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("boundary.country", "US")
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w: %w", domain.ErrServiceUnavailable, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q: %w", address, domain.ErrLocationNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q: %w", address, domain.ErrServiceUnavailable)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
