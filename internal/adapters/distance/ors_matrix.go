package distance

import (
	"bytes"
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

// matrixRequest asks for one source row: index 0 is the origin, the rest are
// destinations. Units are metres and seconds.
type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Units        string      `json:"units,omitempty"`
}

func newMatrixRequest(origin domain.Coordinates, dests []domain.Coordinates) matrixRequest {
	req := matrixRequest{
		Locations:    make([][]float64, 0, 1+len(dests)),
		Sources:      []int{0},
		Destinations: make([]int, 0, len(dests)),
		Metrics:      []string{"distance", "duration"},
		Units:        "m",
	}
	req.Locations = append(req.Locations, origin.CoordsToList())
	for i, c := range dests {
		req.Locations = append(req.Locations, c.CoordsToList())
		req.Destinations = append(req.Destinations, i+1)
	}
	return req
}

// ORS reports unroutable pairs as null cells.
type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// row maps the single source row onto the destination names, rounding to
// whole metres and seconds.
func (m matrixResponse) row(destinations []string) (map[string]ports.DistanceResult, error) {
	if len(m.Distances) != 1 || len(m.Durations) != 1 {
		return nil, fmt.Errorf("%w: matrix returned %d distance rows and %d duration rows, want 1",
			domain.ErrServiceUnavailable, len(m.Distances), len(m.Durations))
	}
	dist, dur := m.Distances[0], m.Durations[0]
	if len(dist) != len(destinations) || len(dur) != len(destinations) {
		return nil, fmt.Errorf("%w: matrix row has %d/%d cells for %d destinations",
			domain.ErrServiceUnavailable, len(dist), len(dur), len(destinations))
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for i, dest := range destinations {
		if dist[i] == nil || dur[i] == nil {
			return nil, fmt.Errorf("no truck route to %q: %w", dest, domain.ErrLocationNotFound)
		}
		out[dest] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*dist[i])),
			DurationSeconds: int(math.Round(*dur[i])),
		}
	}
	return out, nil
}

// fetchMatrixRow asks the ORS matrix endpoint for the legs from one origin to
// every destination in a single call.
func (o *ORSDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	originCoord domain.Coordinates,
	destinations []string,
	destinationCoords []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	if len(destinations) != len(destinationCoords) {
		return nil, fmt.Errorf("fetch matrix row: %d destinations but %d coordinates", len(destinations), len(destinationCoords))
	}
	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	payload, err := json.Marshal(newMatrixRequest(originCoord, destinationCoords))
	if err != nil {
		return nil, fmt.Errorf("fetch matrix row: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("fetch matrix row: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("fetch matrix row: decode: %w: %w", domain.ErrServiceUnavailable, err)
	}

	out, err := mr.row(destinations)
	if err != nil {
		return nil, fmt.Errorf("fetch matrix row: %w", err)
	}
	return out, nil
}
