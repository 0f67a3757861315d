package distance

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"fmt"
	"sync"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed leg results. Unknown pairs report
// domain.ErrLocationNotFound; a non-nil Err makes every call fail with it.
type MockDistanceProvider struct {
	m   map[string]ports.DistanceResult
	Err error

	mu    sync.Mutex
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.Err != nil {
		return ports.DistanceResult{}, p.Err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, domain.ErrLocationNotFound)
	}

	return r, nil
}

// Calls reports how many lookups were made.
func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
