package ports

import (
	"context"
	"eld-trip-planner/internal/domain"
	"io"
)

// Port: a boundary for persisting planned trips.
//
// SavePlan must be all-or-nothing: either the trip, every daily log record
// with its entries, and every route stop are stored, or none are.
type TripRepository interface {
	SavePlan(ctx context.Context, trip domain.Trip, plan domain.TripScheduleResult) error
	GetTrip(ctx context.Context, id string) (domain.Trip, error)
	// Return the stored schedule for a trip. Unknown ids wrap domain.ErrTripNotFound.
	GetPlan(ctx context.Context, id string) (domain.TripScheduleResult, error)
	// Return up to limit trips, newest first.
	ListRecentTrips(ctx context.Context, limit int) ([]domain.Trip, error)
}

// Renderer writes a printable document for a planned trip.
type Renderer interface {
	Render(w io.Writer, trip domain.Trip, plan domain.TripScheduleResult) error
}
