package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TripRequest is the immutable input to trip planning.
type TripRequest struct {
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleHours float64
}

// NewTripRequest trims the location fields and validates the request.
func NewTripRequest(current, pickup, dropoff string, cycleHours float64) (TripRequest, error) {
	req := TripRequest{
		CurrentLocation:   strings.TrimSpace(current),
		PickupLocation:    strings.TrimSpace(pickup),
		DropoffLocation:   strings.TrimSpace(dropoff),
		CurrentCycleHours: cycleHours,
	}
	if err := req.Validate(); err != nil {
		return TripRequest{}, err
	}
	return req, nil
}

// Validate reports missing locations and cycle hours that are negative or not
// finite. The upper bound belongs to the rule set the trip is planned under.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.CurrentLocation) == "" {
		return fmt.Errorf("%w: current_location is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.PickupLocation) == "" {
		return fmt.Errorf("%w: pickup_location is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.DropoffLocation) == "" {
		return fmt.Errorf("%w: dropoff_location is required", ErrInvalidRequest)
	}

	h := r.CurrentCycleHours
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return fmt.Errorf("%w: %v must be a finite number >= 0", ErrInvalidCycleHours, h)
	}
	return nil
}

type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// Trip is a persisted planning request together with its route totals.
type Trip struct {
	ID                     string
	Request                TripRequest
	Status                 TripStatus
	TotalDistanceMiles     float64
	EstimatedDurationHours float64
	CreatedAt              time.Time
}

// Name renders the trip as "current → pickup → dropoff".
func (t Trip) Name() string {
	return fmt.Sprintf("%s → %s → %s", t.Request.CurrentLocation, t.Request.PickupLocation, t.Request.DropoffLocation)
}
