package services

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/hos"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripPlanner runs the whole planning pipeline for one trip: validate the
// request, estimate the route, build the daily logs and the stop list, and
// optionally persist the result.
//
// Planning one trip is strictly sequential. A TripPlanner holds no mutable
// state and may serve many trips concurrently.
type TripPlanner struct {
	estimator ports.RouteEstimator
	scheduler *hos.Scheduler
	stops     StopPlanner
	repo      ports.TripRepository
	now       func() time.Time
}

func NewTripPlanner(
	estimator ports.RouteEstimator,
	scheduler *hos.Scheduler,
	stops StopPlanner,
	repo ports.TripRepository,
) (*TripPlanner, error) {
	if estimator == nil {
		return nil, errors.New("trip planner: estimator is nil")
	}
	if scheduler == nil {
		return nil, errors.New("trip planner: scheduler is nil")
	}

	return &TripPlanner{
		estimator: estimator,
		scheduler: scheduler,
		stops:     stops,
		repo:      repo,
		now:       time.Now,
	}, nil
}

// Plan computes the schedule for req with day one on start's calendar date.
// Nothing is persisted.
func (p *TripPlanner) Plan(
	ctx context.Context,
	req domain.TripRequest,
	start time.Time,
) (_ domain.TripScheduleResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	// Reject bad input before any external call is made.
	if err := req.Validate(); err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("plan trip: %w", err)
	}
	if limit := p.Rules().Limits().MaxCycleHours; req.CurrentCycleHours > limit {
		return domain.TripScheduleResult{}, fmt.Errorf(
			"plan trip: %w: %v is outside [0, %v]", domain.ErrInvalidCycleHours, req.CurrentCycleHours, limit,
		)
	}

	est, err := p.estimator.ResolveDistance(ctx, req.CurrentLocation, req.PickupLocation, req.DropoffLocation)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("plan trip: %w", err)
	}

	days, err := p.scheduler.ScheduleTrip(start, est, req.CurrentCycleHours)
	if err != nil {
		return domain.TripScheduleResult{}, fmt.Errorf("plan trip: %w", err)
	}

	return domain.TripScheduleResult{
		Estimate: est,
		Days:     days,
		Stops:    p.stops.Plan(req, est),
	}, nil
}

// PlanAndSave plans req and stores the trip with its schedule as a single unit.
// A failure at any step leaves nothing stored.
func (p *TripPlanner) PlanAndSave(
	ctx context.Context,
	req domain.TripRequest,
	start time.Time,
) (domain.Trip, domain.TripScheduleResult, error) {
	if p.repo == nil {
		return domain.Trip{}, domain.TripScheduleResult{}, errors.New("plan and save: trip repository is not configured")
	}

	plan, err := p.Plan(ctx, req, start)
	if err != nil {
		return domain.Trip{}, domain.TripScheduleResult{}, err
	}

	trip := domain.Trip{
		ID:                     uuid.NewString(),
		Request:                req,
		Status:                 domain.TripPlanned,
		TotalDistanceMiles:     plan.Estimate.TotalDistanceMiles,
		EstimatedDurationHours: plan.Estimate.TotalDurationHours,
		CreatedAt:              p.now().UTC(),
	}

	if err := p.repo.SavePlan(ctx, trip, plan); err != nil {
		return domain.Trip{}, domain.TripScheduleResult{}, fmt.Errorf("plan and save trip %s: %w", trip.ID, err)
	}

	return trip, plan, nil
}

// Rules exposes the rule set the scheduler runs with.
func (p *TripPlanner) Rules() hos.Rules { return p.scheduler.Rules() }
