package services

import (
	"context"
	"eld-trip-planner/internal/domain"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

type BatchItem struct {
	Request domain.TripRequest
	Start   time.Time
}

type BatchResult struct {
	Trip domain.Trip
	Plan domain.TripScheduleResult
}

// PlanBatch plans many trips with at most workers running at once. Results
// keep the order of items. The first failure cancels the trips not yet started
// and is returned.
//
// When save is true each trip is persisted on its own; trips that finished
// before a failure stay stored.
func (p *TripPlanner) PlanBatch(
	ctx context.Context,
	items []BatchItem,
	workers int,
	save bool,
) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if save {
				trip, plan, err := p.PlanAndSave(ctx, item.Request, item.Start)
				if err != nil {
					return fmt.Errorf("batch item %d: %w", i+1, err)
				}
				results[i] = BatchResult{Trip: trip, Plan: plan}
				return nil
			}

			plan, err := p.Plan(ctx, item.Request, item.Start)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i+1, err)
			}
			results[i] = BatchResult{
				Trip: domain.Trip{
					Request:                item.Request,
					Status:                 domain.TripPlanned,
					TotalDistanceMiles:     plan.Estimate.TotalDistanceMiles,
					EstimatedDurationHours: plan.Estimate.TotalDurationHours,
				},
				Plan: plan,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
