package hos

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
	"time"
)

// Scheduler drives the DayBuilder across consecutive calendar days until the
// driving and on-duty hours a trip needs are used up. It inserts a restart
// (RestartDays full off-duty days, cycle reset to zero) whenever the cycle
// runs out with work still owed.
//
// A Scheduler has no mutable state and may be shared across goroutines; each
// call runs one trip start to finish.
type Scheduler struct {
	rules Rules
	days  DayBuilder
}

func NewScheduler(rules Rules) *Scheduler {
	return &Scheduler{rules: rules, days: NewDayBuilder(rules)}
}

func (s *Scheduler) Rules() Rules { return s.rules }

// ScheduleTrip derives the totals from a route estimate, adding the fixed
// pickup and dropoff work, and schedules them from start. The dropoff is
// logged on the day the driving ends.
func (s *Scheduler) ScheduleTrip(start time.Time, est domain.RouteEstimate, cycleHoursUsed float64) ([]domain.DailyLogRecord, error) {
	l := s.rules.limits
	driving := est.TotalDurationHours
	onDuty := driving + l.PickupHours + l.DropoffHours
	return s.schedule(start, driving, onDuty, l.DropoffHours, cycleHoursUsed)
}

// Schedule partitions drivingHours and onDutyHours (which includes the driving)
// into daily log records starting at start. It fails with ErrScheduleOverrun
// instead of producing more than MaxTripDays records.
func (s *Scheduler) Schedule(start time.Time, drivingHours, onDutyHours, cycleHoursUsed float64) ([]domain.DailyLogRecord, error) {
	return s.schedule(start, drivingHours, onDutyHours, 0, cycleHoursUsed)
}

// schedule is Schedule with heldWork hours of the non-driving work kept back
// until the day the driving ends.
func (s *Scheduler) schedule(start time.Time, drivingHours, onDutyHours, heldWork, cycleHoursUsed float64) ([]domain.DailyLogRecord, error) {
	if math.IsNaN(cycleHoursUsed) || cycleHoursUsed < 0 || cycleHoursUsed > s.rules.limits.MaxCycleHours {
		return nil, fmt.Errorf("schedule: %w: %v", domain.ErrInvalidCycleHours, cycleHoursUsed)
	}

	l := s.rules.limits
	days := make([]domain.DailyLogRecord, 0, 8)

	drivingLeft := drivingHours
	onDutyLeft := onDutyHours
	cycle := cycleHoursUsed

	restart := func() error {
		for i := 0; i < l.RestartDays; i++ {
			if len(days) >= l.MaxTripDays {
				return fmt.Errorf("schedule: %w: restart would exceed %d days", domain.ErrScheduleOverrun, l.MaxTripDays)
			}
			rec, err := s.days.RestartDay(dayAt(start, len(days)))
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}
			days = append(days, rec)
		}
		cycle = 0
		return nil
	}

	for drivingLeft > 0 || onDutyLeft > 0 {
		if len(days) >= l.MaxTripDays {
			return nil, fmt.Errorf(
				"schedule: %w: %.2fh driving and %.2fh on-duty still owed after %d days",
				domain.ErrScheduleOverrun, drivingLeft, onDutyLeft, l.MaxTripDays,
			)
		}

		// The cycle may be spent on arrival or by a day that landed exactly on the limit.
		if s.rules.CycleHoursAvailable(cycle) <= 0 {
			if err := restart(); err != nil {
				return nil, err
			}
			continue
		}

		res, err := s.days.Build(DayInput{
			Date:             dayAt(start, len(days)),
			DrivingRemaining: drivingLeft,
			OnDutyRemaining:  onDutyLeft,
			CycleHoursUsed:   cycle,
			HeldWorkHours:    heldWork,
		})
		if err != nil {
			return nil, fmt.Errorf("schedule day %d: %w", len(days)+1, err)
		}

		days = append(days, res.Record)
		drivingLeft = res.DrivingRemaining
		onDutyLeft = res.OnDutyRemaining
		cycle = res.CycleHoursUsed

		if res.CycleExhausted && (drivingLeft > 0 || onDutyLeft > 0) {
			if err := restart(); err != nil {
				return nil, err
			}
		}
	}

	if err := ValidateSchedule(s.rules, days); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	return days, nil
}

func dayAt(start time.Time, offset int) time.Time {
	y, m, d := start.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, start.Location())
}
