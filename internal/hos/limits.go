// Package hos implements the Hours-of-Service scheduling engine: the rule set,
// the per-day schedule builder and the multi-day trip scheduler.
package hos

import (
	"errors"
	"fmt"
)

// Limits is the named set of regulatory values the engine is parameterized by.
// DefaultLimits returns the US property-carrying 70-hour/8-day rules.
type Limits struct {
	MaxDrivingHours        float64 `toml:"max_driving_hours" yaml:"max_driving_hours" json:"max_driving_hours"`
	MaxOnDutyHours         float64 `toml:"max_on_duty_hours" yaml:"max_on_duty_hours" json:"max_on_duty_hours"`
	BreakAfterDrivingHours float64 `toml:"break_after_driving_hours" yaml:"break_after_driving_hours" json:"break_after_driving_hours"`
	BreakHours             float64 `toml:"break_hours" yaml:"break_hours" json:"break_hours"`
	MaxCycleHours          float64 `toml:"max_cycle_hours" yaml:"max_cycle_hours" json:"max_cycle_hours"`
	RestartDays            int     `toml:"restart_days" yaml:"restart_days" json:"restart_days"`
	MinOffDutyHours        float64 `toml:"min_off_duty_hours" yaml:"min_off_duty_hours" json:"min_off_duty_hours"`

	// Shape of a working day.
	DutyStartHour float64 `toml:"duty_start_hour" yaml:"duty_start_hour" json:"duty_start_hour"`
	PreTripHours  float64 `toml:"pre_trip_hours" yaml:"pre_trip_hours" json:"pre_trip_hours"`
	PickupHours   float64 `toml:"pickup_hours" yaml:"pickup_hours" json:"pickup_hours"`
	DropoffHours  float64 `toml:"dropoff_hours" yaml:"dropoff_hours" json:"dropoff_hours"`

	// MaxTripDays bounds the scheduling loop, restart days included.
	MaxTripDays int `toml:"max_trip_days" yaml:"max_trip_days" json:"max_trip_days"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxDrivingHours:        11.0,
		MaxOnDutyHours:         14.0,
		BreakAfterDrivingHours: 8.0,
		BreakHours:             0.5,
		MaxCycleHours:          70.0,
		RestartDays:            2,
		MinOffDutyHours:        10.0,
		DutyStartHour:          6.0,
		PreTripHours:           0.5,
		PickupHours:            1.0,
		DropoffHours:           1.0,
		MaxTripDays:            60,
	}
}

// Validate rejects rule sets the day builder cannot lay out inside 24 hours.
func (l Limits) Validate() error {
	var errs []error
	positive := map[string]float64{
		"max_driving_hours":         l.MaxDrivingHours,
		"max_on_duty_hours":         l.MaxOnDutyHours,
		"break_after_driving_hours": l.BreakAfterDrivingHours,
		"break_hours":               l.BreakHours,
		"max_cycle_hours":           l.MaxCycleHours,
	}
	for name, v := range positive {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, v))
		}
	}

	nonNegative := map[string]float64{
		"min_off_duty_hours": l.MinOffDutyHours,
		"duty_start_hour":    l.DutyStartHour,
		"pre_trip_hours":     l.PreTripHours,
		"pickup_hours":       l.PickupHours,
		"dropoff_hours":      l.DropoffHours,
	}
	for name, v := range nonNegative {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %v", name, v))
		}
	}

	if l.MaxDrivingHours > l.MaxOnDutyHours {
		errs = append(errs, fmt.Errorf("max_driving_hours %v exceeds max_on_duty_hours %v", l.MaxDrivingHours, l.MaxOnDutyHours))
	}
	if l.DutyStartHour+l.MaxOnDutyHours > 24 {
		errs = append(errs, fmt.Errorf("duty window %v+%vh does not fit in one day", l.DutyStartHour, l.MaxOnDutyHours))
	}
	if 24-l.MaxOnDutyHours < l.MinOffDutyHours {
		errs = append(errs, fmt.Errorf("max_on_duty_hours %v leaves less than min_off_duty_hours %v", l.MaxOnDutyHours, l.MinOffDutyHours))
	}
	if l.PreTripHours+l.BreakHours >= l.MaxOnDutyHours {
		errs = append(errs, fmt.Errorf("pre_trip_hours + break_hours leave no driving time in the duty window"))
	}
	if l.RestartDays < 1 {
		errs = append(errs, fmt.Errorf("restart_days must be >= 1, got %d", l.RestartDays))
	}
	if l.MaxTripDays < 1 {
		errs = append(errs, fmt.Errorf("max_trip_days must be >= 1, got %d", l.MaxTripDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validate limits: %w", errors.Join(errs...))
	}
	return nil
}
