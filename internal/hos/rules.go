package hos

import (
	"fmt"
	"math"
)

// Rules holds the four regulatory predicates over a validated Limits value.
// Predicates are pure; negative inputs are the caller's problem.
type Rules struct {
	limits Limits
}

func NewRules(limits Limits) (Rules, error) {
	if err := limits.Validate(); err != nil {
		return Rules{}, fmt.Errorf("new rules: %w", err)
	}
	return Rules{limits: limits}, nil
}

// DefaultRules panics only if DefaultLimits is itself invalid.
func DefaultRules() Rules {
	r, err := NewRules(DefaultLimits())
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rules) Limits() Limits { return r.limits }

// ExceedsDrivingLimit is true iff drivingHours > 11.
func (r Rules) ExceedsDrivingLimit(drivingHours float64) bool {
	return drivingHours > r.limits.MaxDrivingHours
}

// ExceedsDutyLimit is true iff onDutyHours > 14.
func (r Rules) ExceedsDutyLimit(onDutyHours float64) bool {
	return onDutyHours > r.limits.MaxOnDutyHours
}

// RequiresBreak is true iff drivingSinceLastBreak > 8; a 30-minute break is
// then mandatory before further driving.
func (r Rules) RequiresBreak(drivingSinceLastBreak float64) bool {
	return drivingSinceLastBreak > r.limits.BreakAfterDrivingHours
}

// ExceedsCycleLimit is true iff cycleHoursUsed > 70.
func (r Rules) ExceedsCycleLimit(cycleHoursUsed float64) bool {
	return cycleHoursUsed > r.limits.MaxCycleHours
}

// CycleHoursAvailable is what is left of the cycle, never negative.
func (r Rules) CycleHoursAvailable(cycleHoursUsed float64) float64 {
	return math.Max(0, r.limits.MaxCycleHours-cycleHoursUsed)
}
