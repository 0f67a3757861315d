package hos

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
	"time"
)

type Compliance struct {
	Date           time.Time
	Compliant      bool
	Violations     []string
	Warnings       []string
	CycleRemaining float64
}

// Check reports rule violations on a stored log record. Unlike ValidateDay it
// never fails: it describes what is wrong so it can be shown to a driver.
func (r Rules) Check(rec domain.DailyLogRecord) Compliance {
	c := Compliance{
		Date:           rec.Date,
		Violations:     []string{},
		Warnings:       []string{},
		CycleRemaining: r.CycleHoursAvailable(rec.CycleHoursUsed),
	}

	if r.ExceedsDrivingLimit(rec.DrivingHours) {
		c.Violations = append(c.Violations, fmt.Sprintf("Driving hours exceed %g-hour limit: %.2f hours", r.limits.MaxDrivingHours, rec.DrivingHours))
	}
	if r.ExceedsDutyLimit(rec.OnDutyHours) {
		c.Violations = append(c.Violations, fmt.Sprintf("On-duty hours exceed %g-hour limit: %.2f hours", r.limits.MaxOnDutyHours, rec.OnDutyHours))
	}
	if r.ExceedsCycleLimit(rec.CycleHoursUsed) {
		c.Violations = append(c.Violations, fmt.Sprintf("Cycle hours exceed %g-hour limit: %.2f hours", r.limits.MaxCycleHours, rec.CycleHoursUsed))
	}
	if rec.OnDutyHours > 0 && rec.OffDutyHours+rec.SleeperBerthHours < r.limits.MinOffDutyHours {
		c.Warnings = append(c.Warnings, fmt.Sprintf("Less than %g hours off-duty: %.2f hours", r.limits.MinOffDutyHours, rec.OffDutyHours))
	}

	c.Compliant = len(c.Violations) == 0
	return c
}

// Report aggregates a trip's log records.
type Report struct {
	TotalDrivingHours float64
	TotalOnDutyHours  float64
	TotalOffDutyHours float64
	TotalSleeperHours float64
	FinalCycleHours   float64
	CycleRemaining    float64
	WorkingDays       int
	RestartDays       int
	Compliant         bool
	Daily             []Compliance
}

func (r Rules) Report(days []domain.DailyLogRecord) Report {
	rep := Report{Compliant: true, Daily: make([]Compliance, 0, len(days))}
	for _, d := range days {
		rep.TotalDrivingHours += d.DrivingHours
		rep.TotalOnDutyHours += d.OnDutyHours
		rep.TotalOffDutyHours += d.OffDutyHours
		rep.TotalSleeperHours += d.SleeperBerthHours
		rep.FinalCycleHours = d.CycleHoursUsed
		if d.Restart {
			rep.RestartDays++
		} else {
			rep.WorkingDays++
		}

		c := r.Check(d)
		rep.Compliant = rep.Compliant && c.Compliant
		rep.Daily = append(rep.Daily, c)
	}
	rep.CycleRemaining = math.Max(0, r.limits.MaxCycleHours-rep.FinalCycleHours)
	return rep
}
