package hos

import (
	"eld-trip-planner/internal/domain"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// hoursTolerance absorbs float rounding when comparing hour totals derived
// from whole-second timelines.
const hoursTolerance = 1e-6

// ValidateDay checks a single record: its entries tile [00:00, 24:00] with no
// gap or overlap, its hours respect the regulatory caps and agree with the
// entries, and no driving happens past the break threshold without a break.
func ValidateDay(rules Rules, rec domain.DailyLogRecord) error {
	date := rec.Date.Format(time.DateOnly)
	fail := func(format string, args ...any) error {
		return fmt.Errorf("validate day %s: %w: %s", date, domain.ErrInvariantViolation, fmt.Sprintf(format, args...))
	}

	if len(rec.Entries) == 0 {
		return fail("no log entries")
	}

	entries := append([]domain.LogEntry(nil), rec.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })

	var cursor, total, driving, onDuty time.Duration
	for i, e := range entries {
		if e.Start >= e.End {
			return fail("entry %d %s-%s is empty or inverted", i+1, e.StartClock(), e.EndClock())
		}
		if e.Start != cursor {
			if e.Start > cursor {
				return fail("gap between %s and %s", domain.Clock(cursor), e.StartClock())
			}
			return fail("entry %d starting %s overlaps previous entry ending %s", i+1, e.StartClock(), domain.Clock(cursor))
		}
		cursor = e.End
		total += e.Duration()
		if e.DutyStatus == domain.Driving {
			driving += e.Duration()
		}
		if e.DutyStatus.OnDuty() {
			onDuty += e.Duration()
		}
	}
	if cursor != domain.Day || total != domain.Day {
		return fail("entries cover %s, want 24:00", domain.Clock(total))
	}

	if rules.ExceedsDrivingLimit(rec.DrivingHours - hoursTolerance) {
		return fail("driving %.2fh exceeds %.2fh", rec.DrivingHours, rules.limits.MaxDrivingHours)
	}
	if rules.ExceedsDutyLimit(rec.OnDutyHours - hoursTolerance) {
		return fail("on-duty %.2fh exceeds %.2fh", rec.OnDutyHours, rules.limits.MaxOnDutyHours)
	}
	if rec.OnDutyHours < rec.DrivingHours {
		return fail("on-duty %.2fh below driving %.2fh", rec.OnDutyHours, rec.DrivingHours)
	}
	if rec.OffDutyHours != domain.HoursPerDay-rec.OnDutyHours-rec.SleeperBerthHours {
		return fail("off-duty %.4fh does not complement on-duty %.4fh", rec.OffDutyHours, rec.OnDutyHours)
	}
	if math.Abs(driving.Hours()-rec.DrivingHours) > hoursTolerance {
		return fail("record driving %.4fh disagrees with entries %.4fh", rec.DrivingHours, driving.Hours())
	}
	if math.Abs(onDuty.Hours()-rec.OnDutyHours) > hoursTolerance {
		return fail("record on-duty %.4fh disagrees with entries %.4fh", rec.OnDutyHours, onDuty.Hours())
	}

	breakLen := hoursToDuration(rules.limits.BreakHours)
	var sinceBreak time.Duration
	for _, e := range entries {
		switch {
		case e.DutyStatus == domain.Driving:
			sinceBreak += e.Duration()
			if rules.RequiresBreak(sinceBreak.Hours() - hoursTolerance) {
				return fail("driving continues past %.1fh without a break at %s", rules.limits.BreakAfterDrivingHours, e.EndClock())
			}
		case !e.DutyStatus.OnDuty() && e.Duration() >= breakLen:
			sinceBreak = 0
		}
	}

	return nil
}

// ValidateSchedule validates every day and the trip-level rules: consecutive
// dates, and a full restart sequence after any day whose cycle exceeds the limit.
func ValidateSchedule(rules Rules, days []domain.DailyLogRecord) error {
	var errs []error
	for i, rec := range days {
		if err := ValidateDay(rules, rec); err != nil {
			errs = append(errs, err)
			continue
		}

		if i > 0 && !rec.Date.Equal(dayAt(days[i-1].Date, 1)) {
			errs = append(errs, fmt.Errorf("validate schedule: %w: day %d is %s, want the day after %s",
				domain.ErrInvariantViolation, i+1, rec.Date.Format(time.DateOnly), days[i-1].Date.Format(time.DateOnly)))
		}

		if rec.Restart && (rec.CycleHoursUsed != 0 || rec.OffDutyHours != domain.HoursPerDay) {
			errs = append(errs, fmt.Errorf("validate schedule: %w: restart day %d is not a full off-duty day with a zero cycle",
				domain.ErrInvariantViolation, i+1))
		}

		if rules.ExceedsCycleLimit(rec.CycleHoursUsed - hoursTolerance) {
			for k := 1; k <= rules.limits.RestartDays; k++ {
				if i+k >= len(days) || !days[i+k].Restart {
					errs = append(errs, fmt.Errorf("validate schedule: %w: day %d cycle %.2fh is not followed by a %d-day restart",
						domain.ErrInvariantViolation, i+1, rec.CycleHoursUsed, rules.limits.RestartDays))
					break
				}
			}
		}
	}
	return errors.Join(errs...)
}
