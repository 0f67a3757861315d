package hos

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
	"time"
)

const restartRemarks = "34-hour restart period"

// DayInput is the state entering one calendar day of a trip.
// OnDutyRemaining includes DrivingRemaining plus any non-driving work owed.
// HeldWorkHours of that work (the dropoff) is only logged on a day that
// finishes the driving.
type DayInput struct {
	Date              time.Time
	DrivingRemaining  float64
	OnDutyRemaining   float64
	CycleHoursUsed    float64
	DrivingSinceBreak float64
	HeldWorkHours     float64
}

// DayResult is the built record plus the state carried into the next day.
type DayResult struct {
	Record            domain.DailyLogRecord
	DrivingRemaining  float64
	OnDutyRemaining   float64
	CycleHoursUsed    float64
	DrivingSinceBreak float64
	// CycleExhausted is set when the cycle limit, not the daily limits,
	// stopped the day's driving.
	CycleExhausted bool
}

// DayBuilder lays out a single working day.
//
// Timeline: off duty until the duty start, pre-trip inspection, driving in
// chunks of at most BreakAfterDrivingHours separated by off-duty breaks,
// remaining non-driving work, then off duty until 24:00. Every step is bounded
// by the on-duty window measured from the duty start. All arithmetic on the
// timeline is done in whole seconds so the entries tile the day exactly.
type DayBuilder struct {
	rules Rules
}

func NewDayBuilder(rules Rules) DayBuilder { return DayBuilder{rules: rules} }

func (b DayBuilder) Build(in DayInput) (DayResult, error) {
	for name, v := range map[string]float64{
		"driving remaining":   in.DrivingRemaining,
		"on-duty remaining":   in.OnDutyRemaining,
		"cycle hours used":    in.CycleHoursUsed,
		"driving since break": in.DrivingSinceBreak,
		"held work":           in.HeldWorkHours,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return DayResult{}, fmt.Errorf("build day %s: %w: %s=%v", in.Date.Format(time.DateOnly), domain.ErrInvalidHours, name, v)
		}
	}

	drivingOwed := hoursToDuration(in.DrivingRemaining)
	onDutyOwed := hoursToDuration(in.OnDutyRemaining)
	if onDutyOwed < drivingOwed {
		return DayResult{}, fmt.Errorf(
			"build day %s: %w: on-duty remaining %.2fh is below driving remaining %.2fh",
			in.Date.Format(time.DateOnly), domain.ErrInvalidHours, in.OnDutyRemaining, in.DrivingRemaining,
		)
	}
	workOwed := onDutyOwed - drivingOwed

	l := b.rules.limits

	desired := math.Min(l.MaxDrivingHours, in.DrivingRemaining)
	budget := desired
	cycleCapped := false
	if b.rules.ExceedsCycleLimit(in.CycleHoursUsed + desired) {
		budget = b.rules.CycleHoursAvailable(in.CycleHoursUsed)
		cycleCapped = true
	}

	tl := newTimeline(hoursToDuration(l.DutyStartHour), hoursToDuration(l.MaxOnDutyHours))
	tl.add(tl.dutyStart, domain.OffDuty, "Home", "Off duty")
	tl.work(hoursToDuration(l.PreTripHours), domain.OnDutyNotDriving, "Terminal", "Pre-trip inspection")

	breakAfter := hoursToDuration(l.BreakAfterDrivingHours)
	breakLen := hoursToDuration(l.BreakHours)
	sinceBreak := hoursToDuration(in.DrivingSinceBreak)
	left := min(hoursToDuration(budget), drivingOwed)
	var drove time.Duration

	for left > 0 && tl.windowLeft() > 0 {
		room := breakAfter - sinceBreak
		if room <= 0 {
			// A break is only worth taking if some driving fits after it.
			if tl.windowLeft() <= breakLen {
				break
			}
			tl.work(breakLen, domain.OffDuty, "Rest stop", "30-minute break")
			sinceBreak = 0
			continue
		}

		chunk := min(left, room, tl.windowLeft())
		tl.work(chunk, domain.Driving, "En route", "Driving")
		left -= chunk
		drove += chunk
		sinceBreak += chunk
	}

	ready := workOwed
	if drove < drivingOwed {
		ready = max(0, workOwed-hoursToDuration(in.HeldWorkHours))
	}
	work := min(ready, tl.windowLeft())
	if work > 0 {
		tl.work(work, domain.OnDutyNotDriving, "Pickup/Dropoff", "Loading and unloading")
	}
	tl.add(domain.Day, domain.OffDuty, "Terminal", "End of day")

	var drivingTime, onDutyTime time.Duration
	for _, e := range tl.entries {
		if e.DutyStatus == domain.Driving {
			drivingTime += e.Duration()
		}
		if e.DutyStatus.OnDuty() {
			onDutyTime += e.Duration()
		}
	}

	cycle := in.CycleHoursUsed + drove.Hours()
	remarks := ""
	if cycleCapped {
		cycle = math.Min(cycle, l.MaxCycleHours)
		remarks = "Cycle limit reached"
	}

	rec, err := domain.NewDailyLogRecord(in.Date, drivingTime.Hours(), onDutyTime.Hours(), 0, cycle, remarks, tl.entries)
	if err != nil {
		return DayResult{}, fmt.Errorf("build day: %w", err)
	}

	return DayResult{
		Record:            rec,
		DrivingRemaining:  (drivingOwed - drove).Hours(),
		OnDutyRemaining:   (onDutyOwed - drove - work).Hours(),
		CycleHoursUsed:    cycle,
		DrivingSinceBreak: sinceBreak.Hours(),
		CycleExhausted:    cycleCapped,
	}, nil
}

// RestartDay is a full off-duty day belonging to a 34-hour restart.
func (b DayBuilder) RestartDay(date time.Time) (domain.DailyLogRecord, error) {
	entries := []domain.LogEntry{{
		Start:      0,
		End:        domain.Day,
		DutyStatus: domain.OffDuty,
		Location:   "Home/Terminal",
		Remarks:    restartRemarks,
	}}
	rec, err := domain.NewDailyLogRecord(date, 0, 0, 0, 0, restartRemarks, entries)
	if err != nil {
		return domain.DailyLogRecord{}, fmt.Errorf("restart day: %w", err)
	}
	rec.Restart = true
	return rec, nil
}

// timeline appends contiguous entries; cursor is the end of the last one.
type timeline struct {
	entries   []domain.LogEntry
	cursor    time.Duration
	dutyStart time.Duration
	window    time.Duration
}

func newTimeline(dutyStart, window time.Duration) *timeline {
	return &timeline{dutyStart: dutyStart, window: window}
}

func (t *timeline) windowLeft() time.Duration {
	used := t.cursor - t.dutyStart
	if used < 0 {
		used = 0
	}
	return t.window - used
}

func (t *timeline) work(d time.Duration, status domain.DutyStatus, location, remarks string) {
	t.add(t.cursor+d, status, location, remarks)
}

// add closes an entry at end; zero-length entries are dropped.
func (t *timeline) add(end time.Duration, status domain.DutyStatus, location, remarks string) {
	if end <= t.cursor {
		return
	}
	t.entries = append(t.entries, domain.LogEntry{
		Start:      t.cursor,
		End:        end,
		DutyStatus: status,
		Location:   location,
		Remarks:    remarks,
	})
	t.cursor = end
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h*3600)) * time.Second
}
