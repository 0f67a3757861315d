package domain

import (
	"fmt"
	"math"
	"time"
)

// HoursPerDay is the length of one log sheet.
const HoursPerDay = 24.0

// Day is HoursPerDay as a duration; log entries are offsets in [0, Day].
const Day = 24 * time.Hour

type DutyStatus string

const (
	OffDuty          DutyStatus = "off_duty"
	SleeperBerth     DutyStatus = "sleeper_berth"
	Driving          DutyStatus = "driving"
	OnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// Valid reports whether s is one of the four duty statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case OffDuty, SleeperBerth, Driving, OnDutyNotDriving:
		return true
	}
	return false
}

// OnDuty reports whether time in this status counts toward on-duty hours.
func (s DutyStatus) OnDuty() bool { return s == Driving || s == OnDutyNotDriving }

// Label is the human readable status used on log sheets.
func (s DutyStatus) Label() string {
	switch s {
	case OffDuty:
		return "Off Duty"
	case SleeperBerth:
		return "Sleeper Berth"
	case Driving:
		return "Driving"
	case OnDutyNotDriving:
		return "On Duty (Not Driving)"
	}
	return string(s)
}

// LogEntry is a sub-interval of a log sheet's day.
// Start and End are offsets from midnight.
type LogEntry struct {
	Start      time.Duration
	End        time.Duration
	DutyStatus DutyStatus
	Location   string
	Remarks    string
}

func (e LogEntry) Duration() time.Duration { return e.End - e.Start }

func (e LogEntry) Hours() float64 { return e.Duration().Hours() }

// StartClock and EndClock format the offsets as HH:MM, with 24:00 for end of day.
func (e LogEntry) StartClock() string { return Clock(e.Start) }
func (e LogEntry) EndClock() string   { return Clock(e.End) }

// Clock formats an offset from midnight as HH:MM. Seconds are rounded to the
// nearest minute.
func Clock(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DailyLogRecord is one calendar day of a trip's duty log.
// OffDutyHours is derived: 24 - OnDutyHours - SleeperBerthHours.
type DailyLogRecord struct {
	Date              time.Time
	DrivingHours      float64
	OnDutyHours       float64
	OffDutyHours      float64
	SleeperBerthHours float64
	CycleHoursUsed    float64
	Restart           bool
	Remarks           string
	Entries           []LogEntry
}

// NewDailyLogRecord validates the hour invariants of a day and derives off-duty hours.
// Entries are checked individually here; tiling of the whole day is checked by
// the scheduler's validation.
func NewDailyLogRecord(
	date time.Time,
	driving, onDuty, sleeper, cycleUsed float64,
	remarks string,
	entries []LogEntry,
) (DailyLogRecord, error) {
	for name, v := range map[string]float64{
		"driving_hours":       driving,
		"on_duty_hours":       onDuty,
		"sleeper_berth_hours": sleeper,
		"cycle_hours_used":    cycleUsed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return DailyLogRecord{}, fmt.Errorf("new daily log record %s: %w: %s=%v", date.Format(time.DateOnly), ErrInvariantViolation, name, v)
		}
	}

	if onDuty < driving {
		return DailyLogRecord{}, fmt.Errorf(
			"new daily log record %s: %w: on_duty_hours %.2f < driving_hours %.2f",
			date.Format(time.DateOnly), ErrInvariantViolation, onDuty, driving,
		)
	}

	if onDuty+sleeper > HoursPerDay {
		return DailyLogRecord{}, fmt.Errorf(
			"new daily log record %s: %w: on_duty %.2f + sleeper %.2f exceeds 24h",
			date.Format(time.DateOnly), ErrInvariantViolation, onDuty, sleeper,
		)
	}

	for i, e := range entries {
		if !e.DutyStatus.Valid() {
			return DailyLogRecord{}, fmt.Errorf("new daily log record %s: %w: entry %d has duty status %q", date.Format(time.DateOnly), ErrInvariantViolation, i+1, e.DutyStatus)
		}
		if e.Start < 0 || e.End > Day || e.Start >= e.End {
			return DailyLogRecord{}, fmt.Errorf(
				"new daily log record %s: %w: entry %d spans %s-%s",
				date.Format(time.DateOnly), ErrInvariantViolation, i+1, e.StartClock(), e.EndClock(),
			)
		}
	}

	y, m, d := date.Date()
	return DailyLogRecord{
		Date:              time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
		DrivingHours:      driving,
		OnDutyHours:       onDuty,
		OffDutyHours:      HoursPerDay - onDuty - sleeper,
		SleeperBerthHours: sleeper,
		CycleHoursUsed:    cycleUsed,
		Remarks:           remarks,
		Entries:           entries,
	}, nil
}

// TripScheduleResult is the sole artifact the planner hands to persistence and rendering.
type TripScheduleResult struct {
	Estimate RouteEstimate
	Days     []DailyLogRecord
	Stops    []RouteStop
}
