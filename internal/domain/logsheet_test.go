package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewDailyLogRecord(t *testing.T) {
	date := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)
	entries := []LogEntry{
		{Start: 0, End: 6 * time.Hour, DutyStatus: OffDuty},
		{Start: 6 * time.Hour, End: 10 * time.Hour, DutyStatus: Driving},
		{Start: 10 * time.Hour, End: Day, DutyStatus: OffDuty},
	}

	rec, err := NewDailyLogRecord(date, 4, 4, 0, 14, "", entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.OffDutyHours != 20 {
		t.Fatalf("off duty = %v, want 20", rec.OffDutyHours)
	}
	if rec.Date.Hour() != 0 || rec.Date.Day() != 1 {
		t.Fatalf("date should be truncated to the day, got %v", rec.Date)
	}
}

func TestNewDailyLogRecordRejectsInvariantBreaks(t *testing.T) {
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := map[string]func() error{
		"on duty below driving": func() error {
			_, err := NewDailyLogRecord(date, 6, 5, 0, 0, "", nil)
			return err
		},
		"negative cycle": func() error {
			_, err := NewDailyLogRecord(date, 1, 1, 0, -1, "", nil)
			return err
		},
		"more than a day": func() error {
			_, err := NewDailyLogRecord(date, 10, 20, 5, 0, "", nil)
			return err
		},
		"inverted entry": func() error {
			_, err := NewDailyLogRecord(date, 0, 0, 0, 0, "", []LogEntry{{Start: 2 * time.Hour, End: time.Hour, DutyStatus: OffDuty}})
			return err
		},
		"unknown status": func() error {
			_, err := NewDailyLogRecord(date, 0, 0, 0, 0, "", []LogEntry{{Start: 0, End: Day, DutyStatus: "napping"}})
			return err
		},
	}

	for name, fn := range cases {
		if err := fn(); !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("%s: err = %v, want ErrInvariantViolation", name, err)
		}
	}
}

func TestClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                             "00:00",
		6*time.Hour + 30*time.Minute:  "06:30",
		14*time.Hour + 29*time.Second: "14:00",
		17*time.Hour + 54*time.Minute: "17:54",
		Day:                           "24:00",
	}
	for d, want := range cases {
		if got := Clock(d); got != want {
			t.Errorf("Clock(%v) = %q, want %q", d, got, want)
		}
	}
}
