package hos

import (
	"eld-trip-planner/internal/domain"
	"testing"
)

func TestCheckFlagsViolations(t *testing.T) {
	r := DefaultRules()

	rec, err := domain.NewDailyLogRecord(monday, 12, 15, 0, 72, "", nil)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	c := r.Check(rec)
	if c.Compliant {
		t.Fatalf("expected non-compliant record")
	}
	if len(c.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", c.Violations)
	}
	if len(c.Warnings) != 1 {
		t.Fatalf("expected off-duty warning, got %v", c.Warnings)
	}
	if c.CycleRemaining != 0 {
		t.Fatalf("cycle remaining = %v, want 0", c.CycleRemaining)
	}
}

func TestReportAggregatesSchedule(t *testing.T) {
	r := DefaultRules()
	days, err := NewScheduler(r).Schedule(monday, 20, 22, 69.5)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	rep := r.Report(days)
	if !rep.Compliant {
		t.Fatalf("generated schedule should be compliant: %+v", rep.Daily)
	}
	if rep.RestartDays != 2 || rep.WorkingDays != 3 {
		t.Fatalf("days = %d working / %d restart, want 3/2", rep.WorkingDays, rep.RestartDays)
	}
	if rep.TotalDrivingHours != 20 {
		t.Fatalf("total driving = %v, want 20", rep.TotalDrivingHours)
	}
	if rep.FinalCycleHours != 19.5 || rep.CycleRemaining != 50.5 {
		t.Fatalf("cycle = %v remaining %v", rep.FinalCycleHours, rep.CycleRemaining)
	}
	if len(rep.Daily) != len(days) {
		t.Fatalf("daily entries = %d, want %d", len(rep.Daily), len(days))
	}
}
