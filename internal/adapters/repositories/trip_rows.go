package repositories

import (
	"eld-trip-planner/internal/domain"
	"encoding/json"
	"fmt"
	"time"
)

// Helpers shared by the SQLite and Postgres trip repositories for turning
// rows back into domain values.

func encodeSegments(segments []domain.RouteSegment) (string, error) {
	type seg struct {
		From          string  `json:"from"`
		To            string  `json:"to"`
		DistanceMiles float64 `json:"distance_miles"`
		DurationHours float64 `json:"duration_hours"`
	}
	out := make([]seg, 0, len(segments))
	for _, s := range segments {
		out = append(out, seg(s))
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode segments: %w", err)
	}
	return string(b), nil
}

func decodeSegments(raw string) ([]domain.RouteSegment, error) {
	var in []struct {
		From          string  `json:"from"`
		To            string  `json:"to"`
		DistanceMiles float64 `json:"distance_miles"`
		DurationHours float64 `json:"duration_hours"`
	}
	if raw == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	out := make([]domain.RouteSegment, 0, len(in))
	for _, s := range in {
		out = append(out, domain.RouteSegment(s))
	}
	return out, nil
}

type dailyLogRow struct {
	id      int64
	date    time.Time
	driving float64
	onDuty  float64
	sleeper float64
	cycle   float64
	restart bool
	remarks string
	entries []domain.LogEntry
}

// record rebuilds a DailyLogRecord through its constructor so stored rows are
// held to the same invariants as freshly planned ones.
func (r dailyLogRow) record() (domain.DailyLogRecord, error) {
	rec, err := domain.NewDailyLogRecord(r.date, r.driving, r.onDuty, r.sleeper, r.cycle, r.remarks, r.entries)
	if err != nil {
		return domain.DailyLogRecord{}, fmt.Errorf("load daily log %d: %w", r.id, err)
	}
	rec.Restart = r.restart
	return rec, nil
}

func entryFromRow(start, end int64, status, location, remarks string) domain.LogEntry {
	return domain.LogEntry{
		Start:      time.Duration(start) * time.Second,
		End:        time.Duration(end) * time.Second,
		DutyStatus: domain.DutyStatus(status),
		Location:   location,
		Remarks:    remarks,
	}
}

func seconds(d time.Duration) int64 { return int64(d / time.Second) }

func planFromTrip(trip domain.Trip, segments []domain.RouteSegment) domain.RouteEstimate {
	return domain.RouteEstimate{
		TotalDistanceMiles: trip.TotalDistanceMiles,
		TotalDurationHours: trip.EstimatedDurationHours,
		Segments:           segments,
	}
}
