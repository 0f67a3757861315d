package dto

import (
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/hos"
	"time"
)

type CreateTripRequest struct {
	CurrentLocation   string   `json:"current_location"`
	PickupLocation    string   `json:"pickup_location"`
	DropoffLocation   string   `json:"dropoff_location"`
	CurrentCycleHours *float64 `json:"current_cycle_hours"`
	// StartDate is YYYY-MM-DD; today (UTC) when empty.
	StartDate string `json:"start_date"`
}

type RouteSegmentResponse struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

type LogEntryResponse struct {
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Hours      float64 `json:"hours"`
	DutyStatus string  `json:"duty_status"`
	Location   string  `json:"location"`
	Remarks    string  `json:"remarks"`
}

type DailyLogResponse struct {
	Date              string             `json:"date"`
	DrivingHours      float64            `json:"driving_hours"`
	OnDutyHours       float64            `json:"on_duty_hours"`
	OffDutyHours      float64            `json:"off_duty_hours"`
	SleeperBerthHours float64            `json:"sleeper_berth_hours"`
	CycleHoursUsed    float64            `json:"cycle_hours_used"`
	IsRestart         bool               `json:"is_restart"`
	Remarks           string             `json:"remarks"`
	Entries           []LogEntryResponse `json:"entries"`
}

type RouteStopResponse struct {
	SequenceOrder   int    `json:"sequence_order"`
	Location        string `json:"location"`
	StopType        string `json:"stop_type"`
	DurationMinutes int    `json:"duration_minutes"`
}

type TripResponse struct {
	ID                     string                 `json:"id"`
	Name                   string                 `json:"name"`
	CurrentLocation        string                 `json:"current_location"`
	PickupLocation         string                 `json:"pickup_location"`
	DropoffLocation        string                 `json:"dropoff_location"`
	CurrentCycleHours      float64                `json:"current_cycle_hours"`
	Status                 string                 `json:"status"`
	TotalDistanceMiles     float64                `json:"total_distance_miles"`
	EstimatedDurationHours float64                `json:"estimated_duration_hours"`
	CreatedAt              time.Time              `json:"created_at"`
	Segments               []RouteSegmentResponse `json:"segments"`
	DailyLogs              []DailyLogResponse     `json:"daily_logs"`
	Stops                  []RouteStopResponse    `json:"route_stops"`
}

func FromTrip(trip domain.Trip, plan domain.TripScheduleResult) TripResponse {
	res := TripResponse{
		ID:                     trip.ID,
		Name:                   trip.Name(),
		CurrentLocation:        trip.Request.CurrentLocation,
		PickupLocation:         trip.Request.PickupLocation,
		DropoffLocation:        trip.Request.DropoffLocation,
		CurrentCycleHours:      trip.Request.CurrentCycleHours,
		Status:                 string(trip.Status),
		TotalDistanceMiles:     trip.TotalDistanceMiles,
		EstimatedDurationHours: trip.EstimatedDurationHours,
		CreatedAt:              trip.CreatedAt,
		Segments:               make([]RouteSegmentResponse, 0, len(plan.Estimate.Segments)),
		DailyLogs:              make([]DailyLogResponse, 0, len(plan.Days)),
		Stops:                  make([]RouteStopResponse, 0, len(plan.Stops)),
	}

	for _, s := range plan.Estimate.Segments {
		res.Segments = append(res.Segments, RouteSegmentResponse(s))
	}
	for _, d := range plan.Days {
		res.DailyLogs = append(res.DailyLogs, fromDay(d))
	}
	for _, st := range plan.Stops {
		res.Stops = append(res.Stops, RouteStopResponse{
			SequenceOrder:   st.SequenceOrder,
			Location:        st.Location,
			StopType:        string(st.StopType),
			DurationMinutes: st.DurationMinutes,
		})
	}
	return res
}

func fromDay(d domain.DailyLogRecord) DailyLogResponse {
	out := DailyLogResponse{
		Date:              d.Date.Format(time.DateOnly),
		DrivingHours:      d.DrivingHours,
		OnDutyHours:       d.OnDutyHours,
		OffDutyHours:      d.OffDutyHours,
		SleeperBerthHours: d.SleeperBerthHours,
		CycleHoursUsed:    d.CycleHoursUsed,
		IsRestart:         d.Restart,
		Remarks:           d.Remarks,
		Entries:           make([]LogEntryResponse, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		out.Entries = append(out.Entries, LogEntryResponse{
			StartTime:  e.StartClock(),
			EndTime:    e.EndClock(),
			Hours:      e.Hours(),
			DutyStatus: string(e.DutyStatus),
			Location:   e.Location,
			Remarks:    e.Remarks,
		})
	}
	return out
}

type ComplianceResponse struct {
	Date           string   `json:"date"`
	Compliant      bool     `json:"compliant"`
	Violations     []string `json:"violations"`
	Warnings       []string `json:"warnings"`
	CycleRemaining float64  `json:"cycle_remaining"`
}

type ReportResponse struct {
	TripID            string               `json:"trip_id"`
	TotalDrivingHours float64              `json:"total_driving_hours"`
	TotalOnDutyHours  float64              `json:"total_on_duty_hours"`
	TotalOffDutyHours float64              `json:"total_off_duty_hours"`
	TotalSleeperHours float64              `json:"total_sleeper_berth_hours"`
	FinalCycleHours   float64              `json:"final_cycle_hours"`
	CycleRemaining    float64              `json:"cycle_remaining"`
	TotalDays         int                  `json:"total_days"`
	WorkingDays       int                  `json:"working_days"`
	RestartDays       int                  `json:"restart_days"`
	Compliant         bool                 `json:"compliant"`
	Daily             []ComplianceResponse `json:"daily"`
}

func FromReport(tripID string, rep hos.Report) ReportResponse {
	res := ReportResponse{
		TripID:            tripID,
		TotalDrivingHours: rep.TotalDrivingHours,
		TotalOnDutyHours:  rep.TotalOnDutyHours,
		TotalOffDutyHours: rep.TotalOffDutyHours,
		TotalSleeperHours: rep.TotalSleeperHours,
		FinalCycleHours:   rep.FinalCycleHours,
		CycleRemaining:    rep.CycleRemaining,
		TotalDays:         len(rep.Daily),
		WorkingDays:       rep.WorkingDays,
		RestartDays:       rep.RestartDays,
		Compliant:         rep.Compliant,
		Daily:             make([]ComplianceResponse, 0, len(rep.Daily)),
	}
	for _, c := range rep.Daily {
		res.Daily = append(res.Daily, ComplianceResponse{
			Date:           c.Date.Format(time.DateOnly),
			Compliant:      c.Compliant,
			Violations:     c.Violations,
			Warnings:       c.Warnings,
			CycleRemaining: c.CycleRemaining,
		})
	}
	return res
}
