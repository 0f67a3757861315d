// Package render turns planned trips into printable driver documents.
package render

import (
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/hos"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Grid geometry for a log sheet, in millimetres on a landscape Letter page.
const (
	gridLeft     = 45.0
	gridTop      = 45.0
	gridWidth    = 216.0
	gridRowH     = 10.0
	gridRowCount = 4
)

// Grid rows, top to bottom, as on a paper driver's log.
var gridRows = []domain.DutyStatus{
	domain.OffDuty,
	domain.SleeperBerth,
	domain.Driving,
	domain.OnDutyNotDriving,
}

// PDFRenderer writes one summary page with the HOS report followed by one
// log sheet per day.
type PDFRenderer struct {
	rules hos.Rules
}

func NewPDFRenderer(rules hos.Rules) *PDFRenderer {
	return &PDFRenderer{rules: rules}
}

func (r *PDFRenderer) Render(w io.Writer, trip domain.Trip, plan domain.TripScheduleResult) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetTitle("Driver Logs "+trip.Name(), true)
	pdf.SetAuthor("eld-trip-planner", false)
	pdf.SetAutoPageBreak(true, 12)

	report := r.rules.Report(plan.Days)
	r.summaryPage(pdf, trip, plan, report)
	for i, day := range plan.Days {
		r.logSheet(pdf, trip, day, report.Daily[i], i+1, len(plan.Days))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf trip=%s: %w", trip.ID, err)
	}
	return nil
}

func (r *PDFRenderer) summaryPage(pdf *fpdf.Fpdf, trip domain.Trip, plan domain.TripScheduleResult, rep hos.Report) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Hours of Service Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Trip %s", trip.ID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(routeLine(trip)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Distance %.1f mi, driving %.1f h, starting cycle %.1f h",
		plan.Estimate.TotalDistanceMiles, plan.Estimate.TotalDurationHours, trip.Request.CurrentCycleHours), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	status := "COMPLIANT"
	if !rep.Compliant {
		status = "VIOLATIONS FOUND"
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Status: "+status, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Working days: %d   Restart days: %d", rep.WorkingDays, rep.RestartDays),
		fmt.Sprintf("Driving %.2f h   On duty %.2f h   Off duty %.2f h   Sleeper %.2f h",
			rep.TotalDrivingHours, rep.TotalOnDutyHours, rep.TotalOffDutyHours, rep.TotalSleeperHours),
		fmt.Sprintf("Cycle used at end %.2f h, remaining %.2f h", rep.FinalCycleHours, rep.CycleRemaining),
	} {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range []struct {
		label string
		w     float64
	}{{"Seq", 14}, {"Type", 28}, {"Location", 120}, {"Minutes", 24}} {
		pdf.CellFormat(h.w, 7, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, st := range plan.Stops {
		pdf.CellFormat(14, 6, fmt.Sprint(st.SequenceOrder), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, string(st.StopType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(120, 6, tr(st.Location), "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprint(st.DurationMinutes), "1", 1, "R", false, 0, "")
	}
}

func (r *PDFRenderer) logSheet(pdf *fpdf.Fpdf, trip domain.Trip, day domain.DailyLogRecord, c hos.Compliance, n, total int) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Driver's Daily Log  %s  (day %d of %d)", day.Date.Format("Mon Jan 2, 2006"), n, total), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(routeLine(trip)), "", 1, "L", false, 0, "")
	if day.Restart {
		pdf.CellFormat(0, 6, "34-hour restart period", "", 1, "L", false, 0, "")
	}

	drawGrid(pdf, day)

	y := gridTop + gridRowH*gridRowCount + 12
	pdf.SetXY(10, y)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Driving %.2f h   On duty %.2f h   Off duty %.2f h   Sleeper %.2f h   Cycle used %.2f h   Remaining %.2f h",
		day.DrivingHours, day.OnDutyHours, day.OffDutyHours, day.SleeperBerthHours, day.CycleHoursUsed, c.CycleRemaining), "", 1, "L", false, 0, "")
	for _, v := range c.Violations {
		pdf.SetTextColor(180, 0, 0)
		pdf.CellFormat(0, 6, "Violation: "+v, "", 1, "L", false, 0, "")
	}
	for _, v := range c.Warnings {
		pdf.SetTextColor(160, 100, 0)
		pdf.CellFormat(0, 6, "Warning: "+v, "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range []struct {
		label string
		w     float64
	}{{"Start", 18}, {"End", 18}, {"Status", 40}, {"Location", 90}, {"Remarks", 90}} {
		pdf.CellFormat(h.w, 6, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range day.Entries {
		pdf.CellFormat(18, 5, e.StartClock(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 5, e.EndClock(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 5, e.DutyStatus.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 5, tr(e.Location), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 5, tr(e.Remarks), "1", 1, "L", false, 0, "")
	}
}

// drawGrid draws the 24-hour duty status grid and traces the day's entries on it.
func drawGrid(pdf *fpdf.Fpdf, day domain.DailyLogRecord) {
	hourW := gridWidth / domain.HoursPerDay

	pdf.SetFont("Helvetica", "", 7)
	for h := 0; h <= 24; h++ {
		x := gridLeft + float64(h)*hourW
		label := fmt.Sprint(h)
		switch h {
		case 0, 24:
			label = "M"
		case 12:
			label = "N"
		}
		pdf.Text(x-1, gridTop-2, label)
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	for i, status := range gridRows {
		y := gridTop + float64(i)*gridRowH
		pdf.Rect(gridLeft, y, gridWidth, gridRowH, "D")
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(10, y+gridRowH/2+1, status.Label())
		pdf.Text(gridLeft+gridWidth+3, y+gridRowH/2+1, fmt.Sprintf("%.2f", statusHours(day, status)))
	}

	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.1)
	for h := 1; h < 24; h++ {
		x := gridLeft + float64(h)*hourW
		pdf.Line(x, gridTop, x, gridTop+gridRowH*gridRowCount)
	}

	pdf.SetDrawColor(0, 60, 160)
	pdf.SetLineWidth(0.8)
	var prevX, prevY float64
	for i, e := range day.Entries {
		y := gridTop + float64(rowOf(e.DutyStatus))*gridRowH + gridRowH/2
		x1 := gridLeft + e.Start.Hours()*hourW
		x2 := gridLeft + e.End.Hours()*hourW
		if i > 0 && prevY != y {
			pdf.Line(prevX, prevY, x1, y)
		}
		pdf.Line(x1, y, x2, y)
		prevX, prevY = x2, y
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
}

func rowOf(s domain.DutyStatus) int {
	for i, r := range gridRows {
		if r == s {
			return i
		}
	}
	return 0
}

func statusHours(day domain.DailyLogRecord, s domain.DutyStatus) float64 {
	var d time.Duration
	for _, e := range day.Entries {
		if e.DutyStatus == s {
			d += e.Duration()
		}
	}
	return d.Hours()
}

// The core fonts are cp1252, which has no arrow glyph.
func routeLine(trip domain.Trip) string {
	return fmt.Sprintf("%s -> %s -> %s", trip.Request.CurrentLocation, trip.Request.PickupLocation, trip.Request.DropoffLocation)
}
