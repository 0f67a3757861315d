package handlers

import (
	"bytes"
	"eld-trip-planner/internal/api/dto"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"eld-trip-planner/internal/services"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type TripHandler struct {
	Planner  *services.TripPlanner
	Repo     ports.TripRepository
	Renderer ports.Renderer
	Now      func() time.Time
}

// Create plans a trip from the request body and stores it.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.CurrentCycleHours == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_hours is required")
		return
	}

	start, err := h.startDate(req.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	tripReq, err := domain.NewTripRequest(req.CurrentLocation, req.PickupLocation, req.DropoffLocation, *req.CurrentCycleHours)
	if err != nil {
		writeDomainError(w, r, "trips.Create", err)
		return
	}

	trip, plan, err := h.Planner.PlanAndSave(r.Context(), tripReq, start)
	if err != nil {
		writeDomainError(w, r, "trips.Create", err)
		return
	}

	w.Header().Set("Location", "/trips/"+trip.ID)
	writeJSON(w, r, http.StatusCreated, dto.FromTrip(trip, plan))
}

// Get returns a stored trip with its daily logs and stops.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	trip, plan, err := h.load(r, id)
	if err != nil {
		writeDomainError(w, r, "trips.Get", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip, plan))
}

// Report returns the HOS compliance report for a stored trip.
func (h *TripHandler) Report(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	plan, err := h.Repo.GetPlan(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "trips.Report", err)
		return
	}

	rep := h.Planner.Rules().Report(plan.Days)
	writeJSON(w, r, http.StatusOK, dto.FromReport(id, rep))
}

// LogsPDF streams the trip's log sheets as a PDF attachment.
func (h *TripHandler) LogsPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	trip, plan, err := h.load(r, id)
	if err != nil {
		writeDomainError(w, r, "trips.LogsPDF", err)
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, trip, plan); err != nil {
		writeDomainError(w, r, "trips.LogsPDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s-logs.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *TripHandler) load(r *http.Request, id string) (domain.Trip, domain.TripScheduleResult, error) {
	trip, err := h.Repo.GetTrip(r.Context(), id)
	if err != nil {
		return domain.Trip{}, domain.TripScheduleResult{}, err
	}
	plan, err := h.Repo.GetPlan(r.Context(), id)
	if err != nil {
		return domain.Trip{}, domain.TripScheduleResult{}, err
	}
	return trip, plan, nil
}

func (h *TripHandler) startDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		return now().UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}
