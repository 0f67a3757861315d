package handlers

import (
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps core errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCycleHours),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidHours):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTripNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, domain.ErrScheduleOverrun):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err with its mapped status. Internal errors are
// logged and hidden from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("req_id=%s op=%s err=%v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
