package api

import (
	"eld-trip-planner/internal/api/handlers"
	"eld-trip-planner/internal/ports"
	"eld-trip-planner/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.TripPlanner, repo ports.TripRepository, renderer ports.Renderer) http.Handler {
	mux := http.NewServeMux()

	trips := &handlers.TripHandler{
		Planner:  planner,
		Repo:     repo,
		Renderer: renderer,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("POST /trips", trips.Create)
	mux.HandleFunc("GET /trips/{id}", trips.Get)
	mux.HandleFunc("GET /trips/{id}/report", trips.Report)
	mux.HandleFunc("GET /trips/{id}/logs.pdf", trips.LogsPDF)

	return requestIDMiddleware(loggingMiddleware(mux))
}
