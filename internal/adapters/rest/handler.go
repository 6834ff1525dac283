// Package rest exposes the analysis pipeline over HTTP.
package rest

import (
	"net/http"

	"github.com/ewilliams-labs/timbre/internal/core/ports"
	"github.com/ewilliams-labs/timbre/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      *services.AnalysisService // Dependency on the Core Service
	verifier ports.TokenVerifier       // Bearer token verification, may be nil
	router   *http.ServeMux            // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.AnalysisService, verifier ports.TokenVerifier) *Handler {
	h := &Handler{
		svc:      svc,
		verifier: verifier,
		router:   http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Analysis Pipeline
	h.router.HandleFunc("POST /analyze-audio", h.AnalyzeAudio)
	h.router.HandleFunc("GET /analyses/{songId}", h.GetAnalysis)
	h.router.HandleFunc("GET /analyses", h.ListAnalyses)
	// Auth-gated
	h.router.HandleFunc("GET /protected-data", h.requireAuth(h.ProtectedData))
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Timbre is live 🎶"})
}
