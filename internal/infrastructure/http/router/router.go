package router

import (
	"net/http"

	"claim-assessment-engine/internal/interfaces/http/handler"
)

// Router holds all HTTP handlers
type Router struct {
	mux           *http.ServeMux
	claimHandler  *handler.ClaimHandler
	healthHandler *handler.HealthHandler
	metricsPath   string
}

// NewRouter creates a new router with all routes configured. An empty
// metricsPath disables the metrics endpoint.
func NewRouter(
	claimHandler *handler.ClaimHandler,
	healthHandler *handler.HealthHandler,
	metricsPath string,
) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		claimHandler:  claimHandler,
		healthHandler: healthHandler,
		metricsPath:   metricsPath,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// Health endpoints
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)
	r.mux.HandleFunc("GET /live", r.healthHandler.Live)

	// Claim assessment endpoints
	r.mux.HandleFunc("POST /api/v1/claims/assess", r.claimHandler.AssessClaim)
	r.mux.HandleFunc("GET /api/v1/claims", r.claimHandler.ListClaims)
	r.mux.HandleFunc("GET /api/v1/claims/{id}", r.claimHandler.GetClaim)

	if r.metricsPath != "" {
		r.mux.Handle("GET "+r.metricsPath, handler.MetricsHandler())
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r
}
