package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency pairs a readiness check with the name it is reported
// under. The fingerprint store gets a check alongside the database and
// cache: a degraded duplicate check is survivable per claim, but a
// store that stays down means every assessment ships without history.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	deps    []Dependency
	version string
	started time.Time
}

// NewHealthHandler creates a health handler over the given dependency
// checks. Dependencies with a nil checker are skipped, so optional
// backends can be passed unconditionally.
func NewHealthHandler(version string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{
		deps:    deps,
		version: version,
		started: time.Now().UTC(),
	}
}

// healthStatus is the body of the health and readiness responses.
type healthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:        "up",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// Ready handles GET /ready. Every configured dependency must answer
// its ping for the service to report ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	ready := true
	for _, dep := range h.deps {
		if dep.Checker == nil {
			continue
		}
		if err := dep.Checker.Ping(ctx); err != nil {
			checks[dep.Name] = "failed: " + err.Error()
			ready = false
		} else {
			checks[dep.Name] = "ok"
		}
	}

	status := healthStatus{
		Status:        "ready",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Checks:        checks,
	}
	if !ready {
		status.Status = "not ready"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Live handles GET /live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
