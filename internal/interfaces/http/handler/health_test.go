package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claim-assessment-engine/internal/interfaces/http/handler"
)

type stubChecker struct {
	err error
}

func (c stubChecker) Ping(ctx context.Context) error {
	return c.err
}

func readyResponse(t *testing.T, h *handler.HealthHandler) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.Ready(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReady_AllDependenciesHealthy(t *testing.T) {
	h := handler.NewHealthHandler("test",
		handler.Dependency{Name: "database", Checker: stubChecker{}},
		handler.Dependency{Name: "fingerprint_store", Checker: stubChecker{}},
	)

	code, body := readyResponse(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["fingerprint_store"])
}

func TestReady_FailingStoreReportsNotReady(t *testing.T) {
	h := handler.NewHealthHandler("test",
		handler.Dependency{Name: "database", Checker: stubChecker{}},
		handler.Dependency{Name: "fingerprint_store", Checker: stubChecker{err: errors.New("history file missing")}},
	)

	code, body := readyResponse(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Contains(t, checks["fingerprint_store"], "failed")
}

func TestReady_NilCheckersSkipped(t *testing.T) {
	h := handler.NewHealthHandler("test",
		handler.Dependency{Name: "database", Checker: nil},
		handler.Dependency{Name: "redis", Checker: nil},
	)

	code, body := readyResponse(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	assert.NotContains(t, body, "checks")
}

func TestHealth_ReportsVersion(t *testing.T) {
	h := handler.NewHealthHandler("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "up", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}
