package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping() error {
	return s.err
}

type stubScheduler struct {
	running bool
	next    *time.Time
}

func (s *stubScheduler) IsRunning() bool {
	return s.running
}

func (s *stubScheduler) NextRunTime() *time.Time {
	return s.next
}

func setupHealthTest(pinger Pinger, scheduler SchedulerStatus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewHealthController(pinger, scheduler, "test-version")

	router := gin.New()
	router.GET("/health", controller.Status)
	return router
}

func TestHealthController_Healthy(t *testing.T) {
	router := setupHealthTest(&stubPinger{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test-version", response.Version)
	assert.Equal(t, "ok", response.Checks["database"])
}

func TestHealthController_DatabaseDown(t *testing.T) {
	router := setupHealthTest(&stubPinger{err: errors.New("connection refused")}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
}

func TestHealthController_NoPinger(t *testing.T) {
	router := setupHealthTest(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not configured", response.Checks["database"])
}

func TestHealthController_SchedulerStatus(t *testing.T) {
	next := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	router := setupHealthTest(&stubPinger{}, &stubScheduler{running: true, next: &next})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "next sweep at 2026-09-01T06:00:00Z", response.Checks["enrichment_scheduler"])
}

func TestHealthController_SchedulerStopped(t *testing.T) {
	router := setupHealthTest(&stubPinger{}, &stubScheduler{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "stopped", response.Checks["enrichment_scheduler"])
}
