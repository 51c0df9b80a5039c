package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/crime-report-api/config"
	"github.com/linesmerrill/crime-report-api/databases/mocks"
	"github.com/linesmerrill/crime-report-api/storage"
)

func testApp() *App {
	a := &App{
		Config: config.Config{
			JWTSecret:      "test-secret",
			TokenTTL:       time.Hour,
			RateLimitRPM:   2,
			AllowedOrigins: []string{"*"},
			RequestTimeout: time.Second,
		},
		dbHelper: &mocks.DatabaseHelper{},
	}
	a.initializeRoutes()
	return a
}

func TestApp_NewFillsDefaults(t *testing.T) {
	a := testApp()

	require.NotNil(t, a.Router)
	require.NotNil(t, a.Scheduler)
	require.NotNil(t, a.Hub)
	assert.IsType(t, storage.Unconfigured{}, a.storage)
	assert.NotNil(t, a.counter)
	assert.NotNil(t, a.metrics)
	assert.Nil(t, a.mailer)
}

func TestApp_Routes(t *testing.T) {
	a := testApp()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/v1/me", http.StatusUnauthorized},
		{"GET", "/api/v1/cases", http.StatusUnauthorized},
		{"GET", "/api/v1/statistics", http.StatusUnauthorized},
		{"GET", "/api/v1/metrics", http.StatusUnauthorized},
		{"DELETE", "/api/v1/auth/logout", http.StatusUnauthorized},
		{"GET", "/api/v1/does-not-exist", http.StatusNotFound},
		{"GET", "/api/v1/auth/register", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		a.Router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rr.Code, "%s %s", tt.method, tt.path)
	}
}

func TestApp_RateLimitsPerRoute(t *testing.T) {
	a := testApp()

	call := func() int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		a.Router.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusUnauthorized, call())
	assert.Equal(t, http.StatusUnauthorized, call())
	assert.Equal(t, http.StatusTooManyRequests, call())
}

func TestApp_RecordsMetrics(t *testing.T) {
	a := testApp()

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	summary := a.metrics.Summary(10)
	assert.EqualValues(t, 1, summary.TotalRequests)
	require.Len(t, summary.Recent, 1)
	assert.Equal(t, "/health", summary.Recent[0].Route)
}
