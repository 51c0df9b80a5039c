package handlers

import (
	"net/http"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// defaultRecentTraces is how many traces the dashboard returns without a limit param
const defaultRecentTraces = 20

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"route":       route.Route,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"p50Time":     route.P50Time.Milliseconds(),
			"p95Time":     route.P95Time.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// formatTraces converts trace durations to milliseconds
func formatTraces(traces []api.RequestTrace) []map[string]interface{} {
	result := make([]map[string]interface{}, len(traces))
	for i, trace := range traces {
		result[i] = map[string]interface{}{
			"requestId": trace.RequestID,
			"method":    trace.Method,
			"route":     trace.Route,
			"status":    trace.Status,
			"startTime": trace.StartTime,
			"duration":  trace.Duration.Milliseconds(),
		}
	}
	return result
}

// MetricsHandler serves the request metrics dashboard
type MetricsHandler struct {
	Collector *api.MetricsCollector
}

// GetMetricsDashboard returns per route latency and the most recent traces
func (m MetricsHandler) GetMetricsDashboard(w http.ResponseWriter, r *http.Request) {
	if !services.HasRole(r.Context(), models.RoleNationalAdmin) {
		writeError(w, "failed to get metrics", models.ErrUnauthorized)
		return
	}

	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = defaultRecentTraces
	}
	summary := m.Collector.Summary(limit)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": map[string]interface{}{
			"since":         summary.Since,
			"totalRequests": summary.TotalRequests,
			"totalErrors":   summary.TotalErrors,
			"errorRate":     summary.ErrorRate,
			"routeCount":    len(summary.Routes),
		},
		"routes":       formatRouteMetrics(summary.Routes),
		"recentTraces": formatTraces(summary.Recent),
	})
}
