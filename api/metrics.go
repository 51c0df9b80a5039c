package api

import (
	"sort"
	"sync"
	"time"
)

// recentDurations is how many durations per route feed the percentile estimates
const recentDurations = 200

// RequestTrace is the timing of a single request
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Route     string        `json:"route"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

// RouteMetrics aggregates the traces of one method and route template
type RouteMetrics struct {
	Method      string        `json:"method"`
	Route       string        `json:"route"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	P50Time     time.Duration `json:"p50Time"`
	P95Time     time.Duration `json:"p95Time"`
	LastRequest time.Time     `json:"lastRequest"`

	recent []time.Duration
}

// MetricsSummary is the snapshot served to national admins
type MetricsSummary struct {
	Since         time.Time      `json:"since"`
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	ErrorRate     float64        `json:"errorRate"`
	Routes        []RouteMetrics `json:"routes"`
	Recent        []RequestTrace `json:"recent"`
}

// MetricsCollector keeps per route request metrics in memory
type MetricsCollector struct {
	mu        sync.RWMutex
	since     time.Time
	traces    []RequestTrace
	maxTraces int
	routes    map[string]*RouteMetrics
	total     int64
	errors    int64
}

// NewMetricsCollector creates a collector keeping the last maxTraces traces
func NewMetricsCollector(maxTraces int) *MetricsCollector {
	if maxTraces <= 0 {
		maxTraces = 1000
	}
	return &MetricsCollector{
		since:     time.Now(),
		maxTraces: maxTraces,
		traces:    make([]RequestTrace, 0, maxTraces),
		routes:    make(map[string]*RouteMetrics),
	}
}

// Record adds a finished request
func (mc *MetricsCollector) Record(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	key := trace.Method + " " + trace.Route
	m, ok := mc.routes[key]
	if !ok {
		m = &RouteMetrics{Method: trace.Method, Route: trace.Route, MinTime: trace.Duration}
		mc.routes[key] = m
	}
	m.Count++
	m.TotalTime += trace.Duration
	m.AvgTime = m.TotalTime / time.Duration(m.Count)
	m.LastRequest = trace.StartTime
	if trace.Duration < m.MinTime {
		m.MinTime = trace.Duration
	}
	if trace.Duration > m.MaxTime {
		m.MaxTime = trace.Duration
	}
	if trace.Status >= 400 {
		m.ErrorCount++
		mc.errors++
	}
	if len(m.recent) >= recentDurations {
		m.recent = m.recent[1:]
	}
	m.recent = append(m.recent, trace.Duration)
	mc.total++
}

// Summary returns the routes slowest first and the last traces, newest first
func (mc *MetricsCollector) Summary(recent int) MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	s := MetricsSummary{
		Since:         mc.since,
		TotalRequests: mc.total,
		TotalErrors:   mc.errors,
		Routes:        make([]RouteMetrics, 0, len(mc.routes)),
		Recent:        make([]RequestTrace, 0, recent),
	}
	if mc.total > 0 {
		s.ErrorRate = float64(mc.errors) / float64(mc.total)
	}
	for _, m := range mc.routes {
		cp := *m
		cp.P50Time, cp.P95Time = percentiles(m.recent)
		cp.recent = nil
		s.Routes = append(s.Routes, cp)
	}
	sort.Slice(s.Routes, func(i, j int) bool {
		if s.Routes[i].AvgTime != s.Routes[j].AvgTime {
			return s.Routes[i].AvgTime > s.Routes[j].AvgTime
		}
		return s.Routes[i].Method+s.Routes[i].Route < s.Routes[j].Method+s.Routes[j].Route
	})
	for i := len(mc.traces) - 1; i >= 0 && len(s.Recent) < recent; i-- {
		s.Recent = append(s.Recent, mc.traces[i])
	}
	return s
}

func percentiles(durations []time.Duration) (p50, p95 time.Duration) {
	if len(durations) == 0 {
		return 0, 0
	}
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)*50/100], sorted[len(sorted)*95/100]
}
