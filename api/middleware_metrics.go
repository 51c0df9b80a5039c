package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SlowRequest is the duration above which a request is logged as slow
const SlowRequest = time.Second

// MetricsMiddleware times every matched route and tags the response with a request id. It
// must be installed with Router.Use so the route template is known.
func MetricsMiddleware(mc *MetricsCollector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			requestID := uuid.New().String()
			w.Header().Set("X-Request-ID", requestID)
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(wrapped, r)

			trace := RequestTrace{
				RequestID: requestID,
				Method:    r.Method,
				Route:     route,
				Status:    wrapped.statusCode,
				StartTime: start,
				Duration:  time.Since(start),
			}
			mc.Record(trace)

			if trace.Duration > SlowRequest {
				zap.S().Warnw("slow request detected",
					"requestId", requestID,
					"method", r.Method,
					"route", route,
					"duration", trace.Duration,
					"status", trace.Status,
				)
			}
		})
	}
}

// responseWriter captures the status code. It implements http.Hijacker for websocket
// upgrades.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
