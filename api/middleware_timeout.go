package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const timeoutBody = `{"response": "request timeout, the request took too long to process", "code": "timeout"}`

// TimeoutMiddleware answers 503 when a request runs longer than timeout. The request context
// carries the deadline so database calls stop too. Websocket upgrades are long lived and
// pass through untouched.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 || websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}
