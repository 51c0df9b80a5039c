package api

import (
	"context"
	"time"
)

// QueryTimeout bounds a single service call made while handling a request
var QueryTimeout = 10 * time.Second

// WithQueryTimeout derives a context that expires after QueryTimeout, or earlier when the
// request deadline is sooner
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}
