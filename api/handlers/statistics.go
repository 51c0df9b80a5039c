package handlers

import (
	"net/http"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/services"
)

// Statistics exposes national figures to national admins
type Statistics struct {
	Service *services.StatisticsService
}

// NationalHandler returns the national statistics
func (s Statistics) NationalHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	stats, err := s.Service.National(ctx)
	if err != nil {
		writeError(w, "failed to get statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
