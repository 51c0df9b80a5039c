package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// Interview exposes remote interview scheduling
type Interview struct {
	Service *services.InterviewService
}

// ScheduleHandler books an interview on a case
func (i Interview) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleInterviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := i.Service.ScheduleInterview(ctx, req)
	if err != nil {
		writeError(w, "failed to schedule interview", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// OfficerInterviewsHandler lists the interviews of an officer, optionally by status
func (i Interview) OfficerInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	status := models.InterviewStatus(r.URL.Query().Get("status"))
	views, err := i.Service.GetOfficerInterviews(ctx, mux.Vars(r)["officer_id"], status)
	if err != nil {
		writeError(w, "failed to get interviews", err)
		return
	}
	if views == nil {
		views = []models.InterviewView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// UpdateStatusHandler records the outcome of an interview
func (i Interview) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateInterviewStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.Service.UpdateInterviewStatus(ctx, mux.Vars(r)["interview_id"], req); err != nil {
		writeError(w, "failed to update interview status", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
