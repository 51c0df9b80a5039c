package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// Case exposes report intake and case tracking
type Case struct {
	Service *services.CaseService
}

// CreateReportHandler stores a crime report. A session is optional.
func (c Case) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var sub models.ReportSubmission
	if err := decodeStrict(r, &sub); err != nil {
		writeError(w, "failed to decode report", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := c.Service.CreateReport(ctx, sub)
	if err != nil {
		writeError(w, "failed to create report", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CasesHandler lists cases, filtered by the status, officer_id and station_id query params
// and paged with limit and page
func (c Case) CasesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CaseFilter{
		Status:    models.CaseStatus(q.Get("status")),
		OfficerID: q.Get("officer_id"),
		StationID: q.Get("station_id"),
		Limit:     queryInt(r, "limit"),
		Page:      queryInt(r, "page"),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := c.Service.ListCases(ctx, filter)
	if err != nil {
		writeError(w, "failed to list cases", err)
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	writeJSON(w, http.StatusOK, cases)
}

// CaseByIDHandler returns one case
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := c.Service.GetCase(ctx, mux.Vars(r)["case_id"])
	if err != nil {
		writeError(w, "failed to get case", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStatusHandler moves a case to a new status
func (c Case) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCaseStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Service.UpdateCaseStatus(ctx, mux.Vars(r)["case_id"], req); err != nil {
		writeError(w, "failed to update case status", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// AssignmentHandler assigns a case to an officer
func (c Case) AssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AssignCaseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Service.AssignCase(ctx, mux.Vars(r)["case_id"], req.OfficerID); err != nil {
		writeError(w, "failed to assign case", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// AddUpdateHandler posts a note or message on the case timeline
func (c Case) AddUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddCaseUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := c.Service.AddCaseNote(ctx, mux.Vars(r)["case_id"], req)
	if err != nil {
		writeError(w, "failed to add case update", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdatesHandler returns the case timeline
func (c Case) UpdatesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updates, err := c.Service.GetCaseUpdates(ctx, mux.Vars(r)["case_id"])
	if err != nil {
		writeError(w, "failed to get case updates", err)
		return
	}
	if updates == nil {
		updates = []models.CaseUpdate{}
	}
	writeJSON(w, http.StatusOK, updates)
}
