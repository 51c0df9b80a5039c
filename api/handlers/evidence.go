package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// Evidence exposes the evidence ledger of a case
type Evidence struct {
	Service *services.EvidenceService
}

// UploadURLHandler returns a signed upload ticket
func (e Evidence) UploadURLHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	ticket, err := e.Service.GenerateUploadURL(ctx)
	if err != nil {
		writeError(w, "failed to generate upload url", err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// AddEvidenceHandler records an uploaded file against a case
func (e Evidence) AddEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddEvidenceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := e.Service.AddEvidence(ctx, mux.Vars(r)["case_id"], req)
	if err != nil {
		writeError(w, "failed to add evidence", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// CaseEvidenceHandler lists the evidence of a case with download urls
func (e Evidence) CaseEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	views, err := e.Service.GetCaseEvidence(ctx, mux.Vars(r)["case_id"])
	if err != nil {
		writeError(w, "failed to get evidence", err)
		return
	}
	if views == nil {
		views = []models.EvidenceView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// VerifyHandler marks evidence as verified. The body is optional.
func (e Evidence) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEvidenceRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := e.Service.VerifyEvidence(ctx, mux.Vars(r)["evidence_id"], req.OfficerID); err != nil {
		writeError(w, "failed to verify evidence", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// DeleteHandler removes evidence and its file
func (e Evidence) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := e.Service.DeleteEvidence(ctx, mux.Vars(r)["evidence_id"]); err != nil {
		writeError(w, "failed to delete evidence", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
