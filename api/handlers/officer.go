package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// Officer exposes officer login, the officer directory and stations
type Officer struct {
	Service *services.OfficerService
	Auth    *api.Authenticator
}

// LoginHandler signs an officer or admin in
func (o Officer) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := o.Service.Login(ctx, req)
	if err != nil {
		writeError(w, "failed to login", err)
		return
	}
	remember(o.Auth, r, resp)
	writeJSON(w, http.StatusOK, resp)
}

// CreateOfficerHandler attaches an officer profile to an existing user
func (o Officer) CreateOfficerHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOfficerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := o.Service.CreateOfficer(ctx, req)
	if err != nil {
		writeError(w, "failed to create officer", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// OfficerByIDHandler returns an officer joined with their user and station
func (o Officer) OfficerByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	details, err := o.Service.GetOfficerDetails(ctx, mux.Vars(r)["officer_id"])
	if err != nil {
		writeError(w, "failed to get officer", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// UpdateStatusHandler sets the status of an officer
func (o Officer) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOfficerStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := o.Service.UpdateStatus(ctx, mux.Vars(r)["officer_id"], req.Status); err != nil {
		writeError(w, "failed to update officer status", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// StationsHandler lists every station
func (o Officer) StationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	stations, err := o.Service.ListStations(ctx)
	if err != nil {
		writeError(w, "failed to list stations", err)
		return
	}
	// an empty list is [] rather than null
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, stations)
}

// CreateStationHandler adds a station
func (o Officer) CreateStationHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Station
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := o.Service.CreateStation(ctx, req)
	if err != nil {
		writeError(w, "failed to create station", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// StationOfficersHandler lists the officers posted at a station
func (o Officer) StationOfficersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	officers, err := o.Service.GetStationOfficers(ctx, mux.Vars(r)["station_id"])
	if err != nil {
		writeError(w, "failed to get station officers", err)
		return
	}
	if officers == nil {
		officers = []models.OfficerDetails{}
	}
	writeJSON(w, http.StatusOK, officers)
}
