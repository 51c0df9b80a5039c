package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/api"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// User exposes citizen registration, login and the user directory
type User struct {
	Service *services.UserService
	Auth    *api.Authenticator
}

// RegisterHandler creates a citizen account
func (u User) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := u.Service.Register(ctx, req)
	if err != nil {
		writeError(w, "failed to register user", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userId": id})
}

// LoginHandler signs a citizen in and returns a session token
func (u User) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := u.Service.Login(ctx, req)
	if err != nil {
		writeError(w, "failed to login", err)
		return
	}
	remember(u.Auth, r, resp)
	writeJSON(w, http.StatusOK, resp)
}

// MeHandler returns the caller, with officer details for staff
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	p := services.CurrentIdentity(r.Context())
	if p == nil {
		writeError(w, "unauthorized", models.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UserByIDHandler returns a single user
func (u User) UserByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.Service.GetUser(ctx, mux.Vars(r)["user_id"])
	if err != nil {
		writeError(w, "failed to get user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateRoleHandler changes the role of a user
func (u User) UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, "failed to decode request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := u.Service.UpdateRole(ctx, mux.Vars(r)["user_id"], req.Role); err != nil {
		writeError(w, "failed to update role", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// remember primes the token cache with a token that was just issued
func remember(a *api.Authenticator, r *http.Request, resp *models.LoginResponse) {
	if a == nil || resp.Subject == "" {
		return
	}
	if err := a.Remember(r, resp.Token, resp.Subject); err != nil {
		zap.S().Warnw("failed to cache session token", "userId", resp.UserID, "error", err)
	}
}
