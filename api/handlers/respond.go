package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/linesmerrill/crime-report-api/config"
	"github.com/linesmerrill/crime-report-api/models"
)

// statusFor maps the code of an application error onto an http status
func statusFor(err error) int {
	switch models.CodeOf(err) {
	case models.CodeNotFound, models.CodeCaseNotFound, models.CodeEvidenceNotFound, models.CodeUserNotFound,
		models.CodeOfficerNotFound, models.CodeInterviewNotFound, models.CodeStationNotFound, models.CodeNotificationNotFound:
		return http.StatusNotFound
	case models.CodeDuplicateEmail:
		return http.StatusConflict
	case models.CodeInvalidCredentials, models.CodeUnauthenticated:
		return http.StatusUnauthorized
	case models.CodeUnauthorized, models.CodeInvalidUserType, models.CodeInvalidBadge, models.CodeInactiveOfficer:
		return http.StatusForbidden
	case models.CodeInvalidRole, models.CodeInvalidStatus, models.CodeInvalidInput:
		return http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes it with the status matching its code
func writeError(w http.ResponseWriter, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	config.ErrorStatus(message, statusFor(err), w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// decode reads a json body into v. A malformed body is an invalid_input error.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewError(models.CodeInvalidInput, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// decodeOptional is decode for endpoints whose body may be empty
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return models.NewError(models.CodeInvalidInput, fmt.Sprintf("invalid request body: %v", err))
}

// decodeStrict is decode rejecting fields v does not declare
func decodeStrict(r *http.Request, v interface{}) error {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		return models.NewError(models.CodeInvalidInput, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// queryInt returns the integer query parameter key, or 0 when missing or malformed
func queryInt(r *http.Request, key string) int {
	i, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return i
}

type successResponse struct {
	Success bool `json:"success"`
}

type idResponse struct {
	ID string `json:"_id"`
}
