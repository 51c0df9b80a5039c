package models

import "errors"

// ErrorCode is the machine readable identifier of an application error
type ErrorCode string

// Error codes returned in the "code" field of error responses
const (
	CodeNotFound             ErrorCode = "not_found"
	CodeCaseNotFound         ErrorCode = "case_not_found"
	CodeEvidenceNotFound     ErrorCode = "evidence_not_found"
	CodeUserNotFound         ErrorCode = "user_not_found"
	CodeOfficerNotFound      ErrorCode = "officer_not_found"
	CodeInterviewNotFound    ErrorCode = "interview_not_found"
	CodeStationNotFound      ErrorCode = "station_not_found"
	CodeNotificationNotFound ErrorCode = "notification_not_found"
	CodeDuplicateEmail       ErrorCode = "duplicate_email"
	CodeInvalidCredentials   ErrorCode = "invalid_credentials"
	CodeInvalidUserType      ErrorCode = "invalid_user_type"
	CodeInvalidBadge         ErrorCode = "invalid_badge"
	CodeInactiveOfficer      ErrorCode = "inactive_officer"
	CodeInvalidRole          ErrorCode = "invalid_role"
	CodeInvalidStatus        ErrorCode = "invalid_status"
	CodeInvalidInput         ErrorCode = "invalid_input"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeUnauthenticated      ErrorCode = "unauthenticated"
)

// AppError is a business rule failure. Two AppErrors match under errors.Is when their
// codes are equal, so a sentinel with a more specific message still matches.
type AppError struct {
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError returns an AppError with the given code and message
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinel errors for every entry of the error taxonomy
var (
	ErrNotFound             = NewError(CodeNotFound, "not found")
	ErrCaseNotFound         = NewError(CodeCaseNotFound, "case not found")
	ErrEvidenceNotFound     = NewError(CodeEvidenceNotFound, "evidence not found")
	ErrUserNotFound         = NewError(CodeUserNotFound, "user not found")
	ErrOfficerNotFound      = NewError(CodeOfficerNotFound, "officer not found")
	ErrInterviewNotFound    = NewError(CodeInterviewNotFound, "interview not found")
	ErrStationNotFound      = NewError(CodeStationNotFound, "station not found")
	ErrNotificationNotFound = NewError(CodeNotificationNotFound, "notification not found")
	ErrDuplicateEmail       = NewError(CodeDuplicateEmail, "a user with this email already exists")
	ErrInvalidCredentials   = NewError(CodeInvalidCredentials, "invalid credentials")
	ErrInvalidUserType      = NewError(CodeInvalidUserType, "invalid user type for this login")
	ErrInvalidBadge         = NewError(CodeInvalidBadge, "invalid badge number")
	ErrInactiveOfficer      = NewError(CodeInactiveOfficer, "officer account is not active")
	ErrInvalidRole          = NewError(CodeInvalidRole, "invalid role")
	ErrInvalidStatus        = NewError(CodeInvalidStatus, "invalid status")
	ErrInvalidInput         = NewError(CodeInvalidInput, "invalid input")
	ErrUnauthorized         = NewError(CodeUnauthorized, "not authorized to perform this action")
	ErrUnauthenticated      = NewError(CodeUnauthenticated, "authentication required")
)

// CodeOf returns the code carried by err, or an empty code when err is not an AppError
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
