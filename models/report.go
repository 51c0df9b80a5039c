package models

import "time"

// ReportSubmission is the intake schema of a crime report. Unknown fields are rejected
// when decoding and the validate tags are enforced before anything is stored.
type ReportSubmission struct {
	Description  string    `json:"description" validate:"required,min=10"`
	IncidentType string    `json:"incident_type" validate:"required"`
	IncidentDate time.Time `json:"incident_date" validate:"required"`
	City         string    `json:"city" validate:"required"`
	PostalCode   string    `json:"postal_code"`
	Location     Location  `json:"location"`
	FirstName    string    `json:"first_name" validate:"required_if=IsAnonymous false"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email" validate:"omitempty,email"`
	Phone        string    `json:"phone"`
	IsAnonymous  bool      `json:"is_anonymous"`
}

// ReportResponse is returned after a report was stored
type ReportResponse struct {
	ReportID string `json:"reportId"`
	OBNumber string `json:"ob_number"`
}
