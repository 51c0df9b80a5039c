package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseStatus is the investigation status of a case
type CaseStatus string

// Case statuses
const (
	CasePending            CaseStatus = "pending"
	CaseUnderInvestigation CaseStatus = "under_investigation"
	CaseResolved           CaseStatus = "resolved"
	CaseClosed             CaseStatus = "closed"
)

// Valid reports whether s is a known case status
func (s CaseStatus) Valid() bool {
	switch s {
	case CasePending, CaseUnderInvestigation, CaseResolved, CaseClosed:
		return true
	}
	return false
}

// Location is where an incident happened
type Location struct {
	Address   string   `json:"address,omitempty" bson:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// Case is a submitted crime report and the aggregate root for its updates and evidence
type Case struct {
	ID                primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	OBNumber          string              `json:"ob_number" bson:"ob_number"`
	Description       string              `json:"description" bson:"description"`
	IncidentType      string              `json:"incident_type" bson:"incident_type"`
	IncidentDate      time.Time           `json:"incident_date" bson:"incident_date"`
	City              string              `json:"city" bson:"city"`
	PostalCode        string              `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Location          Location            `json:"location" bson:"location"`
	FirstName         string              `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName          string              `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Email             string              `json:"email,omitempty" bson:"email,omitempty"`
	Phone             string              `json:"phone,omitempty" bson:"phone,omitempty"`
	IsAnonymous       bool                `json:"is_anonymous" bson:"is_anonymous"`
	SubmittedBy       *primitive.ObjectID `json:"submitted_by,omitempty" bson:"submitted_by,omitempty"`
	Status            CaseStatus          `json:"status" bson:"status"`
	AssignedOfficerID *primitive.ObjectID `json:"assigned_officer_id,omitempty" bson:"assigned_officer_id,omitempty"`
	StationID         *primitive.ObjectID `json:"station_id,omitempty" bson:"station_id,omitempty"`
	CreatedAt         time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" bson:"updated_at"`
}

// CaseSummary is the slice of a case shown next to interviews
type CaseSummary struct {
	ID           primitive.ObjectID `json:"_id"`
	OBNumber     string             `json:"ob_number"`
	IncidentType string             `json:"incident_type"`
	Status       CaseStatus         `json:"status"`
}

// Summary returns the CaseSummary of c
func (c Case) Summary() CaseSummary {
	return CaseSummary{ID: c.ID, OBNumber: c.OBNumber, IncidentType: c.IncidentType, Status: c.Status}
}

// CaseFilter narrows a case listing
type CaseFilter struct {
	Status    CaseStatus
	OfficerID string
	StationID string
	Limit     int
	Page      int
}

// UpdateCaseStatusRequest is the body of the case status endpoint
type UpdateCaseStatusRequest struct {
	Status CaseStatus `json:"status"`
	Note   string     `json:"note,omitempty"`
}

// AssignCaseRequest is the body of the case assignment endpoint
type AssignCaseRequest struct {
	OfficerID string `json:"officer_id"`
}
