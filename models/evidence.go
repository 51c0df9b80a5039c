package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EvidenceType is the kind of file attached as evidence
type EvidenceType string

// Evidence types
const (
	EvidenceImage    EvidenceType = "image"
	EvidenceVideo    EvidenceType = "video"
	EvidenceAudio    EvidenceType = "audio"
	EvidenceDocument EvidenceType = "document"
	EvidenceOther    EvidenceType = "other"
)

// Evidence is a file attached to exactly one case
type Evidence struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	CaseID      primitive.ObjectID  `json:"case_id" bson:"case_id"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Type        EvidenceType        `json:"type" bson:"type"`
	StorageRef  string              `json:"storage_ref" bson:"storage_ref"`
	FileName    string              `json:"file_name" bson:"file_name"`
	FileType    string              `json:"file_type" bson:"file_type"`
	FileSize    int64               `json:"file_size" bson:"file_size"`
	SubmittedBy primitive.ObjectID  `json:"submitted_by" bson:"submitted_by"`
	IsVerified  bool                `json:"is_verified" bson:"is_verified"`
	VerifiedBy  *primitive.ObjectID `json:"verified_by,omitempty" bson:"verified_by,omitempty"`
	VerifiedAt  *time.Time          `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
}

// AddEvidenceRequest is the body used to attach an uploaded file to a case
type AddEvidenceRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Type        EvidenceType `json:"type" validate:"required,oneof=image video audio document other"`
	StorageRef  string       `json:"storage_ref" validate:"required"`
	FileName    string       `json:"file_name"`
	FileType    string       `json:"file_type"`
	FileSize    int64        `json:"file_size" validate:"gte=0"`
}

// VerifyEvidenceRequest optionally names the officer the verification is recorded for
type VerifyEvidenceRequest struct {
	OfficerID string `json:"officer_id,omitempty"`
}

// Submitter is the display info of whoever uploaded a piece of evidence
type Submitter struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Verifier is the display info of the officer that verified a piece of evidence
type Verifier struct {
	Name        string `json:"name"`
	BadgeNumber string `json:"badge_number"`
}

// EvidenceView is an evidence row joined with its submitter, verifier and download url
type EvidenceView struct {
	Evidence
	Submitter Submitter `json:"submitter"`
	Verifier  *Verifier `json:"verifier,omitempty"`
	URL       *string   `json:"url"`
}

// UploadTicket holds everything a client needs to upload a file directly to storage
type UploadTicket struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}
