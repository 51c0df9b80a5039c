package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateType classifies a case timeline entry
type UpdateType string

// Case update types
const (
	UpdateEvidenceAdded    UpdateType = "evidence_added"
	UpdateNote             UpdateType = "note"
	UpdateStatusChange     UpdateType = "status_change"
	UpdateAssignmentChange UpdateType = "assignment_change"
	UpdateMessage          UpdateType = "message"
)

// Visibility controls who may read a case update
type Visibility string

// Visibilities. Internal updates are only shown to officers and admins.
const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// Valid reports whether v is a known visibility
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityInternal
}

// AuthorSystem attributes updates generated without a human actor
const AuthorSystem = "system"

// CaseUpdate is an append-only timeline entry of a case
type CaseUpdate struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CaseID     primitive.ObjectID `json:"case_id" bson:"case_id"`
	Text       string             `json:"text" bson:"text"`
	Type       UpdateType         `json:"type" bson:"type"`
	Visibility Visibility         `json:"visibility" bson:"visibility"`
	Author     string             `json:"author" bson:"author"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// AddCaseUpdateRequest is the body used to post a note or message on a case
type AddCaseUpdateRequest struct {
	Text       string     `json:"text"`
	Visibility Visibility `json:"visibility"`
}
