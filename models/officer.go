package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfficerStatus is the employment status of an officer
type OfficerStatus string

// Officer statuses
const (
	OfficerActive    OfficerStatus = "active"
	OfficerInactive  OfficerStatus = "inactive"
	OfficerSuspended OfficerStatus = "suspended"
)

// Valid reports whether s is a known officer status
func (s OfficerStatus) Valid() bool {
	switch s {
	case OfficerActive, OfficerInactive, OfficerSuspended:
		return true
	}
	return false
}

// Officer holds the structure for the officers collection in mongo. Every officer is
// owned by exactly one non-citizen user.
type Officer struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id"`
	BadgeNumber string             `json:"badge_number" bson:"badge_number"`
	Rank        string             `json:"rank" bson:"rank"`
	Department  string             `json:"department" bson:"department"`
	Status      OfficerStatus      `json:"status" bson:"status"`
	StationID   primitive.ObjectID `json:"station_id" bson:"station_id"`
	JoinedAt    time.Time          `json:"joined_at" bson:"joined_at"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// OfficerDetails denormalizes an officer with its user and station
type OfficerDetails struct {
	ID          primitive.ObjectID `json:"_id"`
	UserID      primitive.ObjectID `json:"user_id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	BadgeNumber string             `json:"badge_number"`
	Rank        string             `json:"rank"`
	Department  string             `json:"department"`
	Status      OfficerStatus      `json:"status"`
	Station     *Station           `json:"station"`
	JoinedAt    time.Time          `json:"joined_at"`
}

// CreateOfficerRequest is the body used to attach an officer profile to a user
type CreateOfficerRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	BadgeNumber string `json:"badge_number" validate:"required"`
	Rank        string `json:"rank" validate:"required"`
	Department  string `json:"department"`
	StationID   string `json:"station_id" validate:"required"`
}

// UpdateOfficerStatusRequest is the body of the officer status endpoint
type UpdateOfficerStatusRequest struct {
	Status OfficerStatus `json:"status"`
}
