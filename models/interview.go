package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewStatus is the lifecycle status of an interview
type InterviewStatus string

// Interview statuses. Any status may follow any other.
const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
	InterviewNoShow    InterviewStatus = "no_show"
)

// Valid reports whether s is a known interview status
func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled, InterviewNoShow:
		return true
	}
	return false
}

// Interview is a meeting booked against a case, an officer and optionally a citizen
type Interview struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	CaseID         primitive.ObjectID  `json:"case_id" bson:"case_id"`
	OfficerID      primitive.ObjectID  `json:"officer_id" bson:"officer_id"`
	CitizenID      *primitive.ObjectID `json:"citizen_id,omitempty" bson:"citizen_id,omitempty"`
	ScheduledTime  time.Time           `json:"scheduled_time" bson:"scheduled_time"`
	Duration       int                 `json:"duration" bson:"duration"`
	Platform       string              `json:"platform" bson:"platform"`
	MeetingLink    string              `json:"meeting_link" bson:"meeting_link"`
	MeetingID      string              `json:"meeting_id" bson:"meeting_id"`
	Status         InterviewStatus     `json:"status" bson:"status"`
	RecordingPath  string              `json:"recording_path,omitempty" bson:"recording_path,omitempty"`
	TranscriptPath string              `json:"transcript_path,omitempty" bson:"transcript_path,omitempty"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	ReminderSent   bool                `json:"reminder_sent" bson:"reminder_sent"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// ScheduleInterviewRequest is the body of the interview booking endpoint
type ScheduleInterviewRequest struct {
	CaseID        string    `json:"case_id" validate:"required"`
	OfficerID     string    `json:"officer_id" validate:"required"`
	CitizenID     string    `json:"citizen_id,omitempty"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
	Duration      int       `json:"duration" validate:"gt=0"`
	Platform      string    `json:"platform" validate:"required"`
	MeetingLink   string    `json:"meeting_link" validate:"required"`
	MeetingID     string    `json:"meeting_id"`
	Notes         string    `json:"notes,omitempty"`
}

// UpdateInterviewStatusRequest is a partial update, nil fields are left untouched
type UpdateInterviewStatusRequest struct {
	Status         InterviewStatus `json:"status"`
	RecordingPath  *string         `json:"recording_path,omitempty"`
	TranscriptPath *string         `json:"transcript_path,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

// CitizenContact is the contact info of the citizen invited to an interview
type CitizenContact struct {
	ID       primitive.ObjectID `json:"_id"`
	FullName string             `json:"full_name"`
	Email    string             `json:"email"`
	Phone    string             `json:"phone,omitempty"`
}

// InterviewView is an interview joined with its case summary and citizen contact
type InterviewView struct {
	Interview
	Case    *CaseSummary    `json:"case"`
	Citizen *CitizenContact `json:"citizen,omitempty"`
}
