package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies a notification
type NotificationType string

// Notification types
const (
	NotificationCaseUpdate NotificationType = "case_update"
	NotificationEvidence   NotificationType = "evidence"
	NotificationInterview  NotificationType = "interview"
	NotificationAssignment NotificationType = "assignment"
	NotificationReminder   NotificationType = "reminder"
)

// Notification is addressed to exactly one user
type Notification struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Title     string              `json:"title" bson:"title"`
	Content   string              `json:"content" bson:"content"`
	Type      NotificationType    `json:"type" bson:"type"`
	CaseID    *primitive.ObjectID `json:"case_id,omitempty" bson:"case_id,omitempty"`
	IsRead    bool                `json:"is_read" bson:"is_read"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}
