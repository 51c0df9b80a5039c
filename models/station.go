package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Station is a physical police station. Officers reference it, it never owns them.
type Station struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Location  string             `json:"location" bson:"location" validate:"required"`
	County    string             `json:"county" bson:"county" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
