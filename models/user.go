package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the sole authorization axis of a user
type Role string

// Roles a user may hold
const (
	RoleCitizen       Role = "citizen"
	RoleOfficer       Role = "officer"
	RoleStationAdmin  Role = "station_admin"
	RoleNationalAdmin Role = "national_admin"
)

// Valid reports whether r is one of the four known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleStationAdmin, RoleNationalAdmin:
		return true
	}
	return false
}

// IsStaff is true for every role except citizen
func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleCitizen
}

// User holds the structure for the users collection in mongo
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ClerkID      string             `json:"clerk_id" bson:"clerk_id"`
	Email        string             `json:"email" bson:"email"`
	FullName     string             `json:"full_name" bson:"full_name"`
	Role         Role               `json:"role" bson:"role"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfileImage string             `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	PasswordHash string             `json:"-" bson:"password_hash,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Principal is the resolved caller of a request: the user plus officer details when the
// user has an officer profile
type Principal struct {
	User
	Officer *Officer `json:"officer_details,omitempty"`
}

// RegisterRequest is the body of the citizen registration endpoint
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of both login endpoints. BadgeNumber is only read by the
// officer login.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	BadgeNumber string `json:"badge_number,omitempty"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	UserID  string `json:"userId"`
	Role    Role   `json:"role,omitempty"`
	Token   string `json:"token"`
	Subject string `json:"-"`
}

// UpdateRoleRequest is the body of the role change endpoint
type UpdateRoleRequest struct {
	Role Role `json:"role"`
}
