package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated caller
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// CurrentIdentity returns the caller stored by the auth middleware, or nil for anonymous
// requests. It never fails.
func CurrentIdentity(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey{}).(*models.Principal)
	return p
}

// HasRole reports whether the caller holds one of roles. Anonymous callers hold none.
func HasRole(ctx context.Context, roles ...models.Role) bool {
	p := CurrentIdentity(ctx)
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

var (
	staffRoles = []models.Role{models.RoleOfficer, models.RoleStationAdmin, models.RoleNationalAdmin}
	adminRoles = []models.Role{models.RoleStationAdmin, models.RoleNationalAdmin}
)

// requireRole returns the caller when it holds one of roles
func requireRole(ctx context.Context, roles ...models.Role) (*models.Principal, error) {
	p := CurrentIdentity(ctx)
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	if !HasRole(ctx, roles...) {
		return nil, models.ErrUnauthorized
	}
	return p, nil
}

func requirePrincipal(ctx context.Context) (*models.Principal, error) {
	p := CurrentIdentity(ctx)
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	return p, nil
}

// IdentityService maps a verified token subject onto a user and its officer profile
type IdentityService struct {
	Users    databases.UserDatabase
	Officers databases.OfficerDatabase
}

// NewIdentityService creates a new identity service
func NewIdentityService(users databases.UserDatabase, officers databases.OfficerDatabase) *IdentityService {
	return &IdentityService{Users: users, Officers: officers}
}

// Resolve looks up the user whose clerk_id is subject. Unknown subjects resolve to nil
// without an error. Staff users carry their officer record when one exists.
func (s *IdentityService) Resolve(ctx context.Context, subject string) (*models.Principal, error) {
	if subject == "" {
		return nil, nil
	}
	user, err := s.Users.FindOne(ctx, bson.M{"clerk_id": subject})
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by subject: %w", err)
	}
	p := &models.Principal{User: *user}
	if !user.Role.IsStaff() {
		return p, nil
	}
	officer, err := s.Officers.FindOne(ctx, bson.M{"user_id": user.ID})
	switch {
	case err == nil:
		p.Officer = officer
	case !isNoDocuments(err):
		return nil, fmt.Errorf("find officer by user: %w", err)
	}
	return p, nil
}
