package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

// unknownName is shown when an officer's user record is gone
const unknownName = "Unknown"

// OfficerService manages officers, their stations and the staff login
type OfficerService struct {
	Users    databases.UserDatabase
	Officers databases.OfficerDatabase
	Stations databases.StationDatabase
	Tokens   *TokenIssuer
}

// NewOfficerService creates a new officer service
func NewOfficerService(users databases.UserDatabase, officers databases.OfficerDatabase, stations databases.StationDatabase, tokens *TokenIssuer) *OfficerService {
	return &OfficerService{Users: users, Officers: officers, Stations: stations, Tokens: tokens}
}

// Login issues a session token to staff. Line officers must present their badge number and
// be active, station and national admins are not badge gated.
func (s *OfficerService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Users.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, lookupErr(err, models.ErrInvalidCredentials, "user by email")
	}
	if !user.Role.IsStaff() {
		return nil, models.ErrInvalidUserType
	}

	if user.Role == models.RoleOfficer {
		officer, err := s.Officers.FindOne(ctx, bson.M{"user_id": user.ID})
		if err != nil {
			return nil, lookupErr(err, models.ErrInvalidBadge, "officer by user")
		}
		if officer.BadgeNumber != req.BadgeNumber {
			return nil, models.ErrInvalidBadge
		}
		if officer.Status != models.OfficerActive {
			return nil, models.ErrInactiveOfficer
		}
	}

	token, err := s.Tokens.Issue(user.ClerkID, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{UserID: user.ID.Hex(), Role: user.Role, Token: token, Subject: user.ClerkID}, nil
}

// CreateOfficer attaches an officer profile to an existing staff user
func (s *OfficerService) CreateOfficer(ctx context.Context, req models.CreateOfficerRequest) (string, error) {
	if _, err := requireRole(ctx, adminRoles...); err != nil {
		return "", err
	}
	if err := Validate(req); err != nil {
		return "", err
	}
	userID, err := parseID(req.UserID, models.ErrUserNotFound)
	if err != nil {
		return "", err
	}
	stationID, err := parseID(req.StationID, models.ErrStationNotFound)
	if err != nil {
		return "", err
	}

	user, err := s.Users.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return "", lookupErr(err, models.ErrUserNotFound, "user")
	}
	if !user.Role.IsStaff() {
		return "", models.ErrInvalidUserType
	}
	if _, err := s.Stations.FindOne(ctx, bson.M{"_id": stationID}); err != nil {
		return "", lookupErr(err, models.ErrStationNotFound, "station")
	}

	ts := now()
	id, err := s.Officers.InsertOne(ctx, models.Officer{
		UserID:      userID,
		BadgeNumber: req.BadgeNumber,
		Rank:        req.Rank,
		Department:  req.Department,
		Status:      models.OfficerActive,
		StationID:   stationID,
		JoinedAt:    ts,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		return "", fmt.Errorf("insert officer: %w", err)
	}
	return id.Hex(), nil
}

// GetOfficerDetails returns the officer joined with its user and station
func (s *OfficerService) GetOfficerDetails(ctx context.Context, officerID string) (*models.OfficerDetails, error) {
	if _, err := requireRole(ctx, staffRoles...); err != nil {
		return nil, err
	}
	id, err := parseID(officerID, models.ErrOfficerNotFound)
	if err != nil {
		return nil, err
	}
	officer, err := s.Officers.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, lookupErr(err, models.ErrOfficerNotFound, "officer")
	}
	station, err := s.station(ctx, officer.StationID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, *officer, station)
}

// GetStationOfficers returns the details of every officer posted at stationID
func (s *OfficerService) GetStationOfficers(ctx context.Context, stationID string) ([]models.OfficerDetails, error) {
	if _, err := requireRole(ctx, staffRoles...); err != nil {
		return nil, err
	}
	id, err := parseID(stationID, models.ErrStationNotFound)
	if err != nil {
		return nil, err
	}
	station, err := s.station(ctx, id)
	if err != nil {
		return nil, err
	}
	officers, err := s.Officers.Find(ctx, bson.M{"station_id": id})
	if err != nil {
		return nil, fmt.Errorf("find officers by station: %w", err)
	}

	result := make([]models.OfficerDetails, 0, len(officers))
	for _, o := range officers {
		d, err := s.details(ctx, o, station)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

// UpdateStatus patches the status of an officer. Any status may follow any other.
func (s *OfficerService) UpdateStatus(ctx context.Context, officerID string, status models.OfficerStatus) error {
	if _, err := requireRole(ctx, adminRoles...); err != nil {
		return err
	}
	id, err := parseID(officerID, models.ErrOfficerNotFound)
	if err != nil {
		return err
	}
	if _, err := s.Officers.FindOne(ctx, bson.M{"_id": id}); err != nil {
		return lookupErr(err, models.ErrOfficerNotFound, "officer")
	}
	if !status.Valid() {
		return models.ErrInvalidStatus
	}
	_, err = s.Officers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status, "updated_at": now()}})
	if err != nil {
		return fmt.Errorf("update officer status: %w", err)
	}
	return nil
}

// CreateStation stores a new station
func (s *OfficerService) CreateStation(ctx context.Context, station models.Station) (string, error) {
	if _, err := requireRole(ctx, adminRoles...); err != nil {
		return "", err
	}
	if err := Validate(station); err != nil {
		return "", err
	}
	station.ID = primitive.NilObjectID
	station.CreatedAt = now()
	id, err := s.Stations.InsertOne(ctx, station)
	if err != nil {
		return "", fmt.Errorf("insert station: %w", err)
	}
	return id.Hex(), nil
}

// ListStations returns every station
func (s *OfficerService) ListStations(ctx context.Context) ([]models.Station, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	stations, err := s.Stations.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find stations: %w", err)
	}
	return stations, nil
}

// station returns nil for a station that no longer exists
func (s *OfficerService) station(ctx context.Context, id primitive.ObjectID) (*models.Station, error) {
	station, err := s.Stations.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find station: %w", err)
	}
	return station, nil
}

func (s *OfficerService) details(ctx context.Context, o models.Officer, station *models.Station) (*models.OfficerDetails, error) {
	d := &models.OfficerDetails{
		ID:          o.ID,
		UserID:      o.UserID,
		FullName:    unknownName,
		BadgeNumber: o.BadgeNumber,
		Rank:        o.Rank,
		Department:  o.Department,
		Status:      o.Status,
		Station:     station,
		JoinedAt:    o.JoinedAt,
	}
	user, err := s.Users.FindOne(ctx, bson.M{"_id": o.UserID})
	switch {
	case err == nil:
		d.FullName = user.FullName
		d.Email = user.Email
		d.Phone = user.Phone
	case !isNoDocuments(err):
		return nil, fmt.Errorf("find officer user: %w", err)
	}
	return d, nil
}
