package databases

// go generate: mockery --name StationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/crime-report-api/models"
)

const stationName = "stations"

// StationDatabase contains the methods to use with the station database
type StationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Station, error)
	Find(ctx context.Context, filter interface{}) ([]models.Station, error)
	InsertOne(ctx context.Context, station models.Station) (primitive.ObjectID, error)
}

type stationDatabase struct {
	db DatabaseHelper
}

// NewStationDatabase initializes a new instance of station database with the provided db connection
func NewStationDatabase(db DatabaseHelper) StationDatabase {
	return &stationDatabase{
		db: db,
	}
}

func (s *stationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Station, error) {
	return findOne[models.Station](ctx, s.db.Collection(stationName), filter)
}

func (s *stationDatabase) Find(ctx context.Context, filter interface{}) ([]models.Station, error) {
	return findAll[models.Station](ctx, s.db.Collection(stationName), filter)
}

func (s *stationDatabase) InsertOne(ctx context.Context, station models.Station) (primitive.ObjectID, error) {
	if station.ID.IsZero() {
		station.ID = primitive.NewObjectID()
	}
	if _, err := s.db.Collection(stationName).InsertOne(ctx, station); err != nil {
		return primitive.NilObjectID, err
	}
	return station.ID, nil
}
