package databases

// go generate: mockery --name OfficerDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/crime-report-api/models"
)

const officerName = "officers"

// OfficerDatabase contains the methods to use with the officer database
type OfficerDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Officer, error)
	Find(ctx context.Context, filter interface{}) ([]models.Officer, error)
	InsertOne(ctx context.Context, officer models.Officer) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	Aggregate(ctx context.Context, pipeline interface{}) ([]models.CountByKey, error)
}

type officerDatabase struct {
	db DatabaseHelper
}

// NewOfficerDatabase initializes a new instance of officer database with the provided db connection
func NewOfficerDatabase(db DatabaseHelper) OfficerDatabase {
	return &officerDatabase{
		db: db,
	}
}

func (o *officerDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Officer, error) {
	return findOne[models.Officer](ctx, o.db.Collection(officerName), filter)
}

func (o *officerDatabase) Find(ctx context.Context, filter interface{}) ([]models.Officer, error) {
	return findAll[models.Officer](ctx, o.db.Collection(officerName), filter)
}

func (o *officerDatabase) InsertOne(ctx context.Context, officer models.Officer) (primitive.ObjectID, error) {
	if officer.ID.IsZero() {
		officer.ID = primitive.NewObjectID()
	}
	if _, err := o.db.Collection(officerName).InsertOne(ctx, officer); err != nil {
		return primitive.NilObjectID, err
	}
	return officer.ID, nil
}

func (o *officerDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return o.db.Collection(officerName).UpdateOne(ctx, filter, update)
}

func (o *officerDatabase) Aggregate(ctx context.Context, pipeline interface{}) ([]models.CountByKey, error) {
	return aggregateCounts(ctx, o.db.Collection(officerName), pipeline)
}
