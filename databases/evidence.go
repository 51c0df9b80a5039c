package databases

// go generate: mockery --name EvidenceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/crime-report-api/models"
)

const evidenceName = "evidence"

// EvidenceDatabase contains the methods to use with the evidence database
type EvidenceDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Evidence, error)
	Find(ctx context.Context, filter interface{}) ([]models.Evidence, error)
	InsertOne(ctx context.Context, evidence models.Evidence) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type evidenceDatabase struct {
	db DatabaseHelper
}

// NewEvidenceDatabase initializes a new instance of evidence database with the provided db connection
func NewEvidenceDatabase(db DatabaseHelper) EvidenceDatabase {
	return &evidenceDatabase{
		db: db,
	}
}

func (e *evidenceDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Evidence, error) {
	return findOne[models.Evidence](ctx, e.db.Collection(evidenceName), filter)
}

func (e *evidenceDatabase) Find(ctx context.Context, filter interface{}) ([]models.Evidence, error) {
	return findAll[models.Evidence](ctx, e.db.Collection(evidenceName), filter, Chronological())
}

func (e *evidenceDatabase) InsertOne(ctx context.Context, evidence models.Evidence) (primitive.ObjectID, error) {
	if evidence.ID.IsZero() {
		evidence.ID = primitive.NewObjectID()
	}
	if _, err := e.db.Collection(evidenceName).InsertOne(ctx, evidence); err != nil {
		return primitive.NilObjectID, err
	}
	return evidence.ID, nil
}

func (e *evidenceDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return e.db.Collection(evidenceName).UpdateOne(ctx, filter, update)
}

func (e *evidenceDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	_, err := e.db.Collection(evidenceName).DeleteOne(ctx, filter)
	return err
}

func (e *evidenceDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return e.db.Collection(evidenceName).CountDocuments(ctx, filter)
}
