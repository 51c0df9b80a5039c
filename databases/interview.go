package databases

// go generate: mockery --name InterviewDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/crime-report-api/models"
)

const interviewName = "interviews"

// InterviewDatabase contains the methods to use with the interview database
type InterviewDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Interview, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Interview, error)
	InsertOne(ctx context.Context, interview models.Interview) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	Aggregate(ctx context.Context, pipeline interface{}) ([]models.CountByKey, error)
}

type interviewDatabase struct {
	db DatabaseHelper
}

// NewInterviewDatabase initializes a new instance of interview database with the provided db connection
func NewInterviewDatabase(db DatabaseHelper) InterviewDatabase {
	return &interviewDatabase{
		db: db,
	}
}

func (i *interviewDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Interview, error) {
	return findOne[models.Interview](ctx, i.db.Collection(interviewName), filter)
}

func (i *interviewDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Interview, error) {
	return findAll[models.Interview](ctx, i.db.Collection(interviewName), filter, opts...)
}

func (i *interviewDatabase) InsertOne(ctx context.Context, interview models.Interview) (primitive.ObjectID, error) {
	if interview.ID.IsZero() {
		interview.ID = primitive.NewObjectID()
	}
	if _, err := i.db.Collection(interviewName).InsertOne(ctx, interview); err != nil {
		return primitive.NilObjectID, err
	}
	return interview.ID, nil
}

func (i *interviewDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return i.db.Collection(interviewName).UpdateOne(ctx, filter, update)
}

func (i *interviewDatabase) Aggregate(ctx context.Context, pipeline interface{}) ([]models.CountByKey, error) {
	return aggregateCounts(ctx, i.db.Collection(interviewName), pipeline)
}
