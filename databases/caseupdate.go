package databases

// go generate: mockery --name CaseUpdateDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/crime-report-api/models"
)

const caseUpdateName = "case_updates"

// CaseUpdateDatabase contains the methods to use with the case update database. Case
// updates are append only so there is no update or delete.
type CaseUpdateDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseUpdate, error)
	InsertOne(ctx context.Context, update models.CaseUpdate) (primitive.ObjectID, error)
}

type caseUpdateDatabase struct {
	db DatabaseHelper
}

// NewCaseUpdateDatabase initializes a new instance of case update database with the provided db connection
func NewCaseUpdateDatabase(db DatabaseHelper) CaseUpdateDatabase {
	return &caseUpdateDatabase{
		db: db,
	}
}

func (c *caseUpdateDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseUpdate, error) {
	return findAll[models.CaseUpdate](ctx, c.db.Collection(caseUpdateName), filter, opts...)
}

func (c *caseUpdateDatabase) InsertOne(ctx context.Context, update models.CaseUpdate) (primitive.ObjectID, error) {
	if update.ID.IsZero() {
		update.ID = primitive.NewObjectID()
	}
	if _, err := c.db.Collection(caseUpdateName).InsertOne(ctx, update); err != nil {
		return primitive.NilObjectID, err
	}
	return update.ID, nil
}
