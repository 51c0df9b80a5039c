package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a group of writes as one unit
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewTransactor returns a transactor backed by mongo sessions when enabled. Multi
// document transactions need a replica set, so standalone servers run with enabled
// false and the writes execute one after another.
func NewTransactor(client ClientHelper, enabled bool) Transactor {
	if !enabled {
		return SequentialTransactor{}
	}
	return &sessionTransactor{client: client}
}

// SequentialTransactor runs fn directly without a transaction
type SequentialTransactor struct{}

// WithTransaction calls fn with ctx
func (SequentialTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sessionTransactor struct {
	client ClientHelper
}

func (t *sessionTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
