package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unique(key string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
}

func index(key string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
}

// EnsureIndexes creates the equality indexes every lookup in the services relies on
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	indexes := map[string][]mongo.IndexModel{
		userName:         {unique("email"), unique("clerk_id")},
		officerName:      {unique("user_id"), index("station_id")},
		caseName:         {unique("ob_number"), index("submitted_by"), index("assigned_officer_id")},
		caseUpdateName:   {index("case_id")},
		evidenceName:     {index("case_id")},
		interviewName:    {index("case_id"), index("officer_id"), index("scheduled_time")},
		notificationName: {index("user_id")},
	}
	for name, models := range indexes {
		if err := db.Collection(name).CreateIndexes(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
