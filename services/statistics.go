package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

// StatisticsService aggregates national figures for national administrators
type StatisticsService struct {
	Cases      databases.CaseDatabase
	Officers   databases.OfficerDatabase
	Evidence   databases.EvidenceDatabase
	Interviews databases.InterviewDatabase
}

// countBy groups a collection by field, largest bucket first
func countBy(field string) bson.A {
	return bson.A{
		bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
	}
}

// National returns the national statistics
func (s *StatisticsService) National(ctx context.Context) (*models.NationalStatistics, error) {
	if _, err := requireRole(ctx, models.RoleNationalAdmin); err != nil {
		return nil, err
	}

	var (
		stats models.NationalStatistics
		err   error
	)
	if stats.TotalCases, err = s.Cases.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}
	if stats.CasesByStatus, err = s.Cases.Aggregate(ctx, countBy("status")); err != nil {
		return nil, fmt.Errorf("cases by status: %w", err)
	}
	if stats.CasesByIncidentType, err = s.Cases.Aggregate(ctx, countBy("incident_type")); err != nil {
		return nil, fmt.Errorf("cases by incident type: %w", err)
	}
	if stats.CasesByCity, err = s.Cases.Aggregate(ctx, countBy("city")); err != nil {
		return nil, fmt.Errorf("cases by city: %w", err)
	}
	if stats.OfficersByStatus, err = s.Officers.Aggregate(ctx, countBy("status")); err != nil {
		return nil, fmt.Errorf("officers by status: %w", err)
	}
	if stats.TotalEvidence, err = s.Evidence.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count evidence: %w", err)
	}
	if stats.VerifiedEvidence, err = s.Evidence.CountDocuments(ctx, bson.M{"is_verified": true}); err != nil {
		return nil, fmt.Errorf("count verified evidence: %w", err)
	}
	if stats.InterviewsByStatus, err = s.Interviews.Aggregate(ctx, countBy("status")); err != nil {
		return nil, fmt.Errorf("interviews by status: %w", err)
	}
	return &stats, nil
}
