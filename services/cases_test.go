package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/crime-report-api/models"
)

func validSubmission() models.ReportSubmission {
	return models.ReportSubmission{
		Description:  "My bicycle was stolen outside the library",
		IncidentType: "theft",
		IncidentDate: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
		City:         "Nairobi",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		Phone:        "555",
	}
}

func TestCaseService_CreateReport(t *testing.T) {
	defer freezeTime()()
	f := newFixture()
	svc := f.caseService()
	ctx, p := as(models.RoleCitizen)

	var stored models.Case
	newID := primitive.NewObjectID()
	f.cases.On("InsertOne", mock.Anything, mock.Anything).Return(newID, nil).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.Case)
	})

	resp, err := svc.CreateReport(ctx, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, newID.Hex(), resp.ReportID)
	assert.Regexp(t, `^OB-20240304-[0-9A-F]{8}$`, resp.OBNumber)

	assert.Equal(t, resp.OBNumber, stored.OBNumber)
	assert.Equal(t, models.CasePending, stored.Status)
	assert.Equal(t, "Jane", stored.FirstName)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	require.NotNil(t, stored.SubmittedBy)
	assert.Equal(t, p.ID, *stored.SubmittedBy)

	// no derived writes
	f.updates.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	f.notifications.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCaseService_CreateReportAnonymous(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, _ := as(models.RoleCitizen)

	var stored models.Case
	f.cases.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.Case)
	})

	sub := validSubmission()
	sub.IsAnonymous = true
	_, err := svc.CreateReport(ctx, sub)
	require.NoError(t, err)

	assert.True(t, stored.IsAnonymous)
	assert.Empty(t, stored.FirstName)
	assert.Empty(t, stored.LastName)
	assert.Empty(t, stored.Email)
	assert.Empty(t, stored.Phone)
	assert.Nil(t, stored.SubmittedBy)
}

func TestCaseService_CreateReportWithoutSession(t *testing.T) {
	f := newFixture()
	svc := f.caseService()

	var stored models.Case
	f.cases.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.Case)
	})

	_, err := svc.CreateReport(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Nil(t, stored.SubmittedBy)
	assert.Equal(t, "Jane", stored.FirstName)
}

func TestCaseService_CreateReportValidation(t *testing.T) {
	f := newFixture()
	svc := f.caseService()

	tests := []struct {
		name   string
		mutate func(*models.ReportSubmission)
	}{
		{"short description", func(s *models.ReportSubmission) { s.Description = "short" }},
		{"missing incident type", func(s *models.ReportSubmission) { s.IncidentType = "" }},
		{"missing date", func(s *models.ReportSubmission) { s.IncidentDate = time.Time{} }},
		{"missing city", func(s *models.ReportSubmission) { s.City = "" }},
		{"bad email", func(s *models.ReportSubmission) { s.Email = "nope" }},
		{"named report without first name", func(s *models.ReportSubmission) { s.FirstName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)
			_, err := svc.CreateReport(context.Background(), sub)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
	f.cases.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCaseService_GetCase(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, owner := as(models.RoleCitizen)
	strangerCtx, _ := as(models.RoleCitizen)
	officerCtx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID(), SubmittedBy: &owner.ID, OBNumber: "OB-1"}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	got, err := svc.GetCase(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "OB-1", got.OBNumber)

	_, err = svc.GetCase(officerCtx, c.ID.Hex())
	assert.NoError(t, err)

	_, err = svc.GetCase(strangerCtx, c.ID.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.GetCase(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrCaseNotFound)

	_, err = svc.GetCase(context.Background(), c.ID.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestCaseService_ListCases(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	citizenCtx, citizen := as(models.RoleCitizen)
	officerCtx, _ := as(models.RoleOfficer)
	officerID := primitive.NewObjectID()

	f.cases.On("Find", mock.Anything, bson.M{"submitted_by": citizen.ID}, mock.Anything).Return([]models.Case{{OBNumber: "mine"}}, nil)
	f.cases.On("Find", mock.Anything, bson.M{"status": models.CaseUnderInvestigation, "assigned_officer_id": officerID}, mock.Anything).
		Return([]models.Case{{OBNumber: "assigned"}}, nil)

	cases, err := svc.ListCases(citizenCtx, models.CaseFilter{OfficerID: officerID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, "mine", cases[0].OBNumber)

	cases, err = svc.ListCases(officerCtx, models.CaseFilter{Status: models.CaseUnderInvestigation, OfficerID: officerID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, "assigned", cases[0].OBNumber)

	_, err = svc.ListCases(officerCtx, models.CaseFilter{Status: "lost"})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestCaseService_AssignCase(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, admin := as(models.RoleStationAdmin)

	c := models.Case{ID: primitive.NewObjectID(), OBNumber: "OB-9"}
	officer := models.Officer{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), StationID: primitive.NewObjectID(), BadgeNumber: "B9"}

	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": officer.ID}).Return(&officer, nil)
	f.officers.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	f.cases.On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	f.updates.On("InsertOne", mock.Anything, mock.MatchedBy(func(u models.CaseUpdate) bool {
		return u.Type == models.UpdateAssignmentChange && u.Visibility == models.VisibilityInternal && u.Author == admin.ID.Hex()
	})).Return(primitive.NewObjectID(), nil)
	f.notifications.On("InsertOne", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == officer.UserID && n.Type == models.NotificationAssignment
	})).Return(primitive.NewObjectID(), nil)

	err := svc.AssignCase(ctx, c.ID.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrOfficerNotFound)
	f.cases.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)

	require.NoError(t, svc.AssignCase(ctx, c.ID.Hex(), officer.ID.Hex()))
	f.updates.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	assert.Len(t, f.pusher.pushed, 1)

	officerCtx, _ := as(models.RoleOfficer)
	assert.ErrorIs(t, svc.AssignCase(officerCtx, c.ID.Hex(), officer.ID.Hex()), models.ErrUnauthorized)
}

func TestCaseService_UpdateCaseStatus(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, _ := as(models.RoleOfficer)

	reporter := primitive.NewObjectID()
	c := models.Case{ID: primitive.NewObjectID(), OBNumber: "OB-2", SubmittedBy: &reporter}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	f.updates.On("InsertOne", mock.Anything, mock.MatchedBy(func(u models.CaseUpdate) bool {
		return u.Type == models.UpdateStatusChange && u.Visibility == models.VisibilityPublic &&
			u.Text == "Case status changed to resolved: suspect charged"
	})).Return(primitive.NewObjectID(), nil)
	f.notifications.On("InsertOne", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == reporter && n.Type == models.NotificationCaseUpdate
	})).Return(primitive.NewObjectID(), nil)

	err := svc.UpdateCaseStatus(ctx, c.ID.Hex(), models.UpdateCaseStatusRequest{Status: "solved"})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	f.cases.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)

	err = svc.UpdateCaseStatus(ctx, c.ID.Hex(), models.UpdateCaseStatusRequest{Status: models.CaseResolved, Note: "suspect charged"})
	require.NoError(t, err)
	f.updates.AssertExpectations(t)
	f.notifications.AssertExpectations(t)

	require.Len(t, f.pusher.pushed, 1)
	assert.Empty(t, f.mailer.sent)

	citizenCtx, _ := as(models.RoleCitizen)
	err = svc.UpdateCaseStatus(citizenCtx, c.ID.Hex(), models.UpdateCaseStatusRequest{Status: models.CaseClosed})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCaseService_UpdateCaseStatusEmailsReporter(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID(), OBNumber: "OB-3", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	require.NoError(t, svc.UpdateCaseStatus(ctx, c.ID.Hex(), models.UpdateCaseStatusRequest{Status: models.CaseUnderInvestigation}))
	assert.Equal(t, []sentMail{{to: "jane@example.com", subject: "Update on case OB-3"}}, f.mailer.sent)
	f.notifications.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCaseService_UpdateCaseStatusFailedWriteSendsNothing(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	ctx, _ := as(models.RoleOfficer)

	reporter := primitive.NewObjectID()
	c := models.Case{ID: primitive.NewObjectID(), OBNumber: "OB-4", SubmittedBy: &reporter, Email: "jane@example.com"}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	err := svc.UpdateCaseStatus(ctx, c.ID.Hex(), models.UpdateCaseStatusRequest{Status: models.CaseClosed})
	assert.ErrorContains(t, err, "mocked-error")
	assert.Empty(t, f.pusher.pushed)
	assert.Empty(t, f.mailer.sent)
}

func TestCaseService_AddCaseNote(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	citizenCtx, citizen := as(models.RoleCitizen)
	officerCtx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID(), SubmittedBy: &citizen.ID}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	var inserted []models.CaseUpdate
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).(models.CaseUpdate))
	})

	_, err := svc.AddCaseNote(citizenCtx, c.ID.Hex(), models.AddCaseUpdateRequest{Text: "secret", Visibility: models.VisibilityInternal})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.AddCaseNote(citizenCtx, c.ID.Hex(), models.AddCaseUpdateRequest{Text: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.AddCaseNote(citizenCtx, c.ID.Hex(), models.AddCaseUpdateRequest{Text: "I remembered the plate number"})
	require.NoError(t, err)

	_, err = svc.AddCaseNote(officerCtx, c.ID.Hex(), models.AddCaseUpdateRequest{Text: "checked cctv", Visibility: models.VisibilityInternal})
	require.NoError(t, err)

	require.Len(t, inserted, 2)
	assert.Equal(t, models.UpdateMessage, inserted[0].Type)
	assert.Equal(t, models.VisibilityPublic, inserted[0].Visibility)
	assert.Equal(t, models.UpdateNote, inserted[1].Type)
	assert.Equal(t, models.VisibilityInternal, inserted[1].Visibility)

	// internal staff notes do not notify the reporter
	f.notifications.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCaseService_GetCaseUpdatesHidesInternalFromCitizens(t *testing.T) {
	f := newFixture()
	svc := f.caseService()
	citizenCtx, citizen := as(models.RoleCitizen)
	officerCtx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID(), SubmittedBy: &citizen.ID}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.updates.On("Find", mock.Anything, bson.M{"case_id": c.ID, "visibility": models.VisibilityPublic}, mock.Anything).
		Return([]models.CaseUpdate{{Text: "public"}}, nil)
	f.updates.On("Find", mock.Anything, bson.M{"case_id": c.ID}, mock.Anything).
		Return([]models.CaseUpdate{{Text: "public"}, {Text: "internal"}}, nil)

	updates, err := svc.GetCaseUpdates(citizenCtx, c.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, updates, 1)

	updates, err = svc.GetCaseUpdates(officerCtx, c.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, updates, 2)
}
