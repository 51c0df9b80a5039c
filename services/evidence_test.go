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

func evidenceRequest() models.AddEvidenceRequest {
	return models.AddEvidenceRequest{
		Title:      "Doorbell footage",
		Type:       models.EvidenceVideo,
		StorageRef: "evidence/abc123",
		FileName:   "door.mp4",
		FileType:   "video/mp4",
		FileSize:   2048,
	}
}

func TestEvidenceService_AddEvidenceUnknownCaseWritesNothing(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleCitizen)

	f.cases.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := svc.AddEvidence(ctx, primitive.NewObjectID().Hex(), evidenceRequest())
	assert.ErrorIs(t, err, models.ErrCaseNotFound)

	_, err = svc.AddEvidence(ctx, "garbage", evidenceRequest())
	assert.ErrorIs(t, err, models.ErrCaseNotFound)

	f.evidence.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	f.updates.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	f.cases.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	f.notifications.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	assert.Empty(t, f.pusher.pushed)
}

func TestEvidenceService_AddEvidenceSideEffects(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, submitter := as(models.RoleCitizen)

	officer := models.Officer{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}
	c := models.Case{ID: primitive.NewObjectID(), OBNumber: "OB-7", SubmittedBy: &submitter.ID, AssignedOfficerID: &officer.ID}
	evidenceID := primitive.NewObjectID()

	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.evidence.On("InsertOne", mock.Anything, mock.MatchedBy(func(e models.Evidence) bool {
		return e.CaseID == c.ID && e.SubmittedBy == submitter.ID && !e.IsVerified
	})).Return(evidenceID, nil)
	f.updates.On("InsertOne", mock.Anything, mock.MatchedBy(func(u models.CaseUpdate) bool {
		return u.Text == "New evidence added: Doorbell footage" && u.Visibility == models.VisibilityPublic &&
			u.Type == models.UpdateEvidenceAdded && u.Author == submitter.ID.Hex()
	})).Return(primitive.NewObjectID(), nil)
	f.cases.On("UpdateOne", mock.Anything, bson.M{"_id": c.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": officer.ID}).Return(&officer, nil)
	f.notifications.On("InsertOne", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == officer.UserID && n.Type == models.NotificationEvidence && *n.CaseID == c.ID
	})).Return(primitive.NewObjectID(), nil)

	id, err := svc.AddEvidence(ctx, c.ID.Hex(), evidenceRequest())
	require.NoError(t, err)
	assert.Equal(t, evidenceID.Hex(), id)

	f.evidence.AssertExpectations(t)
	f.updates.AssertExpectations(t)
	f.cases.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	require.Len(t, f.pusher.pushed, 1)
	assert.Equal(t, officer.UserID, f.pusher.pushed[0].UserID)
}

func TestEvidenceService_AddEvidenceUnassignedCaseSkipsNotification(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID()}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.evidence.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)

	_, err := svc.AddEvidence(ctx, c.ID.Hex(), evidenceRequest())
	require.NoError(t, err)
	f.notifications.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestEvidenceService_AddEvidenceStopsOnFailedWrite(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID()}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.evidence.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NilObjectID, errors.New("mocked-error"))

	_, err := svc.AddEvidence(ctx, c.ID.Hex(), evidenceRequest())
	assert.ErrorContains(t, err, "mocked-error")
	f.updates.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestEvidenceService_AddThenGetCaseEvidence(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, submitter := as(models.RoleCitizen)

	c := models.Case{ID: primitive.NewObjectID(), SubmittedBy: &submitter.ID}
	var stored []models.Evidence

	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	f.evidence.On("InsertOne", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, e models.Evidence) primitive.ObjectID {
			e.ID = primitive.NewObjectID()
			stored = append(stored, e)
			return e.ID
		}, nil)
	f.evidence.On("Find", mock.Anything, bson.M{"case_id": c.ID}).
		Return(func(ctx context.Context, filter interface{}) []models.Evidence { return stored }, nil)
	f.users.On("FindOne", mock.Anything, bson.M{"_id": submitter.ID}).Return(&submitter.User, nil)
	f.storage.urls["evidence/abc123"] = "https://cdn.example/evidence/abc123"

	_, err := svc.AddEvidence(ctx, c.ID.Hex(), evidenceRequest())
	require.NoError(t, err)

	items, err := svc.GetCaseEvidence(ctx, c.ID.Hex())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsVerified)
	assert.Equal(t, submitter.FullName, items[0].Submitter.Name)
	assert.Equal(t, string(models.RoleCitizen), items[0].Submitter.Role)
	assert.Nil(t, items[0].Verifier)
	require.NotNil(t, items[0].URL)
	assert.Equal(t, "https://cdn.example/evidence/abc123", *items[0].URL)
}

func TestEvidenceService_GetCaseEvidenceFallbacks(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleOfficer)

	c := models.Case{ID: primitive.NewObjectID()}
	verifierOfficer := models.Officer{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), BadgeNumber: "B3"}
	verifiedAt := time.Now()
	items := []models.Evidence{
		{ID: primitive.NewObjectID(), CaseID: c.ID, SubmittedBy: primitive.NewObjectID(), StorageRef: "gone"},
		{ID: primitive.NewObjectID(), CaseID: c.ID, SubmittedBy: primitive.NewObjectID(), StorageRef: "ok",
			IsVerified: true, VerifiedBy: &verifierOfficer.ID, VerifiedAt: &verifiedAt},
	}

	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)
	f.evidence.On("Find", mock.Anything, bson.M{"case_id": c.ID}).Return(items, nil)
	f.users.On("FindOne", mock.Anything, bson.M{"_id": items[1].SubmittedBy}).Return(&models.User{FullName: "Reporter", Role: models.RoleCitizen}, nil)
	f.users.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": verifierOfficer.ID}).Return(&verifierOfficer, nil)
	f.storage.urls["ok"] = "https://cdn.example/ok"

	views, err := svc.GetCaseEvidence(ctx, c.ID.Hex())
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, models.Submitter{Name: "Unknown", Role: "unknown"}, views[0].Submitter)
	assert.Nil(t, views[0].URL)

	assert.Equal(t, "Reporter", views[1].Submitter.Name)
	require.NotNil(t, views[1].Verifier)
	assert.Equal(t, models.Verifier{Name: "an officer", BadgeNumber: "B3"}, *views[1].Verifier)
	assert.NotNil(t, views[1].URL)
}

func TestEvidenceService_GetCaseEvidenceForeignCitizen(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleCitizen)

	owner := primitive.NewObjectID()
	c := models.Case{ID: primitive.NewObjectID(), SubmittedBy: &owner}
	f.cases.On("FindOne", mock.Anything, bson.M{"_id": c.ID}).Return(&c, nil)

	_, err := svc.GetCaseEvidence(ctx, c.ID.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	f.evidence.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestEvidenceService_VerifyEvidenceOverwritesVerifier(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()

	evidence := models.Evidence{ID: primitive.NewObjectID(), CaseID: primitive.NewObjectID()}
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": evidence.ID}).Return(&evidence, nil)

	var sets []bson.M
	f.evidence.On("UpdateOne", mock.Anything, bson.M{"_id": evidence.ID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil).Run(func(args mock.Arguments) {
		sets = append(sets, args.Get(2).(bson.M)["$set"].(bson.M))
	})
	var texts []string
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		u := args.Get(1).(models.CaseUpdate)
		assert.Equal(t, models.VisibilityInternal, u.Visibility)
		texts = append(texts, u.Text)
	})

	firstCtx, first := as(models.RoleOfficer)
	secondCtx, second := as(models.RoleOfficer)
	f.users.On("FindOne", mock.Anything, bson.M{"_id": first.ID}).Return(&first.User, nil)
	f.users.On("FindOne", mock.Anything, bson.M{"_id": second.ID}).Return(&second.User, nil)

	defer freezeTime()()
	require.NoError(t, svc.VerifyEvidence(firstCtx, evidence.ID.Hex(), ""))
	now = func() time.Time { return fixedNow.Add(time.Hour) }
	require.NoError(t, svc.VerifyEvidence(secondCtx, evidence.ID.Hex(), ""))

	require.Len(t, sets, 2)
	for _, set := range sets {
		assert.Equal(t, true, set["is_verified"])
	}
	assert.Equal(t, first.Officer.ID, sets[0]["verified_by"])
	assert.Equal(t, second.Officer.ID, sets[1]["verified_by"])
	assert.Equal(t, fixedNow, sets[0]["verified_at"])
	assert.Equal(t, fixedNow.Add(time.Hour), sets[1]["verified_at"])
	assert.Equal(t, []string{"Evidence verified by " + first.FullName, "Evidence verified by " + second.FullName}, texts)
}

func TestEvidenceService_VerifyEvidenceFallbacks(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleStationAdmin)

	evidence := models.Evidence{ID: primitive.NewObjectID(), CaseID: primitive.NewObjectID()}
	userless := models.Officer{ID: primitive.NewObjectID()}
	ghostUser := models.Officer{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": evidence.ID}).Return(&evidence, nil)
	f.evidence.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": userless.ID}).Return(&userless, nil)
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": ghostUser.ID}).Return(&ghostUser, nil)
	f.users.On("FindOne", mock.Anything, bson.M{"_id": ghostUser.UserID}).Return(nil, mongo.ErrNoDocuments)

	var updates []models.CaseUpdate
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		updates = append(updates, args.Get(1).(models.CaseUpdate))
	})

	require.NoError(t, svc.VerifyEvidence(ctx, evidence.ID.Hex(), userless.ID.Hex()))
	require.NoError(t, svc.VerifyEvidence(ctx, evidence.ID.Hex(), ghostUser.ID.Hex()))

	require.Len(t, updates, 2)
	assert.Equal(t, "Evidence verified by an officer", updates[0].Text)
	assert.Equal(t, models.AuthorSystem, updates[0].Author)
	assert.Equal(t, "Evidence verified by an officer", updates[1].Text)
	assert.Equal(t, ghostUser.UserID.Hex(), updates[1].Author)
}

func TestEvidenceService_VerifyEvidenceErrors(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()

	evidence := models.Evidence{ID: primitive.NewObjectID()}
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": evidence.ID}).Return(&evidence, nil)
	f.evidence.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	officerCtx, _ := as(models.RoleOfficer)
	assert.ErrorIs(t, svc.VerifyEvidence(officerCtx, primitive.NewObjectID().Hex(), ""), models.ErrEvidenceNotFound)

	// line officers verify as themselves only
	assert.ErrorIs(t, svc.VerifyEvidence(officerCtx, evidence.ID.Hex(), primitive.NewObjectID().Hex()), models.ErrUnauthorized)

	citizenCtx, _ := as(models.RoleCitizen)
	assert.ErrorIs(t, svc.VerifyEvidence(citizenCtx, evidence.ID.Hex(), ""), models.ErrUnauthorized)

	adminCtx, admin := as(models.RoleNationalAdmin)
	admin.Officer = nil
	assert.ErrorIs(t, svc.VerifyEvidence(adminCtx, evidence.ID.Hex(), ""), models.ErrOfficerNotFound)

	// a named officer must exist, there is no anonymous verifier
	ghost := primitive.NewObjectID()
	f.officers.On("FindOne", mock.Anything, bson.M{"_id": ghost}).Return(nil, mongo.ErrNoDocuments)
	assert.ErrorIs(t, svc.VerifyEvidence(adminCtx, evidence.ID.Hex(), ghost.Hex()), models.ErrOfficerNotFound)

	f.evidence.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestEvidenceService_DeleteEvidenceByStrangerIsUnauthorized(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleCitizen)

	evidence := models.Evidence{ID: primitive.NewObjectID(), SubmittedBy: primitive.NewObjectID(), StorageRef: "evidence/1"}
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": evidence.ID}).Return(&evidence, nil)

	err := svc.DeleteEvidence(ctx, evidence.ID.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, f.storage.deleted)
	f.evidence.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestEvidenceService_DeleteEvidence(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ownerCtx, owner := as(models.RoleCitizen)
	officerCtx, officer := as(models.RoleOfficer)

	mine := models.Evidence{ID: primitive.NewObjectID(), CaseID: primitive.NewObjectID(), SubmittedBy: owner.ID, StorageRef: "evidence/mine", Title: "Photo"}
	theirs := models.Evidence{ID: primitive.NewObjectID(), CaseID: primitive.NewObjectID(), SubmittedBy: primitive.NewObjectID(), StorageRef: "evidence/theirs"}
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": mine.ID}).Return(&mine, nil)
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": theirs.ID}).Return(&theirs, nil)
	f.evidence.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)

	var authors []string
	f.updates.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Run(func(args mock.Arguments) {
		u := args.Get(1).(models.CaseUpdate)
		assert.Equal(t, models.VisibilityInternal, u.Visibility)
		authors = append(authors, u.Author)
	})

	require.NoError(t, svc.DeleteEvidence(ownerCtx, mine.ID.Hex()))
	require.NoError(t, svc.DeleteEvidence(officerCtx, theirs.ID.Hex()))

	assert.Equal(t, []string{"evidence/mine", "evidence/theirs"}, f.storage.deleted)
	assert.Equal(t, []string{owner.ID.Hex(), officer.ID.Hex()}, authors)
	f.evidence.AssertNumberOfCalls(t, "DeleteOne", 2)
}

func TestEvidenceService_DeleteEvidenceBlobFailureKeepsRecord(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()
	ctx, _ := as(models.RoleOfficer)
	f.storage.deleteErr = errors.New("storage down")

	evidence := models.Evidence{ID: primitive.NewObjectID(), StorageRef: "evidence/1"}
	f.evidence.On("FindOne", mock.Anything, bson.M{"_id": evidence.ID}).Return(&evidence, nil)

	err := svc.DeleteEvidence(ctx, evidence.ID.Hex())
	assert.ErrorContains(t, err, "storage down")
	f.evidence.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestEvidenceService_DeleteEvidenceErrors(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()

	f.evidence.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	assert.ErrorIs(t, svc.DeleteEvidence(context.Background(), primitive.NewObjectID().Hex()), models.ErrUnauthenticated)

	ctx, _ := as(models.RoleOfficer)
	assert.ErrorIs(t, svc.DeleteEvidence(ctx, primitive.NewObjectID().Hex()), models.ErrEvidenceNotFound)
}

func TestEvidenceService_GenerateUploadURL(t *testing.T) {
	f := newFixture()
	svc := f.evidenceService()

	_, err := svc.GenerateUploadURL(context.Background())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	ctx, _ := as(models.RoleCitizen)
	ticket, err := svc.GenerateUploadURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example", ticket.URL)
}
