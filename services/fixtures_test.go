package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/databases/mocks"
	"github.com/linesmerrill/crime-report-api/models"
)

var fixedNow = time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)

// freezeTime pins now() and returns a func restoring it
func freezeTime() func() {
	orig := now
	now = func() time.Time { return fixedNow }
	return func() { now = orig }
}

func principal(role models.Role) *models.Principal {
	p := &models.Principal{User: models.User{
		ID:       primitive.NewObjectID(),
		ClerkID:  "user_" + primitive.NewObjectID().Hex(),
		Email:    string(role) + "@example.com",
		FullName: "Test " + string(role),
		Role:     role,
	}}
	if role.IsStaff() {
		p.Officer = &models.Officer{
			ID:          primitive.NewObjectID(),
			UserID:      p.ID,
			BadgeNumber: "B-" + p.ID.Hex()[:6],
			Status:      models.OfficerActive,
		}
	}
	return p
}

func as(role models.Role) (context.Context, *models.Principal) {
	p := principal(role)
	return WithPrincipal(context.Background(), p), p
}

type fakeStorage struct {
	urls      map[string]string
	deleted   []string
	deleteErr error
	urlErr    error
}

func (f *fakeStorage) GenerateUploadURL(ctx context.Context) (*models.UploadTicket, error) {
	return &models.UploadTicket{URL: "https://upload.example", Fields: map[string]string{"signature": "sig"}}, nil
}

func (f *fakeStorage) GetURL(ctx context.Context, ref string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.urls[ref], nil
}

func (f *fakeStorage) Delete(ctx context.Context, ref string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

type fakePusher struct {
	mu     sync.Mutex
	pushed []models.Notification
}

func (f *fakePusher) Push(userID primitive.ObjectID, n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, n)
}

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, toEmail, toName, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: toEmail, subject: subject})
	return nil
}

// fixture wires every service onto fresh mocks
type fixture struct {
	users         *mocks.UserDatabase
	officers      *mocks.OfficerDatabase
	stations      *mocks.StationDatabase
	cases         *mocks.CaseDatabase
	updates       *mocks.CaseUpdateDatabase
	evidence      *mocks.EvidenceDatabase
	interviews    *mocks.InterviewDatabase
	notifications *mocks.NotificationDatabase
	storage       *fakeStorage
	pusher        *fakePusher
	mailer        *fakeMailer
	notifier      *Notifier
}

func newFixture() *fixture {
	f := &fixture{
		users:         &mocks.UserDatabase{},
		officers:      &mocks.OfficerDatabase{},
		stations:      &mocks.StationDatabase{},
		cases:         &mocks.CaseDatabase{},
		updates:       &mocks.CaseUpdateDatabase{},
		evidence:      &mocks.EvidenceDatabase{},
		interviews:    &mocks.InterviewDatabase{},
		notifications: &mocks.NotificationDatabase{},
		storage:       &fakeStorage{urls: map[string]string{}},
		pusher:        &fakePusher{},
		mailer:        &fakeMailer{},
	}
	f.notifier = NewNotifier(f.notifications, f.pusher, f.mailer)
	return f
}

func (f *fixture) caseService() *CaseService {
	return NewCaseService(f.cases, f.updates, f.officers, f.notifier, databases.SequentialTransactor{})
}

func (f *fixture) evidenceService() *EvidenceService {
	return &EvidenceService{
		Cases:    f.cases,
		Updates:  f.updates,
		Evidence: f.evidence,
		Officers: f.officers,
		Users:    f.users,
		Storage:  f.storage,
		Notifier: f.notifier,
		Tx:       databases.SequentialTransactor{},
	}
}

func (f *fixture) interviewService() *InterviewService {
	return &InterviewService{
		Cases:      f.cases,
		Updates:    f.updates,
		Officers:   f.officers,
		Users:      f.users,
		Interviews: f.interviews,
		Notifier:   f.notifier,
		Tx:         databases.SequentialTransactor{},
	}
}

func (f *fixture) officerService() *OfficerService {
	return NewOfficerService(f.users, f.officers, f.stations, NewTokenIssuer("test-secret", time.Hour))
}

// memUsers is an in-memory UserDatabase understanding equality filters on email, _id and
// clerk_id
type memUsers struct {
	docs []models.User
}

func (m *memUsers) match(u models.User, filter interface{}) bool {
	f, ok := filter.(bson.M)
	if !ok {
		return false
	}
	if v, ok := f["email"]; ok && u.Email != v {
		return false
	}
	if v, ok := f["_id"]; ok && u.ID != v {
		return false
	}
	if v, ok := f["clerk_id"]; ok && u.ClerkID != v {
		return false
	}
	return true
}

func (m *memUsers) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	for _, u := range m.docs {
		if m.match(u, filter) {
			found := u
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memUsers) InsertOne(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.docs = append(m.docs, user)
	return user.ID, nil
}

func (m *memUsers) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	set, ok := update.(bson.M)["$set"].(bson.M)
	if !ok {
		return nil, errors.New("memUsers only supports $set")
	}
	res := &mongo.UpdateResult{}
	for i := range m.docs {
		if !m.match(m.docs[i], filter) {
			continue
		}
		res.MatchedCount++
		if role, ok := set["role"].(models.Role); ok {
			m.docs[i].Role = role
			res.ModifiedCount++
		}
	}
	return res, nil
}
