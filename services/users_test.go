package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/crime-report-api/databases/mocks"
	"github.com/linesmerrill/crime-report-api/models"
)

func newUserService(users *memUsers) *UserService {
	return NewUserService(users, NewTokenIssuer("test-secret", time.Hour))
}

func TestUserService_Register(t *testing.T) {
	defer freezeTime()()
	users := &memUsers{}
	svc := newUserService(users)

	id, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "a@x.com", Password: "hunter2", FullName: "Alice", Phone: "555",
	})
	require.NoError(t, err)
	require.Len(t, users.docs, 1)

	u := users.docs[0]
	assert.Equal(t, id, u.ID.Hex())
	assert.Equal(t, models.RoleCitizen, u.Role)
	assert.Equal(t, fixedNow, u.CreatedAt)
	assert.Equal(t, fixedNow, u.UpdatedAt)
	assert.Contains(t, u.ClerkID, "user_")
	assert.NotEqual(t, "hunter2", u.PasswordHash)
	assert.True(t, passwordMatches(u.PasswordHash, "hunter2"))
	assert.False(t, passwordMatches(u.PasswordHash, "hunter3"))
}

func TestUserService_RegisterLongPassphrase(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)
	passphrase := strings.Repeat("correct horse battery staple ", 3)
	require.Greater(t, len(passphrase), 72)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "long@x.com", Password: passphrase, FullName: "Long Pass",
	})
	require.NoError(t, err)
	require.Len(t, users.docs, 1)
	assert.True(t, passwordMatches(users.docs[0].PasswordHash, passphrase))
	assert.False(t, passwordMatches(users.docs[0].PasswordHash, passphrase[:72]))
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)

	first, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@x.com", Password: "pw", FullName: "Alice"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Email: "a@x.com", Password: "other", FullName: "Mallory"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	require.Len(t, users.docs, 1)
	assert.Equal(t, first, users.docs[0].ID.Hex())
	assert.Equal(t, "Alice", users.docs[0].FullName)
}

func TestUserService_RegisterEmailIsCaseSensitive(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@x.com", Password: "pw", FullName: "Alice"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), models.RegisterRequest{Email: "A@x.com", Password: "pw", FullName: "Alice"})
	assert.NoError(t, err)
	assert.Len(t, users.docs, 2)
}

func TestUserService_RegisterInvalidInput(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "not-an-email", Password: "pw", FullName: "Alice"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, users.docs)
}

func TestUserService_RegisterConcurrentDuplicate(t *testing.T) {
	users := &mocks.UserDatabase{}
	users.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	users.On("InsertOne", mock.Anything, mock.Anything).
		Return(primitive.NilObjectID, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}})

	svc := NewUserService(users, NewTokenIssuer("test-secret", time.Hour))
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@x.com", Password: "pw", FullName: "Alice"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestUserService_LoginNonCitizenAlwaysInvalidUserType(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)

	for _, role := range []models.Role{models.RoleOfficer, models.RoleStationAdmin, models.RoleNationalAdmin} {
		hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
		require.NoError(t, err)
		_, _ = users.InsertOne(context.Background(), models.User{Email: string(role) + "@x.com", Role: role, PasswordHash: string(hash)})

		// the password plays no part in the outcome
		for _, password := range []string{"", "right", "wrong"} {
			_, err := svc.Login(context.Background(), models.LoginRequest{Email: string(role) + "@x.com", Password: password})
			assert.ErrorIs(t, err, models.ErrInvalidUserType, "role %s password %q", role, password)
		}
	}
}

func TestUserService_LoginDoesNotVerifyPassword(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)

	id, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@x.com", Password: "right", FullName: "Alice"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "definitely-wrong"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.UserID)
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	svc := newUserService(&memUsers{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@x.com"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestUserService_LoginStorageFailure(t *testing.T) {
	users := &mocks.UserDatabase{}
	users.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	svc := NewUserService(users, NewTokenIssuer("test-secret", time.Hour))

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@x.com"})
	assert.ErrorContains(t, err, "mocked-error")
	assert.Empty(t, models.CodeOf(err))
}

func TestRegisterThenLoginScenario(t *testing.T) {
	users := &memUsers{}
	tokens := NewTokenIssuer("test-secret", time.Hour)
	svc := NewUserService(users, tokens)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	id, err := svc.Register(ctx, models.RegisterRequest{Email: "a@x.com", Password: "pw", FullName: "Alice"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.UserID)
	assert.Equal(t, models.RoleCitizen, resp.Role)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, users.docs[0].ClerkID, claims.Subject)
}

func TestUserService_GetUser(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)
	other, _ := users.InsertOne(context.Background(), models.User{Email: "o@x.com", FullName: "Other"})

	_, err := svc.GetUser(context.Background(), other.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	ctx, _ := as(models.RoleCitizen)
	_, err = svc.GetUser(ctx, other.Hex())
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	ctx, _ = as(models.RoleOfficer)
	u, err := svc.GetUser(ctx, other.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Other", u.FullName)

	_, err = svc.GetUser(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = svc.GetUser(ctx, "zzz")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserService_GetUserSelf(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)
	ctx, p := as(models.RoleCitizen)
	_, _ = users.InsertOne(context.Background(), p.User)

	u, err := svc.GetUser(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.Email, u.Email)
}

func TestUserService_UpdateRole(t *testing.T) {
	users := &memUsers{}
	svc := newUserService(users)
	target, _ := users.InsertOne(context.Background(), models.User{Email: "a@x.com", Role: models.RoleCitizen})

	t.Run("anonymous", func(t *testing.T) {
		err := svc.UpdateRole(context.Background(), target.Hex(), models.RoleOfficer)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("officer may not change roles", func(t *testing.T) {
		ctx, _ := as(models.RoleOfficer)
		err := svc.UpdateRole(ctx, target.Hex(), models.RoleNationalAdmin)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
		assert.Equal(t, models.RoleCitizen, users.docs[0].Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctx, _ := as(models.RoleStationAdmin)
		err := svc.UpdateRole(ctx, primitive.NewObjectID().Hex(), models.RoleOfficer)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("invalid role", func(t *testing.T) {
		ctx, _ := as(models.RoleStationAdmin)
		err := svc.UpdateRole(ctx, target.Hex(), models.Role("sheriff"))
		assert.ErrorIs(t, err, models.ErrInvalidRole)
		assert.Equal(t, models.RoleCitizen, users.docs[0].Role)
	})

	t.Run("promote", func(t *testing.T) {
		ctx, _ := as(models.RoleNationalAdmin)
		err := svc.UpdateRole(ctx, target.Hex(), models.RoleOfficer)
		assert.NoError(t, err)
		assert.Equal(t, models.RoleOfficer, users.docs[0].Role)
	})
}

func TestUserService_UpdateRoleSetsUpdatedAt(t *testing.T) {
	defer freezeTime()()
	users := &mocks.UserDatabase{}
	id := primitive.NewObjectID()
	users.On("FindOne", mock.Anything, bson.M{"_id": id}).Return(&models.User{ID: id}, nil)
	users.On("UpdateOne", mock.Anything, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": models.RoleStationAdmin, "updated_at": fixedNow}}).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	ctx, _ := as(models.RoleNationalAdmin)
	err := NewUserService(users, nil).UpdateRole(ctx, id.Hex(), models.RoleStationAdmin)

	assert.NoError(t, err)
	users.AssertExpectations(t)
}
