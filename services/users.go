package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

// UserService manages citizen accounts and roles
type UserService struct {
	Users  databases.UserDatabase
	Tokens *TokenIssuer
}

// NewUserService creates a new user service
func NewUserService(users databases.UserDatabase, tokens *TokenIssuer) *UserService {
	return &UserService{Users: users, Tokens: tokens}
}

// Register creates a citizen account. Emails are matched exactly.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	_, err := s.Users.FindOne(ctx, bson.M{"email": req.Email})
	if err == nil {
		return "", models.ErrDuplicateEmail
	}
	if !isNoDocuments(err) {
		return "", fmt.Errorf("find user by email: %w", err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	ts := now()
	id, err := s.Users.InsertOne(ctx, models.User{
		ClerkID:      "user_" + uuid.New().String(),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         models.RoleCitizen,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		// the unique index catches a concurrent registration of the same email
		if mongo.IsDuplicateKeyError(err) {
			return "", models.ErrDuplicateEmail
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	zap.S().Infow("registered user", "userId", id.Hex())
	return id.Hex(), nil
}

// Login issues a session token to a citizen. The password is not compared against the
// stored hash, authentication belongs to the identity provider.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Users.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, lookupErr(err, models.ErrInvalidCredentials, "user by email")
	}
	if user.Role != models.RoleCitizen {
		return nil, models.ErrInvalidUserType
	}
	token, err := s.Tokens.Issue(user.ClerkID, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{UserID: user.ID.Hex(), Role: user.Role, Token: token, Subject: user.ClerkID}, nil
}

// GetUser returns a user to itself or to staff
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(userID, models.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if p.ID != id && !p.Role.IsStaff() {
		return nil, models.ErrUnauthorized
	}
	user, err := s.Users.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, lookupErr(err, models.ErrUserNotFound, "user")
	}
	return user, nil
}

// UpdateRole changes the role of a user. Only station and national admins may do this.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	if _, err := requireRole(ctx, adminRoles...); err != nil {
		return err
	}
	id, err := parseID(userID, models.ErrUserNotFound)
	if err != nil {
		return err
	}
	if _, err := s.Users.FindOne(ctx, bson.M{"_id": id}); err != nil {
		return lookupErr(err, models.ErrUserNotFound, "user")
	}
	if !role.Valid() {
		return models.ErrInvalidRole
	}
	_, err = s.Users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role, "updated_at": now()}})
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

// hashPassword bcrypts the sha256 hex digest of password. bcrypt refuses input over 72
// bytes and the digest is always 64.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// passwordMatches reports whether password produced hash
func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordDigest(password)) == nil
}

func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
