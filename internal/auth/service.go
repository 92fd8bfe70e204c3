package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/config"
)

var (
	ErrEmailTaken         = errors.New("User already exists with this email")
	ErrInvalidCollege     = errors.New("Invalid college ID")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// Store is the persistence surface signup and login need. Satisfied by
// *UserRepository; tests substitute a stub.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindCollege(ctx context.Context, id primitive.ObjectID) (*CollegeRef, error)
	CreateUser(ctx context.Context, user *User) error
}

type AuthService struct {
	repo   Store
	mailer *config.EmailService
	logger *zap.Logger
}

func NewAuthService(repo Store, mailer *config.EmailService, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, mailer: mailer, logger: logger}
}

// Signup registers a new user and returns it with a signed token.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*User, string, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	collegeID, err := primitive.ObjectIDFromHex(req.CollegeID)
	if err != nil {
		return nil, "", ErrInvalidCollege
	}
	college, err := s.repo.FindCollege(ctx, collegeID)
	if err != nil {
		return nil, "", err
	}
	if college == nil {
		return nil, "", ErrInvalidCollege
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = RoleStudent
	}

	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CollegeID:    collegeID,
		Subgroups:    []primitive.ObjectID{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(user.ID, TokenTTL())
	if err != nil {
		return nil, "", err
	}

	if s.mailer.Enabled() {
		go s.sendWelcomeEmail(user, college)
	}

	return user, token, nil
}

// Login authenticates by email/password. The same error comes back for
// an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*User, *CollegeRef, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, "", err
	}
	if user == nil || !CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, "", ErrInvalidCredentials
	}

	college, err := s.repo.FindCollege(ctx, user.CollegeID)
	if err != nil {
		return nil, nil, "", err
	}

	token, err := GenerateToken(user.ID, TokenTTL())
	if err != nil {
		return nil, nil, "", err
	}
	return user, college, token, nil
}

func (s *AuthService) sendWelcomeEmail(user *User, college *CollegeRef) {
	subject := "Welcome to Prodiny"
	body := fmt.Sprintf("Hi %s, your account at %s is ready. Jump in and find a project to join.", user.Name, college.Name)
	if err := s.mailer.SendEmail(user.Email, subject, body); err != nil {
		s.logger.Warn("failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
	}
}
