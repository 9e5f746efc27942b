package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace/logger"
	"marketplace/models"
)

// Hasher hashes and checks local passwords.
type Hasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(encodedHash, password string) (bool, error)
}

type AuthService struct {
	users    models.UserStore
	hasher   Hasher
	sessions *SessionManager
	mailer   Mailer
	logger   *logger.Logger
}

// NewAuthService builds the service. mailer may be nil, in which case no
// welcome mail is sent.
func NewAuthService(users models.UserStore, hasher Hasher, sessions *SessionManager, mailer Mailer, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		mailer:   mailer,
		logger:   log,
	}
}

// Register creates a local account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	username := strings.TrimSpace(req.Username)

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		s.logger.Info("registration rejected: username taken", "username", username)
		return nil, "", models.ErrDuplicateUsername
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Name:     strings.TrimSpace(req.Name),
		Category: models.Category(req.Category),
		Email:    strings.TrimSpace(req.Email),
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "category", user.Category)
	s.sendWelcome(user)

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks local credentials. No session is created on failure.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.VerifyPassword(user.Password, req.Password)
	if err != nil {
		s.logger.Warn("password verification failed", "user_id", user.ID, "error", err)
		return nil, "", models.ErrInvalidCredentials
	}
	if !ok {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginFederated maps a provider subject to a local user, creating a bare
// record on first sight, and opens a session.
func (s *AuthService) LoginFederated(ctx context.Context, subject string) (*models.User, string, error) {
	if subject == "" {
		return nil, "", models.ErrInvalidCredentials
	}

	user, created, err := s.users.FindOrCreateByGoogleID(ctx, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find or create federated user: %w", err)
	}
	if created {
		s.logger.Info("federated user created", "user_id", user.ID)
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser resolves a session token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// CompleteProfile sets name and category for a user that has none yet.
func (s *AuthService) CompleteProfile(ctx context.Context, userID uuid.UUID, req models.ProfileRequest) (*models.User, error) {
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", req.Category)
	}

	if err := s.users.SetProfile(ctx, userID, strings.TrimSpace(req.Name), category); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) sendWelcome(user *models.User) {
	if s.mailer == nil || user.Email == "" {
		return
	}

	go func(email, name, category string) {
		done := make(chan error, 1)
		go func() { done <- s.mailer.SendWelcome(email, name, category) }()

		select {
		case err := <-done:
			if err != nil {
				s.logger.Warn("welcome email failed", "error", err)
			}
		case <-time.After(30 * time.Second):
			s.logger.Warn("welcome email timed out")
		}
	}(user.Email, user.Name, string(user.Category))
}
