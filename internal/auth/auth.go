package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/garnizeh/feedback/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserLookup is the subset of the user repository needed for authentication.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service verifies credentials and resolves bearer tokens to users.
type Service struct {
	users  UserLookup
	tokens *TokenService
	logger *slog.Logger
}

func NewService(users UserLookup, tokens *TokenService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, tokens: tokens, logger: logger.With("component", "auth")}
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// burnCompare runs one bcrypt comparison against a fixed hash.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Authenticate checks username and password and issues a token on success.
// Unknown users and wrong passwords both fail with models.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if user == nil {
		burnCompare(password)
		s.logger.Info("login failed", slog.String("reason", "unknown user"))
		return nil, "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed", slog.String("reason", "password mismatch"), slog.Int64("user_id", user.ID))
		return nil, "", models.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("login succeeded", slog.Int64("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, token, nil
}

// ResolveCaller validates token and loads the user it was issued for.
func (s *Service) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	return user, nil
}
