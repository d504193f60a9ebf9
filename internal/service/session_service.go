package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zhaxal/ringi-task/internal/models"
	"github.com/zhaxal/ringi-task/internal/store"
	"github.com/zhaxal/ringi-task/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionService issues and validates bearer tokens. A user holds at most one
// active session; a session idle past the TTL is deleted on the next use.
type SessionService struct {
	store  *store.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(st *store.Store, ttl time.Duration) *SessionService {
	return &SessionService{
		store:  st,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// Register creates a seller account and an initial session token
func (s *SessionService) Register(ctx context.Context, login, password string) (string, error) {
	if len(login) < 3 {
		return "", &ValidationError{Message: "Login must be a string with at least 3 characters"}
	}
	if len(password) < 6 {
		return "", &ValidationError{Message: "Password must be a string with at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Login: login, Password: string(hash)}
	if err := s.store.CreateUser(ctx, user, models.RoleSeller); err != nil {
		if errors.Is(err, store.ErrDuplicateLogin) {
			return "", &ValidationError{Message: "User already exists"}
		}
		return "", err
	}

	token := uuid.New().String()
	if err := s.store.CreateSession(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return token, nil
}

// Login verifies credentials and replaces any prior session with a new token
func (s *SessionService) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.store.CreateSession(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return token, nil
}

// Validate resolves a bearer token to its user. A valid use refreshes the
// idle timer; an expired session is deleted before reporting the expiry.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	if time.Since(session.UpdatedAt) > s.ttl {
		if err := s.store.DeleteSessionByToken(ctx, token); err != nil {
			s.logger.Error("Failed to delete expired session", zap.Error(err))
		}
		util.SessionsExpiredTotal.Inc()
		return nil, ErrSessionExpired
	}

	if err := s.store.TouchSession(ctx, token); err != nil {
		s.logger.Error("Failed to refresh session", zap.Error(err))
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	return user, nil
}

// Logout removes the user's session and registered push tokens
func (s *SessionService) Logout(ctx context.Context, userID int64) error {
	if err := s.store.DeleteSessionsByUserID(ctx, userID); err != nil {
		return err
	}
	return s.store.DeletePushTokensByUserID(ctx, userID)
}

// RegisterPushToken stores a push delivery token for the user
func (s *SessionService) RegisterPushToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return &ValidationError{Message: "Missing push token"}
	}
	return s.store.RegisterPushToken(ctx, userID, token)
}
