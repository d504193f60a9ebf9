package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zhaxal/ringi-task/internal/models"
)

// CreateUser inserts a user and binds it to a role in one transaction
func (s *Store) CreateUser(ctx context.Context, user *models.User, role string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, user,
		"INSERT INTO users (login, password) VALUES ($1, $2) RETURNING id, created_at, updated_at",
		user.Login, user.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLogin
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES ($1, (SELECT id FROM roles WHERE name = $2))",
		user.ID, role)
	if err != nil {
		return fmt.Errorf("failed to bind role: %w", err)
	}

	return tx.Commit()
}

// GetUserByLogin retrieves a user by login
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE login = $1", login)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by id
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSession replaces any existing session for the user with a fresh one.
// The sessions table keeps user_id unique, so one session per user holds even
// under concurrent logins.
func (s *Store) CreateSession(ctx context.Context, userID int64, token string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id = $1", userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token) VALUES ($1, $2)", userID, token); err != nil {
		return err
	}

	return tx.Commit()
}

// GetSessionByToken retrieves a session by its bearer token
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.db.GetContext(ctx, &session, "SELECT * FROM sessions WHERE token = $1", token)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// TouchSession refreshes a session's idle timer
func (s *Store) TouchSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET updated_at = NOW() WHERE token = $1", token)
	return err
}

// DeleteSessionByToken removes a single session
func (s *Store) DeleteSessionByToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteSessionsByUserID removes all sessions of a user
func (s *Store) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	return err
}

// RegisterPushToken stores a push delivery token for a user
func (s *Store) RegisterPushToken(ctx context.Context, userID int64, token string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_push_tokens (user_id, push_token) VALUES ($1, $2) ON CONFLICT (user_id, push_token) DO NOTHING",
		userID, token)
	return err
}

// DeletePushTokensByUserID removes all push tokens of a user
func (s *Store) DeletePushTokensByUserID(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_push_tokens WHERE user_id = $1", userID)
	return err
}

// GetSellerPushTokens returns the distinct push tokens of every user holding
// the seller role
func (s *Store) GetSellerPushTokens(ctx context.Context) ([]string, error) {
	tokens := []string{}
	err := s.db.SelectContext(ctx, &tokens, `
		SELECT DISTINCT upt.push_token
		FROM user_push_tokens upt
		JOIN user_roles ur ON ur.user_id = upt.user_id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = $1`, models.RoleSeller)
	return tokens, err
}
