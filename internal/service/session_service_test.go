package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsWeakInput(t *testing.T) {
	// Input validation happens before any store access, so no database is
	// needed here.
	s := NewSessionService(nil, 24*time.Hour)
	ctx := context.Background()

	_, err := s.Register(ctx, "ab", "secret123")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Login must be a string with at least 3 characters", validationErr.Message)

	_, err = s.Register(ctx, "seller", "12345")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Password must be a string with at least 6 characters", validationErr.Message)
}

func TestRegisterPushTokenRejectsEmptyToken(t *testing.T) {
	s := NewSessionService(nil, 24*time.Hour)

	err := s.RegisterPushToken(context.Background(), 1, "")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
