package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-social-auth"
	"github.com/stretchr/testify/assert"
)

func TestHasTextCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		textCode string
		expected bool
	}{
		{
			name:     "matching code",
			err:      auth.ErrTokenExpired,
			textCode: auth.TextCodeTokenExpired,
			expected: true,
		},
		{
			name:     "cloned error keeps its code",
			err:      auth.ErrTokenExpired.Clone(),
			textCode: auth.TextCodeTokenExpired,
			expected: true,
		},
		{
			name:     "different code",
			err:      auth.ErrTokenMalformed,
			textCode: auth.TextCodeTokenExpired,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("token is expired"),
			textCode: auth.TextCodeTokenExpired,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			textCode: auth.TextCodeTokenExpired,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.HasTextCode(tt.err, tt.textCode))
		})
	}
}

func TestTokenErrorShape(t *testing.T) {
	var rich *goerrors.Error
	assert.True(t, goerrors.As(auth.ErrTokenExpired, &rich))
	assert.Equal(t, goerrors.CategoryAuth, rich.Category)
	assert.Equal(t, goerrors.CodeUnauthorized, rich.Code)

	assert.True(t, goerrors.As(auth.ErrAccountExists, &rich))
	assert.Equal(t, goerrors.CategoryConflict, rich.Category)
}

func TestIsConflictError(t *testing.T) {
	assert.True(t, auth.IsConflictError(auth.ErrAccountExists))
	assert.True(t, auth.IsConflictError(auth.ErrNicknameExists.Clone()))
	assert.False(t, auth.IsConflictError(auth.ErrTokenExpired))
	assert.False(t, auth.IsConflictError(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, auth.IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, auth.IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "uq_users_email"`)))
	assert.False(t, auth.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, auth.IsUniqueViolation(nil))
}
