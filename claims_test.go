package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-social-auth"
	"github.com/stretchr/testify/assert"
)

func TestTokenClaimsKind(t *testing.T) {
	claims := &auth.TokenClaims{Kind: auth.TokenKindAccess}

	assert.True(t, claims.IsKind(auth.TokenKindAccess))
	assert.False(t, claims.IsKind(auth.TokenKindRefresh))

	var nilClaims *auth.TokenClaims
	assert.False(t, nilClaims.IsKind(auth.TokenKindAccess))
}

func TestTokenClaimsUserID(t *testing.T) {
	claims := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user@example.com"},
		Kind:             auth.TokenKindAccess,
		UID:              "abc-123",
	}
	assert.Equal(t, "abc-123", claims.UserID())

	temp := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: auth.TempSubject},
		Kind:             auth.TokenKindTemp,
	}
	assert.Empty(t, temp.UserID())
}

func TestTokenClaimsTTL(t *testing.T) {
	live := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	assert.Greater(t, live.TTL(), 59*time.Minute)

	dead := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	assert.Equal(t, time.Duration(0), dead.TTL())

	noExpiry := &auth.TokenClaims{}
	assert.Equal(t, time.Duration(0), noExpiry.TTL())
}
