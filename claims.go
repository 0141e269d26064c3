package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates the three token families we mint. The kind
// travels as a plain claim and is only trusted after the signature has
// been verified.
type TokenKind string

const (
	// TokenKindAccess is a short lived API credential
	TokenKindAccess TokenKind = "ACCESS"
	// TokenKindRefresh is the long lived rotation credential
	TokenKindRefresh TokenKind = "REFRESH"
	// TokenKindTemp bridges the two phases of social signup
	TokenKindTemp TokenKind = "TEMP"
)

// TempSubject is the sentinel subject for TEMP tokens. TEMP tokens
// exist before any account does, so they never reference a user id.
const TempSubject = "TEMP_USER"

// TempUserInfo is the provider snapshot embedded in a TEMP token. It
// round trips through the signup flow so the completion step never has
// to call the provider again.
type TempUserInfo struct {
	Email        string       `json:"email"`
	ProviderID   string       `json:"provider_id"`
	ProviderKind ProviderKind `json:"provider_kind"`
	Nickname     string       `json:"nickname,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
}

// TokenClaims is the claim set for every token this package signs.
type TokenClaims struct {
	jwt.RegisteredClaims
	Kind     TokenKind     `json:"tokenType,omitempty"`
	UID      string        `json:"uid,omitempty"`
	Nickname string        `json:"nickname,omitempty"`
	TempUser *TempUserInfo `json:"tempUser,omitempty"`
}

// IsKind reports whether the claims carry the given kind.
func (c *TokenClaims) IsKind(kind TokenKind) bool {
	return c != nil && c.Kind == kind
}

// UserID returns the account id for ACCESS and REFRESH tokens. TEMP
// tokens have no user yet and return an empty string.
func (c *TokenClaims) UserID() string {
	if c == nil || c.Kind == TokenKindTemp {
		return ""
	}
	return c.UID
}

// TTL returns the remaining lifetime, zero when already expired.
func (c *TokenClaims) TTL() time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
