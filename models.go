package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountType distinguishes password accounts from social ones.
type AccountType = string

const (
	// AccountNormal is an email/password account
	AccountNormal AccountType = "NORMAL"
	// AccountSocial is an account created through a social provider
	AccountSocial AccountType = "SOCIAL"
)

// ProviderKind identifies the social platform an account came from.
type ProviderKind string

const (
	// ProviderKakao is the Kakao platform
	ProviderKakao ProviderKind = "KAKAO"
	// ProviderNaver is the Naver platform
	ProviderNaver ProviderKind = "NAVER"
	// ProviderApple is the Apple platform
	ProviderApple ProviderKind = "APPLE"
	// ProviderNone marks accounts with no social identity
	ProviderNone ProviderKind = "NONE"
)

// ParseProviderKind normalizes a path or payload value into a
// ProviderKind. The second return is false for unknown platforms.
func ParseProviderKind(value string) (ProviderKind, bool) {
	switch ProviderKind(strings.ToUpper(strings.TrimSpace(value))) {
	case ProviderKakao:
		return ProviderKakao, true
	case ProviderNaver:
		return ProviderNaver, true
	case ProviderApple:
		return ProviderApple, true
	}
	return ProviderNone, false
}

func (p ProviderKind) String() string {
	return string(p)
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string       `bun:"email,notnull,unique" json:"email,omitempty"`
	Nickname      string       `bun:"nickname,notnull,unique" json:"nickname,omitempty"`
	AccountType   AccountType  `bun:"account_type,notnull" json:"account_type,omitempty"`
	ProviderID    string       `bun:"provider_id,nullzero,unique:provider_identity" json:"provider_id,omitempty"`
	ProviderKind  ProviderKind `bun:"provider_kind,notnull,default:'NONE',unique:provider_identity" json:"provider_kind,omitempty"`
	PasswordHash  string       `bun:"password_hash" json:"-"`
	AvatarURL     string       `bun:"avatar_url" json:"avatar_url,omitempty"`
	Phone         string       `bun:"phone_number" json:"phone_number,omitempty"`
	Location      string       `bun:"location" json:"location,omitempty"`
	Bio           string       `bun:"bio" json:"bio,omitempty"`
	Interests     []string     `bun:"interests,type:jsonb" json:"interests,omitempty"`
	BirthDate     *time.Time   `bun:"birth_date,nullzero" json:"birth_date,omitempty"`
	AgreedTerms   bool         `bun:"agreed_terms" json:"agreed_terms,omitempty"`
	LoggedInAt    *time.Time   `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time   `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// IsSocial reports whether the account was created through a provider.
func (u *User) IsSocial() bool {
	return u != nil && u.AccountType == AccountSocial
}

// HasProviderIdentity reports whether the account carries a provider
// identity pair.
func (u *User) HasProviderIdentity() bool {
	return u != nil && u.ProviderID != "" && u.ProviderKind != ProviderNone && u.ProviderKind != ""
}
