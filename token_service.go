package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTTL is the default access token lifetime
	DefaultAccessTTL = 30 * time.Minute
	// DefaultRefreshTTL is the default refresh token lifetime
	DefaultRefreshTTL = 14 * 24 * time.Hour
	// DefaultTempTTL is the default signup bridge token lifetime
	DefaultTempTTL = 30 * time.Minute
)

// TokenService mints and validates the three token kinds. Issuance and
// validation are stateless, every instance with the same signing key
// accepts the same tokens.
type TokenService interface {
	IssueTokensFor(user *User) (*TokenPair, error)
	IssueTempToken(info TempUserInfo) (string, error)
	Validate(tokenString string, kind TokenKind) (*TokenClaims, error)
	Claims(tokenString string) (*TokenClaims, error)
	IsKind(tokenString string, kind TokenKind) bool
	TempUser(tokenString string) (*TempUserInfo, error)
}

// TokenPair is the access/refresh pair returned by login and refresh.
// Expirations are reported in milliseconds so clients can schedule
// renewal without parsing the tokens.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresIn  int64  `json:"access_expires_in_ms"`
	RefreshExpiresIn int64  `json:"refresh_expires_in_ms"`
}

// TokenConfig carries signing material and per kind lifetimes.
type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   jwt.ClaimStrings
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	TempTTL    time.Duration
}

// NewTokenConfig builds a TokenConfig from the Config surface. TTLs
// are expressed in minutes, zero keeps the default lifetime.
func NewTokenConfig(cfg Config) TokenConfig {
	return TokenConfig{
		SigningKey: []byte(cfg.GetSigningKey()),
		Issuer:     cfg.GetIssuer(),
		Audience:   cfg.GetAudience(),
		AccessTTL:  time.Duration(cfg.GetAccessTokenTTL()) * time.Minute,
		RefreshTTL: time.Duration(cfg.GetRefreshTokenTTL()) * time.Minute,
		TempTTL:    time.Duration(cfg.GetTempTokenTTL()) * time.Minute,
	}
}

func (c TokenConfig) ttlFor(kind TokenKind) time.Duration {
	switch kind {
	case TokenKindAccess:
		if c.AccessTTL > 0 {
			return c.AccessTTL
		}
		return DefaultAccessTTL
	case TokenKindRefresh:
		if c.RefreshTTL > 0 {
			return c.RefreshTTL
		}
		return DefaultRefreshTTL
	case TokenKindTemp:
		if c.TempTTL > 0 {
			return c.TempTTL
		}
		return DefaultTempTTL
	}
	return DefaultAccessTTL
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	config TokenConfig
	logger Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(config TokenConfig, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		config: config,
		logger: logger,
	}
}

// IssueTokensFor mints a fresh access/refresh pair for the user.
func (ts *TokenServiceImpl) IssueTokensFor(user *User) (*TokenPair, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryInternal)
	}

	access, err := ts.issue(TokenKindAccess, user)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.issue(TokenKindRefresh, user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresIn:  ts.config.ttlFor(TokenKindAccess).Milliseconds(),
		RefreshExpiresIn: ts.config.ttlFor(TokenKindRefresh).Milliseconds(),
	}, nil
}

func (ts *TokenServiceImpl) issue(kind TokenKind, user *User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.config.Issuer,
			Subject:   user.Email,
			Audience:  ts.config.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.config.ttlFor(kind))),
		},
		Kind:     kind,
		UID:      user.ID.String(),
		Nickname: user.Nickname,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// IssueTempToken mints a TEMP token carrying the provider snapshot.
// The subject is a sentinel because no account exists yet.
func (ts *TokenServiceImpl) IssueTempToken(info TempUserInfo) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.config.Issuer,
			Subject:   TempSubject,
			Audience:  ts.config.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.config.ttlFor(TokenKindTemp))),
		},
		Kind:     TokenKindTemp,
		TempUser: &info,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses the token, verifies the signature, and enforces the
// expected kind. The kind claim is checked only after the signature is
// known good so an attacker cannot learn anything by editing it.
func (ts *TokenServiceImpl) Validate(tokenString string, kind TokenKind) (*TokenClaims, error) {
	claims, err := ts.Claims(tokenString)
	if err != nil {
		return nil, err
	}

	if !claims.IsKind(kind) {
		return nil, ErrTokenWrongKind.Clone().WithMetadata(map[string]any{
			"expected": string(kind),
			"actual":   string(claims.Kind),
		})
	}

	return claims, nil
}

// Claims verifies the signature and standard claims and returns the
// decoded claim set without checking the kind.
func (ts *TokenServiceImpl) Claims(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.config.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.config.Issuer))
	}
	if len(ts.config.Audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.config.Audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.config.SigningKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, ts.normalizeParseError(err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenInvalid
}

// IsKind reports whether the token is valid and of the given kind.
func (ts *TokenServiceImpl) IsKind(tokenString string, kind TokenKind) bool {
	claims, err := ts.Claims(tokenString)
	if err != nil {
		return false
	}
	return claims.IsKind(kind)
}

// TempUser validates a TEMP token and returns the embedded snapshot.
func (ts *TokenServiceImpl) TempUser(tokenString string) (*TempUserInfo, error) {
	claims, err := ts.Validate(tokenString, TokenKindTemp)
	if err != nil {
		return nil, err
	}

	if claims.TempUser == nil {
		return nil, ErrTokenInvalid.Clone().WithMetadata(map[string]any{
			"reason": "temp token missing user snapshot",
		})
	}

	return claims.TempUser, nil
}

func (ts *TokenServiceImpl) normalizeParseError(err error) error {
	var clone *errors.Error

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		clone = ErrTokenExpired.Clone()
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		clone = ErrTokenBadSignature.Clone()
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		clone = ErrTokenBadAlgorithm.Clone()
	case errors.Is(err, jwt.ErrTokenMalformed):
		clone = ErrTokenMalformed.Clone()
	default:
		clone = ErrTokenInvalid.Clone()
	}

	clone.Source = err
	return clone
}
