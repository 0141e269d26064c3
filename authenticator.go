package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
)

// Auther implements password login, normal signup, and refresh
// rotation on top of the token service and the users repository.
type Auther struct {
	repo        RepositoryManager
	tokens      TokenService
	revocations RevocationStore
	logger      Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:        repo,
		tokens:      tokens,
		revocations: NewMemoryRevocationStore(),
		logger:      defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithRevocationStore replaces the default in memory store, e.g. with
// the redis backed one for multi instance deployments.
func (s *Auther) WithRevocationStore(store RevocationStore) *Auther {
	if store != nil {
		s.revocations = store
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies an email/password pair and mints a token pair.
// Social accounts have no password and are rejected before the hash
// comparison runs.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repo.Users().FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Debug("Login no account for email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsSocial() {
		s.logger.Debug("Login rejected for social account", "email", email, "provider", user.ProviderKind)
		return nil, ErrPasswordLoginDenied
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("Login password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("Login failed to track login", "error", err)
	}

	return s.tokens.IssueTokensFor(user)
}

// Register creates a NORMAL account with a hashed password.
func (s *Auther) Register(ctx context.Context, email, nickname, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        strings.TrimSpace(email),
		Nickname:     strings.TrimSpace(nickname),
		AccountType:  AccountNormal,
		ProviderKind: ProviderNone,
		PasswordHash: hash,
	}

	return s.repo.Users().Register(ctx, user)
}

// Refresh validates a refresh token, rotates it, and returns a fresh
// pair. The presented token is revoked for its remaining lifetime so
// it cannot be replayed.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	revoked, err := s.revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := s.tokens.Validate(refreshToken, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().FindByEmail(ctx, claims.Subject)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound.Clone().WithMetadata(map[string]any{
				"email": claims.Subject,
			})
		}
		return nil, err
	}

	if err := s.revocations.Revoke(ctx, refreshToken, claims.TTL()); err != nil {
		// rotation must not mint a second live pair for the same token
		return nil, err
	}

	return s.tokens.IssueTokensFor(user)
}

// Logout revokes both tokens of a session for their remaining life.
func (s *Auther) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, tokenString := range []string{accessToken, refreshToken} {
		if tokenString == "" {
			continue
		}
		claims, err := s.tokens.Claims(tokenString)
		if err != nil {
			// expired or garbage tokens need no revocation entry
			continue
		}
		if err := s.revocations.Revoke(ctx, tokenString, claims.TTL()); err != nil {
			return err
		}
	}
	return nil
}

// IsTokenRevoked exposes the revocation check, e.g. for middleware
// guarding access tokens.
func (s *Auther) IsTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	return s.revocations.IsRevoked(ctx, tokenString)
}
