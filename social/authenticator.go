package social

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	auth "github.com/goliatone/go-social-auth"
)

// LoginStatus tells the client how to continue after a social login.
type LoginStatus string

const (
	// LoginSuccess means the account exists and tokens were minted
	LoginSuccess LoginStatus = "LOGIN_SUCCESS"
	// SignupRequired means a TEMP token was minted and the client must
	// collect the remaining profile fields
	SignupRequired LoginStatus = "SIGNUP_REQUIRED"
)

// LoginResult is the outcome of Login or CompleteSignup. Tokens and
// User are set on success, TempToken and friends on SignupRequired.
type LoginResult struct {
	Status         LoginStatus        `json:"status"`
	Tokens         *auth.TokenPair    `json:"tokens,omitempty"`
	User           *auth.User         `json:"user,omitempty"`
	TempToken      string             `json:"temp_token,omitempty"`
	TempUser       *auth.TempUserInfo `json:"temp_user,omitempty"`
	RequiredFields []SignupField      `json:"required_fields,omitempty"`
}

// SocialAuthenticator orchestrates provider verification, account
// lookup, and the two phase signup handshake.
type SocialAuthenticator struct {
	registry *Registry
	repo     auth.RepositoryManager
	tokens   auth.TokenService
	logger   auth.Logger
}

// NewSocialAuthenticator creates the orchestrator.
func NewSocialAuthenticator(registry *Registry, repo auth.RepositoryManager, tokens auth.TokenService) *SocialAuthenticator {
	return &SocialAuthenticator{
		registry: registry,
		repo:     repo,
		tokens:   tokens,
		logger:   auth.DefaultLogger(),
	}
}

func (s *SocialAuthenticator) WithLogger(logger auth.Logger) *SocialAuthenticator {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Providers lists the registered provider kinds.
func (s *SocialAuthenticator) Providers() []auth.ProviderKind {
	return s.registry.Kinds()
}

// Login verifies the platform credential and resolves it to an
// account. The provider identity pair takes precedence over email so a
// user whose platform email changed still lands on their account.
// An email held by a password account is a hard conflict, accounts are
// never merged implicitly.
func (s *SocialAuthenticator) Login(ctx context.Context, kind auth.ProviderKind, credential string) (*LoginResult, error) {
	provider, err := s.registry.Provider(kind)
	if err != nil {
		return nil, err
	}

	info, err := provider.UserInfo(ctx, credential)
	if err != nil {
		s.logger.Debug("social login provider rejected credential", "provider", kind, "error", err)
		return nil, err
	}

	users := s.repo.Users()

	user, err := users.FindByProviderIdentity(ctx, info.ProviderID, kind)
	if err == nil {
		return s.loginExisting(ctx, user)
	}
	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	if info.Email != "" {
		existing, err := users.FindByEmail(ctx, info.Email)
		switch {
		case err == nil && !existing.IsSocial():
			// only a password account blocks the email, a social
			// account from another platform proceeds to signup and
			// the persistence constraints arbitrate from there
			s.logger.Info("social login email collision",
				"provider", kind,
				"account_type", existing.AccountType,
			)
			return nil, auth.ErrAccountExists.Clone().WithMetadata(map[string]any{
				"email":        info.Email,
				"provider":     string(kind),
				"account_type": existing.AccountType,
			})
		case err != nil && !repository.IsRecordNotFound(err):
			return nil, err
		}
	}

	return s.beginSignup(info)
}

func (s *SocialAuthenticator) loginExisting(ctx context.Context, user *auth.User) (*LoginResult, error) {
	tokens, err := s.tokens.IssueTokensFor(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("social login failed to track login", "error", err)
	}

	return &LoginResult{
		Status: LoginSuccess,
		Tokens: tokens,
		User:   user,
	}, nil
}

func (s *SocialAuthenticator) beginSignup(info *UserInfo) (*LoginResult, error) {
	temp := info.TempUser()

	tempToken, err := s.tokens.IssueTempToken(temp)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Status:         SignupRequired,
		TempToken:      tempToken,
		TempUser:       &temp,
		RequiredFields: SignupFields(),
	}, nil
}
