// Package apple verifies Apple identity tokens. Unlike the opaque
// token platforms there is no profile endpoint, the credential is a
// JWT signed by Apple and the profile is its claim set. Signing keys
// come from Apple's JWKS endpoint and are cached between requests.
package apple

import (
	"context"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-social-auth"
	"github.com/goliatone/go-social-auth/social"
)

const (
	defaultJWKSURL = "https://appleid.apple.com/auth/keys"
	defaultIssuer  = "https://appleid.apple.com"
)

// Config holds Apple provider configuration.
type Config struct {
	// ClientID is the app's bundle id, enforced as the token audience
	// when set.
	ClientID string

	JWKSURL string
	Issuer  string

	// RefreshInterval is the background JWKS refresh cadence.
	RefreshInterval time.Duration

	HTTPClient *http.Client
	Logger     auth.Logger
}

// Provider implements social.Provider for Apple.
type Provider struct {
	config Config
	jwks   *keyfunc.JWKS
}

// New fetches the Apple key set and returns the provider. Keys
// refresh in the background and on unknown kid, so a key rotation
// does not require a restart.
func New(cfg Config) (*Provider, error) {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = defaultJWKSURL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Hour
	}

	logger := cfg.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	options := keyfunc.Options{
		Client: cfg.HTTPClient,
		RefreshErrorHandler: func(err error) {
			logger.Error("apple JWKS background refresh failed", "error", err)
		},
		RefreshInterval:   cfg.RefreshInterval,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, options)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to fetch apple JWKS")
	}

	return &Provider{
		config: cfg,
		jwks:   jwks,
	}, nil
}

// Kind implements social.Provider.
func (p *Provider) Kind() auth.ProviderKind {
	return auth.ProviderApple
}

// Close stops the background JWKS refresh.
func (p *Provider) Close() {
	p.jwks.EndBackground()
}

type appleClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserInfo implements social.Provider. The credential is the identity
// token from Sign in with Apple. Any verification failure means the
// credential is bad, Apple itself was never contacted beyond the
// cached key set.
func (p *Provider) UserInfo(ctx context.Context, credential string) (*social.UserInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithIssuer(p.config.Issuer),
		jwt.WithExpirationRequired(),
	}
	if p.config.ClientID != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(p.config.ClientID))
	}

	claims := &appleClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, p.jwks.Keyfunc, parserOptions...)
	if err != nil {
		return nil, social.NormalizeProviderError(providerError("verify_identity_token", http.StatusUnauthorized, "invalid_token", "identity token rejected", err, nil))
	}

	if !token.Valid || claims.Subject == "" {
		return nil, social.NormalizeProviderError(providerError("verify_identity_token", http.StatusUnauthorized, "invalid_token", "identity token has no subject", nil, nil))
	}

	// Apple discloses no display name in the identity token, fall
	// back to the email local part.
	return &social.UserInfo{
		ProviderID: claims.Subject,
		Email:      claims.Email,
		Nickname:   social.NicknameFromEmail(claims.Email, "Apple User"),
		Kind:       auth.ProviderApple,
	}, nil
}

func providerError(operation string, status int, code, description string, err error, raw map[string]any) *social.ProviderError {
	return &social.ProviderError{
		Provider:    "apple",
		Operation:   operation,
		Status:      status,
		Code:        code,
		Description: description,
		Err:         err,
		Raw:         raw,
	}
}
