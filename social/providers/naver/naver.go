// Package naver verifies Naver access tokens against the Naver
// profile API. Like Kakao the credential is an opaque access token,
// but the profile payload travels inside a response envelope.
package naver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	auth "github.com/goliatone/go-social-auth"
	"github.com/goliatone/go-social-auth/social"
)

const defaultUserInfoURL = "https://openapi.naver.com/v1/nid/me"

// Config holds Naver provider configuration.
type Config struct {
	UserInfoURL string
	HTTPClient  *http.Client
}

// Provider implements social.Provider for Naver.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Naver provider.
func New(cfg Config) *Provider {
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaultUserInfoURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Kind implements social.Provider.
func (p *Provider) Kind() auth.ProviderKind {
	return auth.ProviderNaver
}

// UserInfo implements social.Provider.
func (p *Provider) UserInfo(ctx context.Context, credential string) (*social.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", 0, "request_error", "failed to build request", err, nil))
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", 0, "network_error", "failed to reach naver", err, nil))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "read_error", "failed to read response", err, nil))
	}

	var envelope naverEnvelope
	if resp.StatusCode != http.StatusOK {
		code, description := "unknown_error", ""
		if err := json.Unmarshal(body, &envelope); err == nil {
			code, description = envelope.ResultCode, envelope.Message
		}
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, code, description, nil, nil))
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "invalid_response", "failed to decode user response", err, nil))
	}

	if envelope.Response.ID == "" {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "missing_id", "naver response has no user id", nil, nil))
	}

	// display name preference: nickname, then real name, then the
	// email local part
	nickname := envelope.Response.Nickname
	if nickname == "" {
		nickname = envelope.Response.Name
	}
	if nickname == "" {
		nickname = social.NicknameFromEmail(envelope.Response.Email, "Naver User")
	}

	return &social.UserInfo{
		ProviderID: envelope.Response.ID,
		Email:      envelope.Response.Email,
		Nickname:   nickname,
		AvatarURL:  envelope.Response.ProfileImage,
		Kind:       auth.ProviderNaver,
	}, nil
}

type naverEnvelope struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Nickname     string `json:"nickname"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func providerError(operation string, status int, code, description string, err error, raw map[string]any) *social.ProviderError {
	return &social.ProviderError{
		Provider:    "naver",
		Operation:   operation,
		Status:      status,
		Code:        code,
		Description: description,
		Err:         err,
		Raw:         raw,
	}
}
