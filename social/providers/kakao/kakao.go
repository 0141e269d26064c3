// Package kakao verifies Kakao access tokens against the Kakao user
// API. The credential is the opaque OAuth access token the mobile
// client obtained from the Kakao SDK.
package kakao

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	auth "github.com/goliatone/go-social-auth"
	"github.com/goliatone/go-social-auth/social"
)

const defaultUserInfoURL = "https://kapi.kakao.com/v2/user/me"

// Config holds Kakao provider configuration.
type Config struct {
	UserInfoURL string
	HTTPClient  *http.Client
}

// Provider implements social.Provider for Kakao.
type Provider struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Kakao provider.
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
	return auth.ProviderKakao
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
		return nil, social.NormalizeProviderError(providerError("user_info", 0, "network_error", "failed to reach kakao", err, nil))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "read_error", "failed to read response", err, nil))
	}

	if resp.StatusCode != http.StatusOK {
		code, description, raw := parseKakaoError(body)
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, code, description, nil, raw))
	}

	var userInfo kakaoUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "invalid_response", "failed to decode user response", err, nil))
	}

	if userInfo.ID == 0 {
		return nil, social.NormalizeProviderError(providerError("user_info", resp.StatusCode, "missing_id", "kakao response has no user id", nil, nil))
	}

	return mapProfile(&userInfo), nil
}

type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func mapProfile(info *kakaoUserInfo) *social.UserInfo {
	return &social.UserInfo{
		ProviderID: strconv.FormatInt(info.ID, 10),
		Email:      info.KakaoAccount.Email,
		Nickname:   info.KakaoAccount.Profile.Nickname,
		AvatarURL:  info.KakaoAccount.Profile.ProfileImageURL,
		Kind:       auth.ProviderKakao,
	}
}

func parseKakaoError(body []byte) (string, string, map[string]any) {
	var payload struct {
		Msg  string `json:"msg"`
		Code int    `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Msg != "" || payload.Code != 0) {
		return strconv.Itoa(payload.Code), payload.Msg, map[string]any{
			"code": payload.Code,
			"msg":  payload.Msg,
		}
	}
	return "unknown_error", "", nil
}

func providerError(operation string, status int, code, description string, err error, raw map[string]any) *social.ProviderError {
	return &social.ProviderError{
		Provider:    "kakao",
		Operation:   operation,
		Status:      status,
		Code:        code,
		Description: description,
		Err:         err,
		Raw:         raw,
	}
}
