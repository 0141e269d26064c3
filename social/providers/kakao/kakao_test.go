package kakao_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	auth "github.com/goliatone/go-social-auth"
	"github.com/goliatone/go-social-auth/social"
	"github.com/goliatone/go-social-auth/social/providers/kakao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 123456789,
			"kakao_account": {
				"email": "kakao-user@example.com",
				"profile": {
					"nickname": "kakao-nick",
					"profile_image_url": "https://k.kakaocdn.net/img.png"
				}
			}
		}`))
	}))
	defer srv.Close()

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})
	assert.Equal(t, auth.ProviderKakao, provider.Kind())

	info, err := provider.UserInfo(context.Background(), "valid-token")
	require.NoError(t, err)

	assert.Equal(t, "123456789", info.ProviderID)
	assert.Equal(t, "kakao-user@example.com", info.Email)
	assert.Equal(t, "kakao-nick", info.Nickname)
	assert.Equal(t, "https://k.kakaocdn.net/img.png", info.AvatarURL)
	assert.Equal(t, auth.ProviderKakao, info.Kind)
}

func TestUserInfoRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"this access token does not exist","code":-401}`))
	}))
	defer srv.Close()

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "expired-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodeTokenInvalid))
}

func TestUserInfoPlatformError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"msg":"insufficient scopes","code":-402}`))
	}))
	defer srv.Close()

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "scoped-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodePlatformError))
}

func TestUserInfoPlatformOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "any-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodePlatformUnavailable))
}

func TestUserInfoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "any-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodePlatformUnavailable))
}

func TestUserInfoMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kakao_account":{}}`))
	}))
	defer srv.Close()

	provider := kakao.New(kakao.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "any-token")
	assert.Nil(t, info)
	assert.Error(t, err)
}
