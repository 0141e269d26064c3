package naver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	auth "github.com/goliatone/go-social-auth"
	"github.com/goliatone/go-social-auth/social"
	"github.com/goliatone/go-social-auth/social/providers/naver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultcode": "00",
			"message": "success",
			"response": {
				"id": "naver-abc-123",
				"email": "naver-user@example.com",
				"nickname": "naver-nick",
				"profile_image": "https://phinf.naver.net/img.png"
			}
		}`))
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})
	assert.Equal(t, auth.ProviderNaver, provider.Kind())

	info, err := provider.UserInfo(context.Background(), "valid-token")
	require.NoError(t, err)

	assert.Equal(t, "naver-abc-123", info.ProviderID)
	assert.Equal(t, "naver-user@example.com", info.Email)
	assert.Equal(t, "naver-nick", info.Nickname)
	assert.Equal(t, auth.ProviderNaver, info.Kind)
}

func TestUserInfoNicknameFallsBackToName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"resultcode": "00",
			"message": "success",
			"response": {
				"id": "naver-abc-123",
				"email": "naver-user@example.com",
				"name": "Hong Gildong"
			}
		}`))
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "Hong Gildong", info.Nickname)
}

func TestUserInfoNicknameFallsBackToEmailLocalPart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"resultcode": "00",
			"message": "success",
			"response": {
				"id": "naver-abc-123",
				"email": "naver-user@example.com"
			}
		}`))
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "naver-user", info.Nickname)
}

func TestUserInfoRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"resultcode":"024","message":"Authentication failed"}`))
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "dead-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodeTokenInvalid))
}

func TestUserInfoPlatformOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "any-token")
	assert.Nil(t, info)
	assert.True(t, auth.HasTextCode(err, social.TextCodePlatformUnavailable))
}

func TestUserInfoMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultcode":"00","message":"success","response":{}}`))
	}))
	defer srv.Close()

	provider := naver.New(naver.Config{UserInfoURL: srv.URL})

	info, err := provider.UserInfo(context.Background(), "any-token")
	assert.Nil(t, info)
	assert.Error(t, err)
}
