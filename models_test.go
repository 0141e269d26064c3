package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProviderKind(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderKind
		ok    bool
	}{
		{"kakao", ProviderKakao, true},
		{"KAKAO", ProviderKakao, true},
		{" Naver ", ProviderNaver, true},
		{"apple", ProviderApple, true},
		{"google", ProviderNone, false},
		{"", ProviderNone, false},
		{"none", ProviderNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseProviderKind(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestUserHelpers(t *testing.T) {
	social := &User{
		AccountType:  AccountSocial,
		ProviderID:   "123",
		ProviderKind: ProviderKakao,
	}
	assert.True(t, social.IsSocial())
	assert.True(t, social.HasProviderIdentity())

	normal := &User{
		AccountType:  AccountNormal,
		ProviderKind: ProviderNone,
	}
	assert.False(t, normal.IsSocial())
	assert.False(t, normal.HasProviderIdentity())

	var nilUser *User
	assert.False(t, nilUser.IsSocial())
	assert.False(t, nilUser.HasProviderIdentity())
}
