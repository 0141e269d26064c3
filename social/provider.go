package social

import (
	"context"
	"sort"
	"strings"

	auth "github.com/goliatone/go-social-auth"
)

// UserInfo is the normalized profile a provider returns for a
// verified credential. Only ProviderID is guaranteed, platforms differ
// on what else they disclose.
type UserInfo struct {
	ProviderID string            `json:"provider_id"`
	Email      string            `json:"email,omitempty"`
	Nickname   string            `json:"nickname,omitempty"`
	AvatarURL  string            `json:"avatar_url,omitempty"`
	Kind       auth.ProviderKind `json:"provider_kind"`
	Raw        map[string]any    `json:"-"`
}

// TempUser converts the profile into the snapshot embedded in TEMP
// tokens.
func (u *UserInfo) TempUser() auth.TempUserInfo {
	return auth.TempUserInfo{
		Email:        u.Email,
		ProviderID:   u.ProviderID,
		ProviderKind: u.Kind,
		Nickname:     u.Nickname,
		AvatarURL:    u.AvatarURL,
	}
}

// NicknameFromEmail derives a display name from the local part of an
// email address, for platforms that disclose no name claims. The
// fallback is used when the email is empty or has no local part.
func NicknameFromEmail(email, fallback string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return fallback
	}
	return local
}

// Provider verifies a platform credential and returns the profile it
// attests. The credential shape is platform specific, an opaque access
// token for Kakao and Naver, a signed identity token for Apple.
type Provider interface {
	Kind() auth.ProviderKind
	UserInfo(ctx context.Context, credential string) (*UserInfo, error)
}

// Registry holds the configured providers keyed by kind.
type Registry struct {
	providers map[auth.ProviderKind]Provider
}

// NewRegistry creates a registry with the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		providers: make(map[auth.ProviderKind]Provider, len(providers)),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p Provider) *Registry {
	if p != nil {
		r.providers[p.Kind()] = p
	}
	return r
}

// Provider returns the provider for the kind or ErrProviderNotFound.
func (r *Registry) Provider(kind auth.ProviderKind) (Provider, error) {
	if p, ok := r.providers[kind]; ok {
		return p, nil
	}
	return nil, ErrProviderNotFound.Clone().WithMetadata(map[string]any{
		"provider": string(kind),
	})
}

// Kinds lists the registered provider kinds in stable order.
func (r *Registry) Kinds() []auth.ProviderKind {
	kinds := make([]auth.ProviderKind, 0, len(r.providers))
	for kind := range r.providers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})
	return kinds
}
