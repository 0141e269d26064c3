package social

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound    = "social_provider_not_found"
	TextCodeTokenInvalid        = "social_token_invalid"
	TextCodePlatformError       = "social_platform_error"
	TextCodePlatformUnavailable = "social_platform_unavailable"
	TextCodeInvalidSignup       = "social_invalid_signup"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("social provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenInvalid is returned when the platform rejects the credential,
// e.g. an expired or revoked access token.
var ErrTokenInvalid = errors.New("social credential invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrPlatformError is returned when the platform rejects the request
// for any reason other than the credential itself.
var ErrPlatformError = errors.New("social platform rejected the request", errors.CategoryOperation).
	WithTextCode(TextCodePlatformError).
	WithCode(errors.CodeBadRequest)

// ErrPlatformUnavailable is returned for platform outages and network
// failures. Clients can retry, nothing about the credential is known.
var ErrPlatformUnavailable = errors.New("social platform unavailable", errors.CategoryOperation).
	WithTextCode(TextCodePlatformUnavailable).
	WithCode(errors.CodeInternal)

// ErrInvalidSignup is returned when the completion payload fails
// validation.
var ErrInvalidSignup = errors.New("invalid signup request", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidSignup).
	WithCode(errors.CodeBadRequest)
