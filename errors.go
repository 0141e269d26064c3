package auth

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired        = "token_expired"
	TextCodeTokenMalformed      = "token_malformed"
	TextCodeTokenBadSignature   = "token_invalid_signature"
	TextCodeTokenBadAlgorithm   = "token_unsupported_algorithm"
	TextCodeTokenInvalid        = "token_invalid"
	TextCodeTokenWrongKind      = "token_wrong_kind"
	TextCodeTokenRevoked        = "token_revoked"
	TextCodeAccountNotFound     = "account_not_found"
	TextCodeAccountExists       = "account_exists"
	TextCodeNicknameExists      = "nickname_exists"
	TextCodeInvalidCredentials  = "invalid_credentials"
	TextCodePasswordLoginDenied = "password_login_not_available"
)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadSignature is returned when signature verification fails.
var ErrTokenBadSignature = errors.New("token signature invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadAlgorithm is returned when a token was signed with an
// algorithm other than the HMAC family we issue.
var ErrTokenBadAlgorithm = errors.New("token algorithm not supported", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadAlgorithm).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid covers any remaining validation failure.
var ErrTokenInvalid = errors.New("token invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenWrongKind is returned when an otherwise valid token carries a
// different kind than the operation requires, e.g. an access token
// presented to the refresh endpoint.
var ErrTokenWrongKind = errors.New("token kind mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeTokenWrongKind).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is returned when a token was explicitly revoked.
var ErrTokenRevoked = errors.New("token revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrAccountExists is returned when an account with the same email or
// provider identity already exists.
var ErrAccountExists = errors.New("account already exists", errors.CategoryConflict).
	WithTextCode(TextCodeAccountExists).
	WithCode(errors.CodeConflict)

// ErrNicknameExists is returned when the requested nickname is taken.
var ErrNicknameExists = errors.New("nickname already taken", errors.CategoryConflict).
	WithTextCode(TextCodeNicknameExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is returned for a failed password login.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrPasswordLoginDenied is returned when a social only account
// attempts a password login.
var ErrPasswordLoginDenied = errors.New("password login not available for this account", errors.CategoryAuth).
	WithTextCode(TextCodePasswordLoginDenied).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty password input.
var ErrNoEmptyString = stderrors.New("password can not be an empty string")

// ErrMismatchedHashAndPassword mirrors the bcrypt mismatch error.
var ErrMismatchedHashAndPassword = stderrors.New("passwords do not match")

// HasTextCode reports whether err carries the given text code.
func HasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == textCode
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return HasTextCode(err, TextCodeTokenExpired)
}

// IsConflictError will check for duplicate account or nickname errors
func IsConflictError(err error) bool {
	return HasTextCode(err, TextCodeAccountExists) || HasTextCode(err, TextCodeNicknameExists)
}
