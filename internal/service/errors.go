package service

import "errors"

const (
	CodeEmailExists            = "EMAIL_EXISTS"
	CodeInvalidCode            = "INVALID_CODE"
	CodeVerificationNotPending = "VERIFICATION_NOT_PENDING"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeNotFound               = "NOT_FOUND"
	CodeUpstreamAuth           = "UPSTREAM_AUTH_ERROR"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken    = "INVALID_REFRESH_TOKEN"
	CodeGoogleAuthFailed       = "GOOGLE_AUTH_FAILED"
)

// AuthError is a business failure carrying a machine-readable code. Two
// AuthErrors match under errors.Is when their codes are equal.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

var (
	ErrEmailExists            = &AuthError{Code: CodeEmailExists, Message: "User with this email already exists"}
	ErrInvalidCode            = &AuthError{Code: CodeInvalidCode, Message: "Invalid or expired verification code"}
	ErrVerificationNotPending = &AuthError{Code: CodeVerificationNotPending, Message: "No pending verification for this email"}
	ErrInvalidToken           = &AuthError{Code: CodeInvalidToken, Message: "Invalid or expired reset token"}
	ErrProfileNotFound        = &AuthError{Code: CodeNotFound, Message: "User profile not found"}
	ErrUpstreamAuth           = &AuthError{Code: CodeUpstreamAuth, Message: "Authentication provider request failed"}
	ErrInvalidCredentials     = &AuthError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}
	ErrInvalidRefreshToken    = &AuthError{Code: CodeInvalidRefreshToken, Message: "Invalid refresh token"}
	ErrGoogleAuthFailed       = &AuthError{Code: CodeGoogleAuthFailed, Message: "Google authentication failed"}
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrIdentityRequest wraps any non-2xx answer from the identity provider.
	ErrIdentityRequest    = errors.New("identity provider request failed")
	ErrIdentityUserExists = errors.New("identity provider user already exists")
)
