package service

import "errors"

var (
	// ErrValidation wraps missing/malformed input failures.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden indicates the authenticated user does not own the resource.
	ErrForbidden = errors.New("operation not permitted")
	// ErrUserNotFound indicates no account matches the given identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when registering a taken username or email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword indicates the current password check failed on a password change.
	ErrWrongPassword = errors.New("incorrect old password")
	// ErrInvalidToken indicates a missing, malformed, expired, or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpiredOrUsed indicates a refresh token that no longer matches the
	// stored slot: it was already rotated or revoked.
	ErrTokenExpiredOrUsed = errors.New("refresh token is expired or used")
)
