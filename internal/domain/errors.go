package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
