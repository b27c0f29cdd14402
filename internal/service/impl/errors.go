package impl

import "errors"

var (
	ErrEmptyPassword   = errors.New("empty password")
	ErrEmptyCredential = errors.New("empty credential(s)")
	ErrEmptyEmail      = errors.New("empty email")
	ErrPasswordLength  = errors.New("password too short")
	ErrClaimNotFound   = errors.New("claim not found")
)
