package services

import "errors"

// Typed failures surfaced to handlers. Nothing in this package retries; the
// transport layer decides what, if anything, is retryable.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrSystemRole         = errors.New("system roles cannot be deleted")
	ErrValidation         = errors.New("validation failed")
)
