package domain

import "errors"

// Sentinel errors shared across repositories and services. Services wrap
// unexpected failures with fmt.Errorf("...: %w", err); controllers map these
// sentinels to HTTP status codes with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicatePhone      = errors.New("phone already in use")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrDuplicateIdentifier = errors.New("identifier already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrInvalidCode         = errors.New("invalid or expired verification code")
)
