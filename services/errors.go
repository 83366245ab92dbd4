package services

import "errors"

// Sentinel errors callers branch on when mapping to HTTP responses. Benign
// idempotent outcomes (already joined, not a member) are not errors; they
// are reported as flags on the corresponding service results.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrMembershipNotFound    = errors.New("event not found for the user")
	ErrAlreadyCompletedToday = errors.New("streak already updated for today")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidToken          = errors.New("invalid or expired token")
)
