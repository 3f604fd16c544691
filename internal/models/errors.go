package models

import "errors"

// Ошибки предметной области; слои оборачивают их через fmt.Errorf("...: %w", err)
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrDuplicateVote = errors.New("user has already upvoted this issue")
	ErrInvalidState  = errors.New("operation not permitted in current status")
	ErrMediaRequired = errors.New("at least one media item is required")
	ErrStorage       = errors.New("storage failure")
	ErrConflict      = errors.New("already exists")
	ErrUnauthorized  = errors.New("invalid credentials")
)
