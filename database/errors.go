package database

import "errors"

// Store error taxonomy. Controllers map these to HTTP statuses with
// errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrReferenced        = errors.New("record is referenced by other records")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPersistence       = errors.New("persistence failure")
)
