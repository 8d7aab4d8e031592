package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("room not found")
	ErrConflict          = errors.New("selected period overlaps another booking")
	ErrInvalidPrepayment = errors.New("invalid prepayment amount")
	ErrEmailConflict     = errors.New("email address belongs to another user")
	ErrInternal          = errors.New("failed to save booking")
)
