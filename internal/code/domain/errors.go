package domain

import "errors"

var (
	ErrNotFound        = errors.New("code_not_found")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrCodeExists      = errors.New("code_exists")
	ErrCodeInUse       = errors.New("code_in_use")
	ErrCodeInactive    = errors.New("code_inactive")
	ErrConfirmRequired = errors.New("confirm_required")
)
