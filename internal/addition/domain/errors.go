package domain

import "errors"

var (
	ErrNotFound     = errors.New("addition_not_found")
	ErrInvalidName  = errors.New("invalid_addition_name")
	ErrNameExists   = errors.New("addition_name_exists")
	ErrInvalidPrice = errors.New("invalid_addition_price")
	ErrInUse        = errors.New("addition_in_use")
)
