package domain

import "errors"

var (
	ErrNotFound         = errors.New("product_not_found")
	ErrInvalidName      = errors.New("invalid_product_name")
	ErrNameExists       = errors.New("product_name_exists")
	ErrInvalidPrice     = errors.New("invalid_product_price")
	ErrInvalidStock     = errors.New("invalid_stock_quantity")
	ErrAdditionNotFound = errors.New("linked_addition_not_found")
)
