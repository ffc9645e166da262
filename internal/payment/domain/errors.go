package domain

import "errors"

var (
	ErrNotFound      = errors.New("payment_not_found")
	ErrInvalidMethod = errors.New("invalid_payment_method")
	ErrInvalidAmount = errors.New("invalid_payment_amount")
	ErrOverpayment   = errors.New("amount_exceeds_outstanding")
	ErrNotPending    = errors.New("payment_not_pending")
	ErrInvalidStatus = errors.New("invalid_payment_status")
	ErrNotTerminal   = errors.New("method_not_supported_by_terminal")
	ErrRefNotFound   = errors.New("payment_reference_not_found")
)
