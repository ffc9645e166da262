package domain

import "errors"

var (
	ErrNotFound             = errors.New("order_not_found")
	ErrItemNotFound         = errors.New("item_not_found")
	ErrNotEditable          = errors.New("order_not_editable")
	ErrCancelledImmutable   = errors.New("order_cancelled")
	ErrEmptyOrder           = errors.New("order_has_no_items")
	ErrSameOrder            = errors.New("source_and_destination_identical")
	ErrTableRequired        = errors.New("table_required_for_delivery")
	ErrReopenConfirm        = errors.New("reopen_confirmation_required")
	ErrReopenReason         = errors.New("reopen_reason_required")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrDiscountNegative     = errors.New("discount_negative")
	ErrDiscountExceedsGross = errors.New("discount_exceeds_gross")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidDeliveryType  = errors.New("invalid_delivery_type")
	ErrInvalidSort          = errors.New("invalid_sort_parameter")
	ErrInvalidTotalRange    = errors.New("invalid_total_range")
	ErrProductInactive      = errors.New("product_inactive")
	ErrAdditionNotAllowed   = errors.New("addition_not_allowed_for_product")
	ErrAdditionInactive     = errors.New("addition_inactive")
)
