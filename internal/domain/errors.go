package domain

import "errors"

var (
	ErrEmptyCategoryName    = errors.New("category name cannot be empty")
	ErrInvalidDiscountType  = errors.New("invalid discount type: must be percent or fixed")
	ErrInvalidVoucherStatus = errors.New("invalid voucher status: must be active or inactive")
	ErrInvalidID            = errors.New("invalid id")
	ErrNoProductIDs         = errors.New("product id list cannot be empty")
)
