package domain

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountFixed
}

type VoucherStatus string

const (
	VoucherActive   VoucherStatus = "active"
	VoucherInactive VoucherStatus = "inactive"
)

func (s VoucherStatus) Valid() bool {
	return s == VoucherActive || s == VoucherInactive
}

// Voucher mirrors the backend record. DiscountType decides how
// DiscountValue is read (percentage or fixed amount); the backend applies it.
type Voucher struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	DiscountType  DiscountType  `json:"discount_type"`
	DiscountValue float64       `json:"discount_value"`
	MinOrderValue float64       `json:"min_order_value"`
	MaxDiscount   *float64      `json:"max_discount"`
	Quantity      int           `json:"quantity"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Status        VoucherStatus `json:"status"`
	CreatedAt     string        `json:"created_at,omitempty"`
}

// VoucherInput is a partial voucher: nil fields are not sent.
type VoucherInput struct {
	Code          *string        `json:"code,omitempty"`
	DiscountType  *DiscountType  `json:"discount_type,omitempty"`
	DiscountValue *float64       `json:"discount_value,omitempty"`
	MinOrderValue *float64       `json:"min_order_value,omitempty"`
	MaxDiscount   *float64       `json:"max_discount,omitempty"`
	Quantity      *int           `json:"quantity,omitempty"`
	StartDate     *string        `json:"start_date,omitempty"`
	EndDate       *string        `json:"end_date,omitempty"`
	Status        *VoucherStatus `json:"status,omitempty"`
}

func (in VoucherInput) Validate() error {
	if in.DiscountType != nil && !in.DiscountType.Valid() {
		return ErrInvalidDiscountType
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidVoucherStatus
	}
	return nil
}

type VoucherStatusRequest struct {
	Status VoucherStatus `json:"status"`
}
