package coupon

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
)

type Coupon struct {
	ID                    int64        `json:"id"`
	Code                  string       `json:"code"`
	DiscountType          DiscountType `json:"discount_type"`
	Value                 int64        `json:"value"`
	MinimumPurchaseAmount int64        `json:"minimum_purchase_amount"`
	UsageLimit            int          `json:"usage_limit"`
	UsageCount            int          `json:"usage_count"`
	UserLimit             int          `json:"user_limit"`
	StartDate             time.Time    `json:"start_date"`
	EndDate               time.Time    `json:"end_date"`
	Status                Status       `json:"status"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// Usage is one redemption record, ordered by UsedAt.
type Usage struct {
	ID       int64     `json:"id"`
	CouponID int64     `json:"coupon_id"`
	UserID   int64     `json:"user_id"`
	UsedAt   time.Time `json:"used_at"`
}

// Discount computes the coupon reduction over the discountable base
// (subtotal minus direct discount). Percentage discounts are floored by
// integer division; fixed discounts never exceed the base.
func (c *Coupon) Discount(base int64) int64 {
	if base <= 0 {
		return 0
	}

	switch c.DiscountType {
	case DiscountPercentage:
		return base * c.Value / 100
	case DiscountFixed:
		if c.Value > base {
			return base
		}
		return c.Value
	default:
		return 0
	}
}

// Validate runs the applicability ladder for a redemption attempt.
// grossSubtotal is the pre-markdown subtotal; priorUserUses is how many times
// the requesting user has already redeemed this coupon.
func Validate(c *Coupon, priorUserUses int, grossSubtotal int64, now time.Time) error {
	if c.Status != StatusActive {
		return ErrCouponNotActive
	}
	if now.Before(c.StartDate) {
		return ErrCouponNotStarted
	}
	if now.After(c.EndDate) {
		return ErrCouponExpired
	}
	if c.UsageCount >= c.UsageLimit {
		return ErrCouponUsageLimitReached
	}
	if c.UserLimit > 0 && priorUserUses >= c.UserLimit {
		return ErrCouponUserLimitReached
	}
	if grossSubtotal < c.MinimumPurchaseAmount {
		return ErrMinimumPurchaseNotMet
	}
	return nil
}

type NewCouponInput struct {
	Code                  string       `json:"code"`
	DiscountType          DiscountType `json:"discount_type"`
	Value                 int64        `json:"value"`
	MinimumPurchaseAmount int64        `json:"minimum_purchase_amount"`
	UsageLimit            int          `json:"usage_limit"`
	UserLimit             int          `json:"user_limit"`
	StartDate             time.Time    `json:"start_date"`
	EndDate               time.Time    `json:"end_date"`
}
