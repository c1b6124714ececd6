package coupon

import "errors"

var (
	ErrCouponNotFound          = errors.New("coupon not found")
	ErrCouponNotActive         = errors.New("coupon is not active")
	ErrCouponNotStarted        = errors.New("coupon is not yet valid")
	ErrCouponExpired           = errors.New("coupon has expired")
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
	ErrCouponUserLimitReached  = errors.New("coupon usage limit for this user reached")
	ErrMinimumPurchaseNotMet   = errors.New("order does not meet the coupon minimum purchase amount")

	ErrCodeExists    = errors.New("coupon code already exists")
	ErrInvalidCoupon = errors.New("invalid coupon definition")
	ErrNoUsageRecord = errors.New("no usage record to roll back")
)

// Postgres unique_violation
const PgUniqueViolation = "23505"
