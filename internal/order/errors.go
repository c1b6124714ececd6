package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrEmptyOrder            = errors.New("order must contain at least one item")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidShippingMethod = errors.New("invalid shipping method")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrForbidden             = errors.New("not allowed to modify this order")

	ErrMissingShippingAddress = errors.New("shipping address is required")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
)

// IllegalTransitionError rejects a status change that is not an edge of the
// transition table. The message is user-facing.
type IllegalTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf(
		"Không thể chuyển đơn hàng từ trạng thái %s sang trạng thái %s",
		statusLabel(e.From), statusLabel(e.To),
	)
}
