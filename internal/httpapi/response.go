package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vietcart-be/internal/cart"
	"vietcart-be/internal/coupon"
	"vietcart-be/internal/logger"
	"vietcart-be/internal/order"
	"vietcart-be/internal/product"
	"vietcart-be/internal/review"
	"vietcart-be/internal/user"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Message: message})
}

var notFoundErrors = []error{
	product.ErrProductNotFound,
	coupon.ErrCouponNotFound,
	order.ErrOrderNotFound,
	user.ErrUserNotFound,
	cart.ErrCartItemNotFound,
}

var badRequestErrors = []error{
	product.ErrOutOfStock,
	product.ErrInvalidVariant,
	product.ErrInvalidPricing,
	coupon.ErrCouponNotActive,
	coupon.ErrCouponNotStarted,
	coupon.ErrCouponExpired,
	coupon.ErrCouponUsageLimitReached,
	coupon.ErrCouponUserLimitReached,
	coupon.ErrMinimumPurchaseNotMet,
	coupon.ErrInvalidCoupon,
	order.ErrEmptyOrder,
	order.ErrInvalidQuantity,
	order.ErrInvalidShippingMethod,
	order.ErrInvalidStatus,
	order.ErrMissingShippingAddress,
	order.ErrInvalidPaymentMethod,
	user.ErrWeakPassword,
	cart.ErrInvalidQuantity,
	cart.ErrCartEmpty,
	review.ErrInvalidRating,
}

var conflictErrors = []error{
	product.ErrSKUExists,
	coupon.ErrCodeExists,
	user.ErrEmailExists,
	review.ErrAlreadyReviewed,
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and collapsed into a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var illegal *order.IllegalTransitionError
	if errors.As(err, &illegal) {
		respondMessage(w, http.StatusBadRequest, illegal.Error())
		return
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			respondMessage(w, http.StatusNotFound, err.Error())
			return
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			respondMessage(w, http.StatusConflict, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, order.ErrForbidden), errors.Is(err, review.ErrNotPurchased):
		respondMessage(w, http.StatusForbidden, err.Error())
	default:
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
