package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vietcart-be/internal/coupon"
)

type CouponHandler struct {
	coupons coupon.Service
}

func NewCouponHandler(coupons coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, c)
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input coupon.NewCouponInput
	if !decodeBody(w, r, &input) {
		return
	}

	c, err := h.coupons.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, c)
}
