package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vietcart-be/internal/review"
	"vietcart-be/internal/utils"
)

type ReviewHandler struct {
	reviews review.Service
}

func NewReviewHandler(reviews review.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) ListBySKU(w http.ResponseWriter, r *http.Request) {
	list, err := h.reviews.ListBySKU(r.Context(), review.ListOptions{
		SKU:   chi.URLParam(r, "sku"),
		Limit: parseInt32(r.URL.Query().Get("limit"), 20),
		Page:  parseInt32(r.URL.Query().Get("page"), 1),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, list)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var input review.NewReviewInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.SKU = chi.URLParam(r, "sku")

	rv, err := h.reviews.Create(r.Context(), userID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, rv)
}
