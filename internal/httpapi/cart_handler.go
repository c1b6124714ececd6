package httpapi

import (
	"net/http"

	"vietcart-be/internal/cart"
	"vietcart-be/internal/utils"
)

type CartHandler struct {
	carts cart.Service
}

func NewCartHandler(carts cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemRequest struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Color    *string `json:"color"`
	Size     *string `json:"size"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, items)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.carts.AddToCart(r.Context(), cart.AddToCartParams{
		UserID:   userID,
		SKU:      req.SKU,
		Quantity: req.Quantity,
		Color:    req.Color,
		Size:     req.Size,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, item)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.carts.UpdateQuantity(r.Context(), userID, req.SKU, req.Color, req.Size, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, item)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.carts.Remove(r.Context(), cart.RemoveFromCartParams{
		UserID: userID,
		SKU:    req.SKU,
		Color:  req.Color,
		Size:   req.Size,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]bool{"cleared": true})
}
