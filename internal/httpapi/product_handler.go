package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vietcart-be/internal/product"
	"vietcart-be/internal/utils"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := product.ListOptions{
		Search: r.URL.Query().Get("search"),
		Limit:  parseInt32(r.URL.Query().Get("limit"), 20),
		Page:   parseInt32(r.URL.Query().Get("page"), 1),
	}

	// Disabled products stay hidden from customers.
	if utils.IsAdmin(r.Context()) && r.URL.Query().Get("include_disabled") == "true" {
		opts.IncludeDisabled = true
	}

	list, err := h.products.GetList(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, list)
}

func (h *ProductHandler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input product.NewProductInput
	if !decodeBody(w, r, &input) {
		return
	}

	p, err := h.products.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input product.UpdateProductInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.SKU = chi.URLParam(r, "sku")

	p, err := h.products.Update(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, p)
}

func parseInt32(s string, fallback int32) int32 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return fallback
	}
	return int32(n)
}
