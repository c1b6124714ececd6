package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vietcart-be/internal/order"
	"vietcart-be/internal/utils"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type quoteRequest struct {
	Items          []order.LineItemRequest `json:"items"`
	ShippingMethod order.ShippingMethod    `json:"shipping_method"`
	CouponCode     *string                 `json:"coupon_code"`
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req quoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quote, err := h.orders.Quote(r.Context(), order.QuoteRequest{
		Items:          req.Items,
		ShippingMethod: req.ShippingMethod,
		CouponCode:     req.CouponCode,
		UserID:         userID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, quote)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var input order.CreateOrderInput
	if !decodeBody(w, r, &input) {
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), userID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	opts := order.ListOptions{
		Limit: parseInt32(r.URL.Query().Get("limit"), 20),
		Page:  parseInt32(r.URL.Query().Get("page"), 1),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := order.OrderStatus(s)
		if !status.Valid() {
			respondError(w, r, order.ErrInvalidStatus)
			return
		}
		opts.Status = &status
	}

	// Customers see their own orders; admins may list everyone's.
	if !utils.IsAdmin(r.Context()) {
		opts.UserID = &userID
	} else if q := r.URL.Query().Get("user_id"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		opts.UserID = &id
	}

	orders, err := h.orders.GetOrders(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, orders)
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetOrderDetail(r.Context(), userID, orderID, utils.IsAdmin(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, o)
}

type statusUpdateRequest struct {
	Status order.OrderStatus `json:"status"`
	Note   *string           `json:"note"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req statusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orders.TransitionStatus(r.Context(), orderID, req.Status, userID, utils.IsAdmin(r.Context()), req.Note)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, o)
}
