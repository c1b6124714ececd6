package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vietcart-be/internal/cart"
	"vietcart-be/internal/coupon"
	"vietcart-be/internal/logger"
	"vietcart-be/internal/metrics"
	"vietcart-be/internal/middleware"
	"vietcart-be/internal/order"
	"vietcart-be/internal/product"
	"vietcart-be/internal/review"
	"vietcart-be/internal/user"
)

type Services struct {
	Users    user.Service
	Products product.Service
	Coupons  coupon.Service
	Carts    cart.Service
	Orders   order.Service
	Reviews  review.Service
	Metrics  *metrics.Registry
}

func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	// Authenticate runs before the limiter so buckets key per user, not per IP.
	r.Use(middleware.Authenticate)
	r.Use(middleware.RateLimitMiddleware)

	auth := NewAuthHandler(s.Users)
	products := NewProductHandler(s.Products)
	coupons := NewCouponHandler(s.Coupons)
	carts := NewCartHandler(s.Carts)
	orders := NewOrderHandler(s.Orders)
	reviews := NewReviewHandler(s.Reviews)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, http.StatusOK, s.Metrics.Snapshot())
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.With(middleware.RequireAuth).Get("/profile", auth.Profile)
		})

		r.With(middleware.RequireAuth).Get("/me", auth.Profile)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.With(middleware.RequireAdmin).Post("/", products.Create)
			r.Get("/{sku}", products.GetBySKU)
			r.With(middleware.RequireAdmin).Patch("/{sku}", products.Update)

			r.Get("/{sku}/reviews", reviews.ListBySKU)
			r.With(middleware.RequireAuth).Post("/{sku}/reviews", reviews.Create)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.With(middleware.RequireAdmin).Post("/", coupons.Create)
			r.Get("/{code}", coupons.GetByCode)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", carts.Get)
			r.Post("/items", carts.Add)
			r.Patch("/items", carts.UpdateQuantity)
			r.Delete("/items", carts.Remove)
			r.Delete("/", carts.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/quote", orders.Quote)
			r.Post("/", orders.Create)
			r.Get("/", orders.List)
			r.Get("/{id}", orders.Detail)
			r.Patch("/{id}/status", orders.UpdateStatus)
		})
	})

	return r
}
