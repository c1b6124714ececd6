package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vietcart-be/internal/cache"
	"vietcart-be/internal/cart"
	"vietcart-be/internal/config"
	"vietcart-be/internal/coupon"
	"vietcart-be/internal/db"
	"vietcart-be/internal/events"
	"vietcart-be/internal/httpapi"
	"vietcart-be/internal/logger"
	"vietcart-be/internal/metrics"
	"vietcart-be/internal/order"
	"vietcart-be/internal/product"
	"vietcart-be/internal/review"
	"vietcart-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	var productCache cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedisCache(cfg.RedisAddr, "vietcart")
	}

	reg := metrics.NewRegistry()

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, reg)
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, productCache)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productSvc)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo, productSvc)

	calc := order.NewCalculator(productRepo, couponSvc)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, calc, productSvc, couponRepo, userRepo, cartRepo, publisher, reg)

	router := httpapi.NewRouter(httpapi.Services{
		Users:    userSvc,
		Products: productSvc,
		Coupons:  couponSvc,
		Carts:    cartSvc,
		Orders:   orderSvc,
		Reviews:  reviewSvc,
		Metrics:  reg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("🚀 API server running at http://localhost:%s/", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("publisher close: %v", err)
	}

	log.Println("server stopped")
}
