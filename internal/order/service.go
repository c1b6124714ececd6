package order

import (
	"context"
	"strings"
	"time"

	"vietcart-be/internal/cart"
	"vietcart-be/internal/events"
	"vietcart-be/internal/logger"
	"vietcart-be/internal/metrics"
	"vietcart-be/internal/user"

	"go.uber.org/zap"
)

// StockAdjuster applies reservation side effects on the catalog.
// product.Service satisfies it and invalidates its cache on the way.
type StockAdjuster interface {
	ReserveStock(ctx context.Context, sku string, quantity int) error
	RestoreStock(ctx context.Context, sku string, quantity int) error
}

// CouponRedeemer mutates coupon usage counters. coupon.Repository satisfies it.
type CouponRedeemer interface {
	RecordUsage(ctx context.Context, couponID, userID int64) error
	RollbackUsage(ctx context.Context, couponID, userID int64) error
}

// UserAggregator applies the delivered-order update to the buyer's
// aggregates. user.Repository satisfies it.
type UserAggregator interface {
	ApplyDeliveredOrder(ctx context.Context, userID int64, amount int64) (*user.User, error)
}

// CartProvider lets checkout drain the stored cart. cart.Repository satisfies it.
type CartProvider interface {
	GetItems(ctx context.Context, userID int64) ([]*cart.CartItem, error)
	Clear(ctx context.Context, userID int64) error
}

type CreateOrderInput struct {
	Items           []LineItemRequest `json:"items"`
	ShippingMethod  ShippingMethod    `json:"shipping_method"`
	CouponCode      *string           `json:"coupon_code"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
}

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*Order, error)
	GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error)
	GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*Order, error)
	TransitionStatus(ctx context.Context, orderID int64, newStatus OrderStatus, actingUserID int64, isAdmin bool, note *string) (*Order, error)
}

type service struct {
	repo      Repository
	calc      *Calculator
	stock     StockAdjuster
	coupons   CouponRedeemer
	users     UserAggregator
	carts     CartProvider
	publisher events.Publisher
	created   *metrics.Counter
	now       func() time.Time
}

func NewService(
	repo Repository,
	calc *Calculator,
	stock StockAdjuster,
	coupons CouponRedeemer,
	users UserAggregator,
	carts CartProvider,
	publisher events.Publisher,
	reg *metrics.Registry,
) Service {
	return &service{
		repo:      repo,
		calc:      calc,
		stock:     stock,
		coupons:   coupons,
		users:     users,
		carts:     carts,
		publisher: publisher,
		created:   reg.Counter("orders_created"),
		now:       time.Now,
	}
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	return s.calc.ComputeOrderTotals(ctx, req)
}

func (s *service) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int64("user_id", userID),
	)

	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, ErrMissingShippingAddress
	}
	switch input.PaymentMethod {
	case "cod", "bank_transfer":
	default:
		return nil, ErrInvalidPaymentMethod
	}

	items := input.Items
	fromCart := false
	if len(items) == 0 {
		cartItems, err := s.carts.GetItems(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(cartItems) == 0 {
			return nil, cart.ErrCartEmpty
		}
		for _, ci := range cartItems {
			items = append(items, LineItemRequest{
				SKU:      ci.SKU,
				Quantity: ci.Quantity,
				Color:    ci.Color,
				Size:     ci.Size,
			})
		}
		fromCart = true
	}

	quote, err := s.calc.ComputeOrderTotals(ctx, QuoteRequest{
		Items:          items,
		ShippingMethod: input.ShippingMethod,
		CouponCode:     input.CouponCode,
		UserID:         userID,
	})
	if err != nil {
		return nil, err
	}

	// Reserve stock per line before anything becomes visible. Reservation is
	// an atomic decrement-if-sufficient, so concurrent checkouts cannot
	// oversell; a failed line releases everything reserved so far.
	reserved := make([]OrderItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		if err := s.stock.ReserveStock(ctx, item.SKU, item.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	if quote.CouponID != nil {
		if err := s.coupons.RecordUsage(ctx, *quote.CouponID, userID); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
	}

	now := s.now()
	note := "order created"
	o := &Order{
		ShortID:         NewShortID(now),
		UserID:          userID,
		Items:           quote.Items,
		Subtotal:        quote.Subtotal,
		DirectDiscount:  quote.DirectDiscount,
		CouponDiscount:  quote.CouponDiscount,
		ShippingFee:     quote.ShippingFee,
		TotalPrice:      quote.TotalPrice,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   "unpaid",
		ShippingMethod:  input.ShippingMethod,
		CouponID:        quote.CouponID,
		CouponCode:      quote.CouponCode,
		Status:          StatusPending,
		StatusHistory: []StatusEntry{{
			Status:    StatusPending,
			UpdatedAt: now,
			UpdatedBy: userID,
			Note:      &note,
		}},
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		if quote.CouponID != nil {
			if rbErr := s.coupons.RollbackUsage(ctx, *quote.CouponID, userID); rbErr != nil {
				log.Error("failed to roll back coupon usage", zap.Error(rbErr))
			}
		}
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	if fromCart {
		if err := s.carts.Clear(ctx, userID); err != nil {
			log.Warn("failed to clear cart after checkout", zap.Error(err))
		}
	}

	s.publish(ctx, events.TypeOrderCreated, o)
	s.created.Inc()

	log.Info("order created",
		zap.String("short_id", o.ShortID),
		zap.Int64("total_price", o.TotalPrice),
	)

	return o, nil
}

func (s *service) releaseStock(ctx context.Context, items []OrderItem) {
	for _, item := range items {
		if err := s.stock.RestoreStock(ctx, item.SKU, item.Quantity); err != nil {
			logger.FromCtx(ctx).Error("failed to release reserved stock",
				zap.String("sku", item.SKU),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}
}

func (s *service) GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) TransitionStatus(ctx context.Context, orderID int64, newStatus OrderStatus, actingUserID int64, isAdmin bool, note *string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "TransitionStatus"),
		zap.Int64("order_id", orderID),
		zap.String("new_status", string(newStatus)),
	)

	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	// Customers may only cancel their own order while it is still pending;
	// every other transition is an admin operation.
	if !isAdmin {
		if o.UserID != actingUserID || newStatus != StatusCancelled || o.Status != StatusPending {
			return nil, ErrForbidden
		}
	}

	if !CanTransition(o.Status, newStatus) {
		return nil, &IllegalTransitionError{From: o.Status, To: newStatus}
	}

	markSpent := false

	switch newStatus {
	case StatusDelivered:
		if !o.IsTotalSpentUpdated {
			if _, err := s.users.ApplyDeliveredOrder(ctx, o.UserID, o.TotalPrice); err != nil {
				log.Error("failed to update user aggregates", zap.Error(err))
				return nil, err
			}
			markSpent = true
		}

	case StatusCancelled:
		for _, item := range o.Items {
			if err := s.stock.RestoreStock(ctx, item.SKU, item.Quantity); err != nil {
				log.Error("failed to restore stock", zap.String("sku", item.SKU), zap.Error(err))
				return nil, err
			}
		}
		if o.Status == StatusPending && o.CouponID != nil {
			if err := s.coupons.RollbackUsage(ctx, *o.CouponID, o.UserID); err != nil {
				log.Error("failed to roll back coupon usage", zap.Error(err))
				return nil, err
			}
		}
	}

	entry := StatusEntry{
		Status:    newStatus,
		UpdatedAt: s.now(),
		UpdatedBy: actingUserID,
		Note:      note,
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus, entry, markSpent); err != nil {
		return nil, err
	}

	o.Status = newStatus
	o.StatusHistory = append(o.StatusHistory, entry)
	if markSpent {
		o.IsTotalSpentUpdated = true
	}

	s.publish(ctx, events.TypeOrderStatusChanged, o)

	log.Info("order status updated", zap.String("short_id", o.ShortID))
	return o, nil
}

func (s *service) publish(ctx context.Context, eventType string, o *Order) {
	// Publishing is best effort; delivery failures are logged by the publisher.
	_ = s.publisher.PublishOrderEvent(ctx, events.OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		ShortID:    o.ShortID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		OccurredAt: s.now(),
	})
}
