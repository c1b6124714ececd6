package coupon

import (
	"context"
	"strings"
	"time"

	"vietcart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, input NewCouponInput) (*Coupon, error)

	// ValidateForUser resolves the coupon and runs the applicability ladder
	// against the requesting user and the gross (pre-markdown) subtotal.
	ValidateForUser(ctx context.Context, code string, userID int64, grossSubtotal int64) (*Coupon, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, input NewCouponInput) (*Coupon, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))

	if input.Code == "" {
		return nil, ErrInvalidCoupon
	}
	switch input.DiscountType {
	case DiscountPercentage:
		if input.Value <= 0 || input.Value > 100 {
			return nil, ErrInvalidCoupon
		}
	case DiscountFixed:
		if input.Value <= 0 {
			return nil, ErrInvalidCoupon
		}
	default:
		return nil, ErrInvalidCoupon
	}
	if input.UsageLimit <= 0 || input.MinimumPurchaseAmount < 0 {
		return nil, ErrInvalidCoupon
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidCoupon
	}

	return s.repo.Create(ctx, input)
}

func (s *service) ValidateForUser(ctx context.Context, code string, userID int64, grossSubtotal int64) (*Coupon, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ValidateForUser"),
		zap.String("code", code),
		zap.Int64("user_id", userID),
	)

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		log.Error("failed to resolve coupon", zap.Error(err))
		return nil, err
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}

	priorUses, err := s.repo.CountUsageByUser(ctx, c.ID, userID)
	if err != nil {
		return nil, err
	}

	if err := Validate(c, priorUses, grossSubtotal, s.now()); err != nil {
		log.Debug("coupon rejected", zap.Error(err))
		return nil, err
	}

	return c, nil
}
