package review

import (
	"context"

	"go.uber.org/zap"

	"vietcart-be/internal/logger"
	"vietcart-be/internal/product"
)

type ProductGetter interface {
	GetBySKU(ctx context.Context, sku string) (*product.Product, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, input NewReviewInput) (*Review, error)
	ListBySKU(ctx context.Context, opts ListOptions) ([]*Review, error)
}

type service struct {
	repo     Repository
	products ProductGetter
}

func NewService(repo Repository, products ProductGetter) Service {
	return &service{repo: repo, products: products}
}

func (s *service) Create(ctx context.Context, userID int64, input NewReviewInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("sku", input.SKU),
	)

	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.products.GetBySKU(ctx, input.SKU); err != nil {
		return nil, err
	}

	verified, err := s.repo.HasDeliveredOrderWithSKU(ctx, userID, input.SKU)
	if err != nil {
		log.Error("failed to check purchase history", zap.Error(err))
		return nil, err
	}
	if !verified {
		return nil, ErrNotPurchased
	}

	rv := &Review{
		UserID:   userID,
		SKU:      input.SKU,
		Rating:   input.Rating,
		Comment:  input.Comment,
		Verified: true,
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		log.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	return rv, nil
}

func (s *service) ListBySKU(ctx context.Context, opts ListOptions) ([]*Review, error) {
	return s.repo.ListBySKU(ctx, opts)
}
