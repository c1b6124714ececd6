package product

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"vietcart-be/internal/cache"
	"vietcart-be/internal/logger"

	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

type Service interface {
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	GetList(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)

	ReserveStock(ctx context.Context, sku string, quantity int) error
	RestoreStock(ctx context.Context, sku string, quantity int) error
}

type service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) Service {
	return &service{repo: repo, cache: c}
}

// GetBySKU is a read-through cached catalog lookup. Stock-sensitive callers
// (pricing, reservation) go straight to the repository instead.
func (s *service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetBySKU"),
		zap.String("sku", sku),
	)

	key := s.cache.GenerateKey("product", sku)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var p Product
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			log.Debug("product cache hit")
			return &p, nil
		}
	}

	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		log.Error("failed to get product", zap.Error(err))
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if payload, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, payload, cacheTTL); err != nil {
			log.Warn("failed to cache product", zap.Error(err))
		}
	}

	return p, nil
}

func (s *service) GetList(ctx context.Context, opts ListOptions) ([]*Product, error) {
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, errors.New("sku cannot be empty")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("name cannot be empty")
	}
	if err := validatePricing(input.OriginalPrice, input.SalePrice); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	if input.OriginalPrice != nil || input.SalePrice != nil {
		current, err := s.repo.GetBySKU(ctx, input.SKU)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrProductNotFound
		}

		original := current.OriginalPrice
		sale := current.SalePrice
		if input.OriginalPrice != nil {
			original = *input.OriginalPrice
		}
		if input.SalePrice != nil {
			sale = *input.SalePrice
		}
		if err := validatePricing(original, sale); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.Update(ctx, input)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.SKU)
	return p, nil
}

func (s *service) ReserveStock(ctx context.Context, sku string, quantity int) error {
	if err := s.repo.ReserveStock(ctx, sku, quantity); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	return nil
}

func (s *service) RestoreStock(ctx context.Context, sku string, quantity int) error {
	if err := s.repo.RestoreStock(ctx, sku, quantity); err != nil {
		return err
	}
	s.invalidate(ctx, sku)
	return nil
}

func (s *service) invalidate(ctx context.Context, sku string) {
	key := s.cache.GenerateKey("product", sku)
	if err := s.cache.Del(ctx, key); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate product cache",
			zap.String("sku", sku),
			zap.Error(err),
		)
	}
}

func validatePricing(original, sale int64) error {
	if original < 0 || sale < 0 {
		return ErrInvalidPricing
	}
	if sale > 0 && sale > original {
		return ErrInvalidPricing
	}
	return nil
}
