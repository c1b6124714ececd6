package cart

import (
	"context"

	"go.uber.org/zap"

	"vietcart-be/internal/logger"
	"vietcart-be/internal/product"
)

type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error)
	GetCart(ctx context.Context, userID int64) ([]*CartItem, error)
	UpdateQuantity(ctx context.Context, userID int64, sku string, color, size *string, quantity int) (*CartItem, error)
	Remove(ctx context.Context, params RemoveFromCartParams) error
	GetItems(ctx context.Context, userID int64) ([]*CartItem, error)
	Clear(ctx context.Context, userID int64) error
}

type service struct {
	repo     Repository
	products product.Service
}

func NewService(repo Repository, products product.Service) Service {
	return &service{repo: repo, products: products}
}

func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
	)

	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetBySKU(ctx, params.SKU)
	if err != nil {
		log.Error("failed to load product", zap.String("sku", params.SKU), zap.Error(err))
		return nil, err
	}
	if params.Color != nil && !p.HasColor(*params.Color) {
		return nil, product.ErrInvalidVariant
	}
	if params.Size != nil && !p.HasSize(*params.Size) {
		return nil, product.ErrInvalidVariant
	}

	existing, err := s.repo.GetItem(ctx, params.UserID, params.SKU, params.Color, params.Size)
	if err != nil {
		log.Error("failed to look up cart item", zap.Error(err))
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}
	if finalQty > p.Stock {
		return nil, product.ErrOutOfStock
	}

	var item *CartItem
	if existing != nil {
		item, err = s.repo.UpdateQuantity(ctx, existing.ID, finalQty)
	} else {
		item, err = s.repo.CreateItem(ctx, params)
	}
	if err != nil {
		log.Error("failed to save cart item", zap.Error(err))
		return nil, err
	}

	item.Product = p
	return item, nil
}

func (s *service) GetCart(ctx context.Context, userID int64) ([]*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCart"),
	)

	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}

	for _, item := range items {
		p, err := s.products.GetBySKU(ctx, item.SKU)
		if err != nil {
			log.Warn("cart references unknown product", zap.String("sku", item.SKU), zap.Error(err))
			continue
		}
		item.Product = p
	}

	return items, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID int64, sku string, color, size *string, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateQuantity"),
	)

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	existing, err := s.repo.GetItem(ctx, userID, sku, color, size)
	if err != nil {
		log.Error("failed to look up cart item", zap.Error(err))
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}

	p, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, product.ErrOutOfStock
	}

	item, err := s.repo.UpdateQuantity(ctx, existing.ID, quantity)
	if err != nil {
		log.Error("failed to update cart item", zap.Error(err))
		return nil, err
	}

	item.Product = p
	return item, nil
}

func (s *service) Remove(ctx context.Context, params RemoveFromCartParams) error {
	return s.repo.Remove(ctx, params)
}

func (s *service) GetItems(ctx context.Context, userID int64) ([]*CartItem, error) {
	return s.repo.GetItems(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}
