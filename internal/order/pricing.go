package order

import (
	"context"
	"fmt"

	"vietcart-be/internal/coupon"
	"vietcart-be/internal/logger"
	"vietcart-be/internal/product"

	"go.uber.org/zap"
)

// ProductGetter is the catalog lookup the calculator needs. Lookups go to
// the repository, not the cached service, so stock checks see fresh values.
type ProductGetter interface {
	GetBySKU(ctx context.Context, sku string) (*product.Product, error)
}

// CouponValidator resolves a code and runs the applicability ladder.
type CouponValidator interface {
	ValidateForUser(ctx context.Context, code string, userID int64, grossSubtotal int64) (*coupon.Coupon, error)
}

// Calculator computes order totals. It performs no mutation; stock
// reservation and coupon redemption happen after the order is persisted.
type Calculator struct {
	products ProductGetter
	coupons  CouponValidator
}

func NewCalculator(products ProductGetter, coupons CouponValidator) *Calculator {
	return &Calculator{products: products, coupons: coupons}
}

type QuoteRequest struct {
	Items          []LineItemRequest
	ShippingMethod ShippingMethod
	CouponCode     *string
	UserID         int64
}

// ComputeOrderTotals resolves every requested line against the catalog and
// produces the fully priced quote:
//
//	subtotal        = Σ originalPrice × quantity   (gross, pre-markdown)
//	directDiscount  = Σ (originalPrice − salePrice) × quantity, markdown lines only
//	couponDiscount  ≤ subtotal − directDiscount
//	totalPrice      = subtotal − directDiscount − couponDiscount + shippingFee
func (c *Calculator) ComputeOrderTotals(ctx context.Context, req QuoteRequest) (*Quote, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "pricing"),
		zap.Int("item_count", len(req.Items)),
	)

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	shippingFee, ok := req.ShippingMethod.Fee()
	if !ok {
		return nil, ErrInvalidShippingMethod
	}

	var (
		items          = make([]OrderItem, 0, len(req.Items))
		subtotal       int64
		directDiscount int64
	)

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		p, err := c.products.GetBySKU(ctx, line.SKU)
		if err != nil {
			log.Error("failed to resolve product", zap.String("sku", line.SKU), zap.Error(err))
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, line.SKU)
		}
		if p.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %s", product.ErrOutOfStock, line.SKU)
		}
		if line.Color != nil && !p.HasColor(*line.Color) {
			return nil, fmt.Errorf("%w: color %s", product.ErrInvalidVariant, *line.Color)
		}
		if line.Size != nil && !p.HasSize(*line.Size) {
			return nil, fmt.Errorf("%w: size %s", product.ErrInvalidVariant, *line.Size)
		}

		var lineDirect int64
		if p.SalePrice > 0 {
			lineDirect = (p.OriginalPrice - p.SalePrice) * int64(line.Quantity)
		}

		subtotal += p.OriginalPrice * int64(line.Quantity)
		directDiscount += lineDirect

		items = append(items, OrderItem{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Quantity:       line.Quantity,
			Price:          p.UnitPrice(),
			OriginalPrice:  p.OriginalPrice,
			SalePrice:      p.SalePrice,
			DirectDiscount: lineDirect,
			Color:          line.Color,
			Size:           line.Size,
		})
	}

	quote := &Quote{
		Items:          items,
		Subtotal:       subtotal,
		DirectDiscount: directDiscount,
		ShippingFee:    shippingFee,
	}

	if req.CouponCode != nil && *req.CouponCode != "" {
		cpn, err := c.coupons.ValidateForUser(ctx, *req.CouponCode, req.UserID, subtotal)
		if err != nil {
			return nil, err
		}

		quote.CouponDiscount = cpn.Discount(subtotal - directDiscount)
		quote.CouponID = &cpn.ID
		quote.CouponCode = &cpn.Code
	}

	quote.TotalPrice = subtotal - directDiscount - quote.CouponDiscount + shippingFee

	log.Debug("order totals computed",
		zap.Int64("subtotal", quote.Subtotal),
		zap.Int64("direct_discount", quote.DirectDiscount),
		zap.Int64("coupon_discount", quote.CouponDiscount),
		zap.Int64("shipping_fee", quote.ShippingFee),
		zap.Int64("total_price", quote.TotalPrice),
	)

	return quote, nil
}
